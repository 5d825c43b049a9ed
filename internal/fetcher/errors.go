package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// StatusError adalah error HTTP dari platform dengan status code.
// 5xx dianggap transient (boleh retry), 4xx dianggap terminal.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform mengembalikan status %d: %s", e.StatusCode, e.Body)
}

// MalformedPayloadError adalah error payload yang tidak bisa di-decode.
// Selalu terminal: retry tidak akan memperbaiki payload rusak.
type MalformedPayloadError struct {
	Cause error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("payload platform tidak valid: %v", e.Cause)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Cause
}

// IsTransient mengklasifikasikan error fetch: transient (timeout jaringan,
// koneksi reset, 5xx) boleh di-retry; selain itu terminal dan langsung gagal
// tanpa retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Pembatalan context bukan kegagalan platform, jangan di-retry
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var malformed *MalformedPayloadError
	if errors.As(err, &malformed) {
		return false
	}

	var status *StatusError
	if errors.As(err, &status) {
		return status.StatusCode >= 500
	}

	// Timeout jaringan
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Koneksi reset / putus
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	// Error *net.OpError lain (DNS, routing) dianggap transient
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return false
}
