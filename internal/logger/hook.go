package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook adalah hook untuk menulis log secara asinkron agar tidak memblokir
// request handling. Hook membuffer log entries dan menulisnya ke para writer
// dalam goroutine terpisah. Mendukung banyak writer (file, stdout).
type AsyncHook struct {
	writers    []io.Writer // Daftar writer (file, stdout, dll)
	entries    chan *logrus.Entry
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	bufferSize int
}

// NewAsyncHookWithWriters membuat async hook baru dengan banyak writer.
// bufferSize: ukuran buffer log entries (default 1000)
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000 // Default 1000 entries
	}

	hook := &AsyncHook{
		writers:    writers,
		entries:    make(chan *logrus.Entry, bufferSize),
		bufferSize: bufferSize,
	}

	// Jalankan goroutine untuk memproses log entries
	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels mengembalikan log levels yang ditangani hook ini
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire dipanggil setiap ada log entry baru.
// Fungsi ini tidak pernah blocking, hanya memasukkan entry ke channel.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		// Hook sudah ditutup, tulis langsung ke semua writer (fallback)
		var data []byte
		var err error

		if entry.Logger.Formatter != nil {
			data, err = entry.Logger.Formatter.Format(entry)
		} else {
			line, strErr := entry.String()
			if strErr != nil {
				return strErr
			}
			data = []byte(line)
		}

		if err != nil {
			return err
		}

		for _, writer := range h.writers {
			_, _ = writer.Write(data)
		}
		return nil
	}

	// Non-blocking send: bila channel penuh, entry ini dilewati
	select {
	case h.entries <- entry:
	default:
		// Channel penuh, lewati entry supaya tidak memblokir request handling
	}

	return nil
}

// processEntries memproses log entries dalam goroutine terpisah.
// Ada recover supaya goroutine logger tidak membuat server crash.
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Tidak bisa pakai logger di sini karena akan membuat loop,
					// tulis langsung ke stderr
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
					debug.PrintStack()
				}
			}()

			// Format entry menjadi bytes memakai formatter dari logger
			var data []byte
			var err error

			if entry.Logger.Formatter != nil {
				data, err = entry.Logger.Formatter.Format(entry)
			} else {
				line, strErr := entry.String()
				if strErr != nil {
					return
				}
				data = []byte(line)
			}

			if err != nil {
				return
			}

			// Tulis ke semua writer (boleh blocking di sini, tidak mengganggu
			// request handling; writer lambat tidak memblokir writer lain)
			for _, writer := range h.writers {
				_, err = writer.Write(data)
				if err != nil {
					continue
				}
			}
		}()
	}
}

// Close menutup hook dan menunggu seluruh entries selesai diproses
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}
