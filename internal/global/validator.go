package global

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// handleRegex: username platform media sosial, opsional diawali "@".
// Huruf, angka, titik, dan underscore; panjang 1-64 setelah "@" dibuang.
var handleRegex = regexp.MustCompile(`^@?[A-Za-z0-9._]{1,64}$`)

// InitValidator menginisialisasi dan mendaftarkan custom validator
func InitValidator() {
	Validate = validator.New()

	// Daftarkan custom validator
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("sosmed_handle", validateSosmedHandle)
	_ = Validate.RegisterValidation("unit_code", validateUnitCode)
}

// validateNoXSS memeriksa XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateSosmedHandle memeriksa format username platform media sosial
func validateSosmedHandle(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Kosong = opsional (pakai required bila wajib)
	}
	return handleRegex.MatchString(value)
}

// validateUnitCode memeriksa kode satuan: huruf/angka/underscore/strip, tanpa spasi
func validateUnitCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
