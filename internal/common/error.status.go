package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Berhasil
	StatusCreated   = 201 // Berhasil membuat data baru
	StatusAccepted  = 202 // Permintaan diterima
	StatusNoContent = 204 // Berhasil tanpa konten balasan

	// Client Error Codes (4xx)
	StatusBadRequest      = 400 // Permintaan tidak valid
	StatusUnauthorized    = 401 // Belum terautentikasi
	StatusForbidden       = 403 // Tidak punya hak akses
	StatusNotFound        = 404 // Data tidak ditemukan
	StatusConflict        = 409 // Konflik data
	StatusTooManyRequests = 429 // Terlalu banyak permintaan

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Kesalahan server
	StatusBadGateway          = 502 // Gateway tidak valid
	StatusServiceUnavailable  = 503 // Layanan tidak tersedia
	StatusGatewayTimeout      = 504 // Gateway timeout
)

// Response Messages
const (
	MsgSuccess = "Operasi berhasil"
	MsgCreated = "Data baru berhasil dibuat"

	MsgBadRequest         = "Permintaan tidak valid"
	MsgNotFound           = "Data tidak ditemukan"
	MsgConflict           = "Konflik data"
	MsgInternalError      = "Kesalahan sistem"
	MsgServiceUnavailable = "Layanan tidak tersedia"

	MsgValidationError = "Data tidak valid"
	MsgDatabaseError   = "Kesalahan interaksi basis data"
	MsgInvalidFormat   = "Format data tidak valid"
)

// ErrorCode mendefinisikan kode error terperinci
type ErrorCode struct {
	Code        string // Kode error (contoh: FETCH_001)
	Category    string // Kategori error (contoh: Fetch)
	SubCategory string // Sub kategori (contoh: Retry)
	Description string // Deskripsi detail
}

// Definisi kode error berdasarkan hirarki sistem
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Kesalahan sistem internal",
	}

	ErrCodeConfiguration = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "Configuration",
		Description: "Konfigurasi tidak lengkap atau tidak valid",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Kesalahan validasi data umum",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Kesalahan data masukan",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Kesalahan format data",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Kesalahan basis data umum",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Kesalahan koneksi basis data",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Kesalahan query data",
	}

	// Fetch Errors (FETCH_xxx) — pengambilan data dari platform media sosial
	ErrCodeFetch = ErrorCode{
		Code:        "FETCH",
		Category:    "Fetch",
		SubCategory: "General",
		Description: "Kesalahan pengambilan data engagement",
	}

	ErrCodeFetchRetryExhausted = ErrorCode{
		Code:        "FETCH_001",
		Category:    "Fetch",
		SubCategory: "Retry",
		Description: "Percobaan ulang pengambilan data sudah habis",
	}

	ErrCodeFetchTerminal = ErrorCode{
		Code:        "FETCH_002",
		Category:    "Fetch",
		SubCategory: "Terminal",
		Description: "Kesalahan permanen dari platform (tidak di-retry)",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusiness = ErrorCode{
		Code:        "BIZ",
		Category:    "Business",
		SubCategory: "General",
		Description: "Kesalahan logika bisnis umum",
	}

	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Kesalahan status bisnis",
	}
)

// Error mendefinisikan struktur error terperinci
type Error struct {
	Code       ErrorCode // Kode error terperinci
	Message    string    // Pesan error
	StatusCode int       // HTTP status code
	Details    any       // Informasi tambahan tentang error
}

// Error mengembalikan message dari error
func (e *Error) Error() string {
	return e.Message
}

// Unwrap mengembalikan error penyebab bila Details berisi error (mendukung errors.Is/As)
func (e *Error) Unwrap() error {
	if cause, ok := e.Details.(error); ok {
		return cause
	}
	return nil
}

// Is membandingkan error berdasarkan kode dan pesan (mendukung errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return false
}

// NewError membuat error baru dengan informasi lengkap
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Data masukan tidak valid", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Format data tidak valid", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Data wajib tidak lengkap", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound           = NewError(ErrCodeDatabaseQuery, "Data tidak ditemukan", StatusNotFound, nil)
	ErrDuplicate          = NewError(ErrCodeDatabaseQuery, "Data sudah ada", StatusConflict, nil)
	ErrConstraint         = NewError(ErrCodeDatabaseQuery, "Pelanggaran constraint data", StatusBadRequest, nil)
	ErrStorageUnavailable = NewError(ErrCodeDatabaseConnection, "Penyimpanan tidak dapat diakses", StatusServiceUnavailable, nil)

	// Fetch Errors
	ErrFetchFailed = NewError(ErrCodeFetchRetryExhausted, "Pengambilan data engagement gagal setelah retry habis", StatusBadGateway, nil)

	// System Errors
	ErrConfiguration = NewError(ErrCodeConfiguration, "Konfigurasi aplikasi tidak lengkap", StatusInternalServerError, nil)

	// Business Logic Errors
	ErrInvalidState = NewError(ErrCodeBusinessState, "Status tidak valid", StatusBadRequest, nil)
)

// NewFetchFailedError membungkus penyebab terakhir dari retry yang sudah habis.
// Caller batch TIDAK boleh crash karena error ini; konten terkait dihitung kosong.
func NewFetchFailedError(contentID string, cause error) error {
	return &Error{
		Code:       ErrCodeFetchRetryExhausted,
		Message:    "Pengambilan data engagement gagal setelah retry habis",
		StatusCode: StatusBadGateway,
		Details:    cause,
	}
}

// NewStorageUnavailableError membungkus error penyimpanan yang menghentikan run
// agregasi satuan saat ini (satuan lain tidak terpengaruh).
func NewStorageUnavailableError(cause error) error {
	return &Error{
		Code:       ErrCodeDatabaseConnection,
		Message:    "Penyimpanan tidak dapat diakses",
		StatusCode: StatusServiceUnavailable,
		Details:    cause,
	}
}

// IsFetchFailed memeriksa apakah err adalah kegagalan fetch yang sudah kehabisan retry.
func IsFetchFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Code == ErrCodeFetchRetryExhausted.Code
}

// IsStorageUnavailable memeriksa apakah err adalah kegagalan penyimpanan.
func IsStorageUnavailable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Code == ErrCodeDatabaseConnection.Code
}

// ConvertMongoError mengubah error MongoDB menjadi error sistem
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// ErrNotFound tidak boleh dikonversi ulang
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Periksa jenis error MongoDB yang spesifik
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) {
		return NewStorageUnavailableError(err)
	}
	if mongo.IsTimeout(err) {
		return NewStorageUnavailableError(err)
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return NewStorageUnavailableError(err)
		case mongoErr.Code >= 10000:
			return NewStorageUnavailableError(err)
		}
	}

	// Error lain dianggap kesalahan query umum
	return NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err)
}
