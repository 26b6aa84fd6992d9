// Package errors defines the closed set of application error values for the
// identity subsystem. Call sites match on these values with errors.Is instead
// of inspecting error strings.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Is matches application errors by business error code, so copies produced
// by WithDetails still compare equal to their base value under errors.Is.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if errors.As(target, &other) {
		return e.errorCode == other.errorCode
	}

	return false
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Protocol errors: expected adversarial or retry conditions during the
	// authorization-code callback. The login attempt aborts cleanly and the
	// user restarts the flow from scratch.
	ErrStateMismatch = NewBaseError(
		http.StatusBadRequest,
		"STATE_MISMATCH",
		"Sesi login tidak valid, silakan masuk kembali",
		"",
	)

	ErrMissingVerifier = NewBaseError(
		http.StatusBadRequest,
		"MISSING_VERIFIER",
		"Sesi login sudah kedaluwarsa, silakan masuk kembali",
		"",
	)

	ErrProviderDenied = NewBaseError(
		http.StatusBadRequest,
		"PROVIDER_DENIED",
		"Login INAPAS dibatalkan atau ditolak",
		"",
	)

	// Configuration errors: fatal at the point of use, never retried.
	ErrKeyImport = NewBaseError(
		http.StatusInternalServerError,
		"KEY_IMPORT_FAILED",
		"Konfigurasi kunci tidak valid",
		"",
	)

	ErrSigningFailed = NewBaseError(
		http.StatusInternalServerError,
		"SIGNING_FAILED",
		"Gagal menandatangani permintaan",
		"",
	)

	// Exchange errors: non-2xx from the provider token endpoint. Details
	// carry the provider's error_description when present.
	ErrTokenExchange = NewBaseError(
		http.StatusBadGateway,
		"TOKEN_EXCHANGE_FAILED",
		"Gagal menukar kode otorisasi",
		"",
	)

	// Decryption errors are integrity failures. Raw crypto internals are
	// logged server-side only, never echoed to the client.
	ErrMissingEncryptedPayload = NewBaseError(
		http.StatusBadGateway,
		"MISSING_ENCRYPTED_PAYLOAD",
		"ID token tidak berisi data terenkripsi",
		"",
	)

	ErrDecryptionFailed = NewBaseError(
		http.StatusBadGateway,
		"DECRYPTION_FAILED",
		"Gagal mendekripsi data identitas",
		"",
	)

	// Session / profile errors.
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"Pengguna tidak ditemukan",
		"",
	)

	ErrNoTokens = NewBaseError(
		http.StatusUnauthorized,
		"NO_TOKENS",
		"Tidak ada token tersimpan, silakan masuk kembali",
		"",
	)

	ErrMintingFailed = NewBaseError(
		http.StatusInternalServerError,
		"MINTING_FAILED",
		"Gagal membuat token sesi",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Data permintaan tidak valid",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Terjadi kesalahan pada sistem",
		"",
	)
)
