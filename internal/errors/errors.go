// Package errors provides the structured error type used across spendlog.
// Service-layer failures are returned as *AppError so handlers can render a
// stable code and message without exposing internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target carries the same code, so wrapped copies of a
// sentinel still match it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "This user is not allowed to use the ledger", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Extraction errors.
var (
	ErrNoAmountFound    = &AppError{Code: "NO_AMOUNT_FOUND", Message: "Could not find an amount in the text. Please rephrase, e.g. \"$5.50 coffee at Starbucks\"", StatusCode: http.StatusUnprocessableEntity}
	ErrOCRFailed        = &AppError{Code: "OCR_FAILED", Message: "Could not read any text from the receipt", StatusCode: http.StatusUnprocessableEntity}
	ErrUnsupportedMedia = &AppError{Code: "UNSUPPORTED_MEDIA", Message: "Receipts must be JPEG, PNG or PDF", StatusCode: http.StatusUnsupportedMediaType}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than 0", StatusCode: http.StatusBadRequest}
	ErrKeywordRequired     = &AppError{Code: "KEYWORD_REQUIRED", Message: "At least one keyword is required", StatusCode: http.StatusUnprocessableEntity}
)

// Query errors.
var (
	ErrQueryParseFailed      = &AppError{Code: "QUERY_PARSE_FAILED", Message: "Could not understand the spending question", StatusCode: http.StatusBadGateway}
	ErrClassifierUnavailable = &AppError{Code: "CLASSIFIER_UNAVAILABLE", Message: "Spending questions need a language model, none is configured", StatusCode: http.StatusServiceUnavailable}
)
