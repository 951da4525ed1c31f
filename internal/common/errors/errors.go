package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies an application error.
type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeExpired      ErrorCode = "EXPIRED"
	ErrCodeLimitReached ErrorCode = "LIMIT_REACHED"
	ErrCodeStorage      ErrorCode = "STORAGE_ERROR"
	ErrCodeDelivery     ErrorCode = "DELIVERY_ERROR"
)

// AppError is the typed error returned by services. Validation, not-found,
// expired and limit errors are user-facing; storage and delivery errors wrap
// an underlying cause.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value pair for operator-facing diagnostics.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a cause to a new application error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for %q: %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewNotFoundError creates a "resource not found" error.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewExpiredError creates an error for operations against a closed giveaway.
func NewExpiredError(giveawayID int64) *AppError {
	return New(ErrCodeExpired, fmt.Sprintf("giveaway %d is already closed", giveawayID)).
		WithDetail("giveaway_id", giveawayID)
}

// NewLimitReachedError creates an error for manual selection past the quota.
func NewLimitReachedError(giveawayID int64, limit int) *AppError {
	return New(ErrCodeLimitReached, fmt.Sprintf("winner limit of %d reached", limit)).
		WithDetail("giveaway_id", giveawayID).
		WithDetail("limit", limit)
}

// NewStorageError wraps a store failure.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewDeliveryError wraps an announcement delivery failure. Delivery errors are
// logged and never roll back a committed winner selection.
func NewDeliveryError(channelID int64, err error) *AppError {
	return Wrap(err, ErrCodeDelivery, fmt.Sprintf("delivery to channel %d failed", channelID)).
		WithDetail("channel_id", channelID)
}

func codeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeValidation
}

// IsExpired reports whether err is an expired-giveaway error.
func IsExpired(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeExpired
}

// IsLimitReached reports whether err is a winner-limit error.
func IsLimitReached(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeLimitReached
}

// IsStorage reports whether err is a storage error.
func IsStorage(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeStorage
}

// IsDelivery reports whether err is a delivery error.
func IsDelivery(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrCodeDelivery
}

// AsAppError extracts an AppError from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil && stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
