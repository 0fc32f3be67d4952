package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the HTTP boundary
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindForbidden        ErrorKind = "forbidden"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindRateLimited      ErrorKind = "rate_limited"
	KindStoreUnavailable ErrorKind = "store_unavailable"
)

// Error codes
const (
	ErrCodeValidation       = "VAL001"
	ErrCodeUnknownTarget    = "VAL002"
	ErrCodeUnauthorized     = "AUTH001"
	ErrCodeForbidden        = "AUTH002"
	ErrCodeNotFound         = "RES001"
	ErrCodeConflict         = "CON001"
	ErrCodeRateLimited      = "RATE001"
	ErrCodeStoreUnavailable = "SYS002"
)

// Sentinels, matched with errors.Is through AppError.Unwrap
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("concurrent write conflict")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AppError is the coded error every domain returns across the service boundary
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may repeat the request as-is
func (e *AppError) Retryable() bool {
	return e.Kind == KindConflict
}

// =====================================================
// CONSTRUCTORS
// =====================================================

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Code: ErrCodeValidation, Message: message, Err: ErrValidation}
}

// NewUnknownTargetError is returned when an action references a book or comment that does not exist
func NewUnknownTargetError(target string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrCodeUnknownTarget,
		Message: fmt.Sprintf("%s does not exist", target),
		Err:     ErrValidation,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: ErrCodeUnauthorized, Message: message, Err: ErrUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: ErrCodeForbidden, Message: message, Err: ErrForbidden}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     ErrNotFound,
	}
}

func NewConflictError(err error) *AppError {
	if err == nil {
		err = ErrConflict
	} else if !errors.Is(err, ErrConflict) {
		err = fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return &AppError{
		Kind:    KindConflict,
		Code:    ErrCodeConflict,
		Message: "Concurrent update, please retry",
		Err:     err,
	}
}

func NewRateLimitedError() *AppError {
	return &AppError{
		Kind:    KindRateLimited,
		Code:    ErrCodeRateLimited,
		Message: "Too many requests, slow down",
		Err:     ErrRateLimited,
	}
}

func NewStoreUnavailableError(err error) *AppError {
	if err == nil {
		err = ErrStoreUnavailable
	} else if !errors.Is(err, ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &AppError{
		Kind:    KindStoreUnavailable,
		Code:    ErrCodeStoreUnavailable,
		Message: "Storage is temporarily unavailable",
		Err:     err,
	}
}

// AsAppError extracts the AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
