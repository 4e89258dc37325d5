package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrTokenInvalid is returned for any bearer token that cannot be trusted:
// malformed, badly signed or expired tokens all map to this one error.
var ErrTokenInvalid = errors.New("token invalid")

// ErrIdentityVerification indicates that an external identity assertion was rejected.
var ErrIdentityVerification = errors.New("identity verification failed")

// Kind is the externally visible error category sent to API callers.
type Kind string

const (
	KindMissingFields              Kind = "MissingFields"
	KindMissingAssertion           Kind = "MissingAssertion"
	KindInvalidInput               Kind = "InvalidInput"
	KindAccountExists              Kind = "AccountExists"
	KindInvalidCredentials         Kind = "InvalidCredentials"
	KindIdentityVerificationFailed Kind = "IdentityVerificationFailed"
	KindUnauthenticated            Kind = "Unauthenticated"
	KindAccountNotFound            Kind = "AccountNotFound"
	KindTooManyRequests            Kind = "TooManyRequests"
	KindInternal                   Kind = "InternalError"
)

// AppError carries an HTTP status and a taxonomy kind alongside the message shown to callers.
// Err is the underlying cause; it is logged but never serialized.
type AppError struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"error"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status and kind.
func NewAppError(code int, kind Kind, message string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

func NewMissingFieldsError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindMissingFields, message, nil)
}

func NewMissingAssertionError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindMissingAssertion, message, nil)
}

func NewInvalidInputError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidInput, message, err)
}

// NewAccountExistsError is reported with 400, matching what browser clients already expect.
func NewAccountExistsError(err error) *AppError {
	return NewAppError(http.StatusBadRequest, KindAccountExists, "An account with this email already exists", err)
}

// NewInvalidCredentialsError never says which check failed.
func NewInvalidCredentialsError() *AppError {
	return NewAppError(http.StatusBadRequest, KindInvalidCredentials, "Invalid email or password", nil)
}

func NewIdentityVerificationError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindIdentityVerificationFailed, "Could not verify the external identity", err)
}

func NewUnauthenticatedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, KindUnauthenticated, message, nil)
}

func NewAccountNotFoundError(err error) *AppError {
	return NewAppError(http.StatusNotFound, KindAccountNotFound, "Account not found", err)
}

func NewTooManyRequestsError() *AppError {
	return NewAppError(http.StatusTooManyRequests, KindTooManyRequests, "Too many requests. Please try again later.", nil)
}

func NewInternalServerError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInternal, "Internal server error", err)
}

// AsAppError returns err as an *AppError, wrapping unknown errors as InternalError.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalServerError(err)
}
