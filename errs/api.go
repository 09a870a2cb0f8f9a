package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Envelope codes returned in the `code` field of every REST response
const (
	CodeSuccess            = 2000
	CodeWorkspaceConflict  = 3001
	CodeWorkspaceLimit     = 3002
	CodeWorkspaceNotFound  = 3004
	CodeProjectConflict    = 3101
	CodeProjectNotFound    = 3104
	CodeValidation         = 4000
	CodeUnauthorized       = 4001
	CodeForbidden          = 4003
	CodeRouteNotFound      = 4004
	CodeMethodNotAllowed   = 4005
	CodeInternal           = 5000
	CodeServiceUnavailable = 5003
)

// Common error sentinel values
var (
	ErrForbidden    = errors.New("operation not allowed")
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
	ErrCORSBlocked  = errors.New("request blocked by CORS policy")
)

type ApiErr struct {
	StatusCode int
	Code       int // envelope code, see Code* constants
	err        error
	kind       error  // sentinel matched by errors.Is, kept out of the message
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the short, caller-facing text without details.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

func (e *ApiErr) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// As extracts the *ApiErr from err, wrapping anything else as an internal error.
func As(err error) *ApiErr {
	if err == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalErrorWithCause("internal server error", err)
}

// Common error constructors with appropriate HTTP status codes
func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Code: CodeValidation, err: errors.New(message), kind: ErrBadRequest}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, Code: CodeInternal, err: errors.New(message), kind: ErrInternal}
}

func NewRouteNotFoundError(path string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, Code: CodeRouteNotFound, err: fmt.Errorf("route %s not found", path)}
}

func NewMethodNotAllowedError(method string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusMethodNotAllowed, Code: CodeMethodNotAllowed, err: fmt.Errorf("method %s not allowed", method)}
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		err:        errors.New(message),
		kind:       ErrInternal,
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		Code:       CodeForbidden,
		err:        ErrCORSBlocked,
		kind:       ErrForbidden,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}
