package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation marks every rejected input: empty names, bad payload shapes, out of range fields.
var ErrValidation = errors.New("validation failed")

// Request & Input-Validation Errors
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
)

// NewValidationError carries a caller-facing message such as "Workspace name is required".
func NewValidationError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		err:        errors.New(message),
		kind:       ErrValidation,
	}
}

func NewValidationErrorWithField(message, field string) *ApiErr {
	e := NewValidationError(message)
	e.Field = field
	return e
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		err:        fmt.Errorf("Invalid %s payload", payloadType),
		kind:       ErrValidation,
		Cause:      errors.Join(ErrMalformedPayload, cause),
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		err:        fmt.Errorf("%s is required", fieldName),
		kind:       ErrValidation,
		Cause:      ErrMissingRequiredField,
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		err:        fmt.Errorf("Invalid field %s: %s", fieldName, reason),
		kind:       ErrValidation,
		Cause:      ErrInvalidField,
		Field:      fieldName,
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		err:        errors.New("Invalid JSON format"),
		kind:       ErrValidation,
		Cause:      errors.Join(ErrInvalidJSON, cause),
		Field:      "json",
	}
}

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeUnauthorized,
		err:        ErrMissingToken,
		kind:       ErrUnauthorized,
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeUnauthorized,
		err:        ErrInvalidToken,
		kind:       ErrUnauthorized,
		Cause:      cause,
		Field:      "authorization",
	}
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
