package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Record store failures. Every store operation returns one of these wrapped in an ApiErr.
var (
	ErrNotFound           = errors.New("not found")
	ErrConstraint         = errors.New("unique constraint violation")
	ErrLimitReached       = errors.New("limit reached")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrMigrationMismatch  = errors.New("migration mismatch")
	ErrTransactionFailed  = errors.New("transaction failed")
)

// Entities known to the store, used to pick envelope codes and messages.
const (
	EntityWorkspace = "workspace"
	EntityProject   = "project"
)

type entityCodes struct {
	notFound int
	conflict int
}

var codesByEntity = map[string]entityCodes{
	EntityWorkspace: {notFound: CodeWorkspaceNotFound, conflict: CodeWorkspaceConflict},
	EntityProject:   {notFound: CodeProjectNotFound, conflict: CodeProjectConflict},
}

func codesFor(entity string) entityCodes {
	if c, ok := codesByEntity[entity]; ok {
		return c
	}
	return entityCodes{notFound: CodeRouteNotFound, conflict: CodeValidation}
}

func title(entity string) string {
	if entity == "" {
		return entity
	}
	return strings.ToUpper(entity[:1]) + entity[1:]
}

// NewNotFound reports a missing record, e.g. "Workspace not found".
func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		Code:       codesFor(entity).notFound,
		err:        fmt.Errorf("%s %w", title(entity), ErrNotFound),
	}
}

// NewConstraintError reports a unique index violation on insert.
func NewConstraintError(entity, field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Code:       codesFor(entity).conflict,
		err:        fmt.Errorf("%s %w", title(entity), ErrConstraint),
		Details:    fmt.Sprintf("duplicate value for %s", field),
		Field:      field,
		Cause:      cause,
	}
}

// NewNameConflictError reports a name already taken, e.g. "Workspace name 'Alpha' already exists".
func NewNameConflictError(entity, name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Code:       codesFor(entity).conflict,
		err:        fmt.Errorf("%s name '%s' already exists", title(entity), name),
		kind:       ErrConstraint,
		Field:      "name",
	}
}

// NewLimitReachedError is the admission-control rejection, e.g. "Workspace limit reached (5)".
func NewLimitReachedError(entity string, limit int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Code:       CodeWorkspaceLimit,
		err:        fmt.Errorf("%s %w (%d)", title(entity), ErrLimitReached, limit),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	// Check for common database errors and provide more specific messages
	if cause != nil {
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "UNIQUE constraint failed"),
			strings.Contains(errStr, "duplicate key"),
			strings.Contains(errStr, "duplicated key"):
			return NewConstraintError(entity, uniqueField(entity), cause)
		case strings.Contains(errStr, "record not found"):
			return NewNotFound(entity)
		case strings.Contains(errStr, "database is locked"),
			strings.Contains(errStr, "connection refused"),
			strings.Contains(errStr, "sql: database is closed"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				Code:       CodeServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to reach database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func uniqueField(entity string) string {
	switch entity {
	case EntityWorkspace:
		return "workspace_uuid"
	case EntityProject:
		return "project_uuid"
	}
	return "id"
}

func NewMigrationMismatchError(expected, actual string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		err:        ErrMigrationMismatch,
		Details:    fmt.Sprintf("Migration mismatch: expected %s, got %s", expected, actual),
		Field:      "migration",
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
		Field:      "transaction",
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConstraint(err error) bool {
	return errors.Is(err, ErrConstraint)
}

func IsLimitReached(err error) bool {
	return errors.Is(err, ErrLimitReached)
}

func IsMigrationMismatchError(err error) bool {
	return errors.Is(err, ErrMigrationMismatch)
}

func IsTransactionFailedError(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}
