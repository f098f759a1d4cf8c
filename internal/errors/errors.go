package errors

import "fmt"

// ErrorCode represents a capstudio error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrNameAlreadyExists   ErrorCode = "NAME_ALREADY_EXISTS"  // 409
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrInvalidComposition  ErrorCode = "INVALID_COMPOSITION"  // 422
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// StudioError represents a structured error with code, status, and details.
type StudioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StudioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *StudioError {
	return &StudioError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and name; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StudioError {
	return &StudioError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a project or capsule that cannot be found.
func NewNotFound(kind, identifier string) *StudioError {
	return &StudioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNameAlreadyExists creates a 409 error for project name collisions.
func NewNameAlreadyExists(name string) *StudioError {
	return &StudioError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("project named %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *StudioError {
	return &StudioError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewInvalidComposition creates a 422 error for a composition that fails
// precondition validation.
func NewInvalidComposition(err error) *StudioError {
	return &StudioError{
		Code:    ErrInvalidComposition,
		Status:  422,
		Message: err.Error(),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StudioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StudioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StudioError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StudioError); ok {
		return sErr.Code == code
	}
	return false
}
