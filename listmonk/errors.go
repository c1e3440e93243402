package listmonk

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrConfiguration indicates a missing base URL or missing login credentials
	ErrConfiguration = errors.New("invalid listmonk configuration")
	// ErrPrecondition indicates a call made before the client was set up
	ErrPrecondition = errors.New("listmonk client not ready")
	// ErrValidation indicates invalid input to a create or delete call
	ErrValidation = errors.New("invalid listmonk request")
	// ErrTransport indicates a network failure or a non-2xx response
	ErrTransport = errors.New("listmonk transport failure")
)

// APIError represents a non-2xx response from the listmonk API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("listmonk API error: status %d: %s", e.StatusCode, e.Message)
}

// Is makes every APIError match ErrTransport.
func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

func configError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}

func preconditionError(msg string) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, msg)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
