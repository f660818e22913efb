package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so errors.Is matches
// a detailed error against its sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidStateTransition = NewDomainError("INVALID_STATE_TRANSITION", "Operation not allowed in current state")
	ErrInsufficientStock      = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrPersistenceFailure     = NewDomainError("UNEXPECTED_PERSISTENCE_FAILURE", "Unexpected persistence failure")
)

// NewNotFoundError returns a NOT_FOUND error naming the missing resource.
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrNotFound.Code, resource+" not found")
}

// NewInvalidStateTransitionError returns an INVALID_STATE_TRANSITION error with a specific message.
func NewInvalidStateTransitionError(message string) *DomainError {
	return NewDomainError(ErrInvalidStateTransition.Code, message)
}
