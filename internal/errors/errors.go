package errors

import "fmt"

// ErrorCode represents a Memora error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrEmptyCollection  ErrorCode = "EMPTY_COLLECTION"  // 400
	ErrUnauthorized     ErrorCode = "UNAUTHORIZED"      // 401
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrModelCall        ErrorCode = "MODEL_CALL"        // 500
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED" // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// MemoraError represents a structured error with code, status, and details.
type MemoraError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *MemoraError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *MemoraError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MemoraError {
	return &MemoraError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewEmptyCollection creates a 400 error for capsule generation over an
// empty memory collection. User-correctable: the caller should create
// memories first.
func NewEmptyCollection() *MemoraError {
	return &MemoraError{
		Code:    ErrEmptyCollection,
		Status:  400,
		Message: "No memories found. Create some memories first to generate an AI capsule.",
	}
}

// NewUnauthorized creates a 401 error for missing or invalid credentials.
func NewUnauthorized(msg string) *MemoraError {
	return &MemoraError{
		Code:    ErrUnauthorized,
		Status:  401,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a memory cannot be found.
func NewNotFound(identifier string) *MemoraError {
	return &MemoraError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("memory not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewCancelled creates a 499 error for a cancelled operation.
func NewCancelled(operation string) *MemoraError {
	return &MemoraError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// NewModelCall creates a 500 error for a failed language model call.
// Also used when the model returns no usable completion: an empty
// completion must fail rather than propagate a hollow section.
func NewModelCall(err error) *MemoraError {
	msg := "failed to generate AI response"
	if err != nil {
		msg = err.Error()
	}
	return &MemoraError{
		Code:    ErrModelCall,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// NewGenerationFailed creates a 500 error wrapping the first model-call
// failure observed during capsule generation. The underlying message is
// passed through unredacted.
func NewGenerationFailed(err error) *MemoraError {
	msg := "failed to generate AI capsule"
	if mErr, ok := err.(*MemoraError); ok {
		msg = mErr.Message
	} else if err != nil {
		msg = err.Error()
	}
	return &MemoraError{
		Code:    ErrGenerationFailed,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MemoraError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MemoraError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is a MemoraError with the given code.
func Is(err error, code ErrorCode) bool {
	if mErr, ok := err.(*MemoraError); ok {
		return mErr.Code == code
	}
	return false
}
