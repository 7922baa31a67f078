package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeModelUnavailable   = "MODEL_UNAVAILABLE"
	ErrCodeIngest             = "INGEST_ERROR"
	ErrCodeCollectionNotFound = "COLLECTION_NOT_FOUND"
	ErrCodeGeneration         = "GENERATION_ERROR"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Configuration errors
var (
	ErrInvalidChunkSize     = NewDomainError(ErrCodeInvalidConfig, "chunk size must be a positive integer")
	ErrInvalidChunkOverlap  = NewDomainError(ErrCodeInvalidConfig, "chunk overlap must not be negative")
	ErrChunkOverlapTooLarge = NewDomainError(ErrCodeInvalidConfig, "chunk overlap must be smaller than chunk size")
)

// Validation errors
var (
	ErrEmptyQuery        = NewDomainError(ErrCodeValidation, "query must not be empty")
	ErrMissingCollection = NewDomainError(ErrCodeValidation, "collection name is required")
	ErrDimensionMismatch = NewDomainError(ErrCodeValidation, "embedding dimension does not match collection")
)

// Not found errors
var (
	ErrCollectionNotFound = NewDomainError(ErrCodeCollectionNotFound, "collection not found")
)

// Model errors
var (
	ErrModelUnavailable = NewDomainError(ErrCodeModelUnavailable, "embedding model is unavailable")
	ErrNoGenerator      = NewDomainError(ErrCodeGeneration, "generative model is not configured")
)
