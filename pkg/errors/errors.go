package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodePlatform   = "PLATFORM_ERROR"
)

type BotError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *BotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

type ValidationError struct {
	*BotError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// StorageError reports a failure reading or writing the configuration snapshot.
type StorageError struct {
	*BotError
	Operation string
	Path      string
}

func NewStorageError(message, operation, path string, cause error) *StorageError {
	return &StorageError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"path":      path,
			},
			Cause: cause,
		},
		Operation: operation,
		Path:      path,
	}
}

type CacheError struct {
	*BotError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// PlatformError wraps a failed call against the chat platform
// (channel creation, permission grant, member move, deletion).
type PlatformError struct {
	*BotError
	Operation string
	NotFound  bool
}

func NewPlatformError(operation string, notFound bool, cause error) *PlatformError {
	return &PlatformError{
		BotError: &BotError{
			Message:    fmt.Sprintf("platform %s failed", operation),
			Code:       CodePlatform,
			StatusCode: 502,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
		NotFound:  notFound,
	}
}

// IsNotFound reports whether err is a PlatformError for a resource that no
// longer exists on the platform.
func IsNotFound(err error) bool {
	var platformErr *PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.NotFound
	}
	return false
}
