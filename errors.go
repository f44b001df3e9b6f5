package codelai

import (
	"errors"
	"fmt"
)

// ErrEmptySource is returned when the source code is blank.
var ErrEmptySource = errors.New("source code is empty")

// ErrorKind classifies translation failures.
type ErrorKind string

const (
	// KindTransport means the service could not be reached.
	KindTransport ErrorKind = "transport"
	// KindService means the service rejected the request (auth, quota, malformed).
	KindService ErrorKind = "service"
	// KindEmptyResponse means the service answered without usable text.
	KindEmptyResponse ErrorKind = "empty_response"
)

// TranslationError is the single user-facing error for a failed translation.
// Error returns only Message; the underlying cause is available via Unwrap.
type TranslationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates an AI provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int // HTTP status reported by the service, 0 if unknown
	Message    string
	Cause      error
	Retryable  bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// InputError indicates a request the translator refuses before calling out.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// FileReadError indicates an uploaded file could not be read.
type FileReadError struct {
	Name  string
	Cause error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %q: %v", e.Name, e.Cause)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}
