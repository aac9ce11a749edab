package errors

import (
	"fmt"
)

// ReelError is the structured error type for ReelRank.
// Retrieval and prediction operations never panic through the public
// contract; failure paths surface as a ReelError paired with an empty
// result, and callers render the message directly.
type ReelError struct {
	// Code is the unique error code (e.g., "ERR_407_TITLE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *ReelError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ReelError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ReelError.
func (e *ReelError) Is(target error) bool {
	if t, ok := target.(*ReelError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ReelError) WithDetail(key, value string) *ReelError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new ReelError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ReelError {
	return &ReelError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a ReelError from an existing error.
// The error's message becomes the ReelError message.
func Wrap(code string, err error) *ReelError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// NotFound creates an exact-lookup-failed error for the given title.
func NotFound(title string) *ReelError {
	return New(ErrCodeTitleNotFound, fmt.Sprintf("movie %q not found in the catalog", title), nil)
}

// EmptyInput creates a blank-required-field error.
func EmptyInput(field string) *ReelError {
	return New(ErrCodeQueryEmpty, fmt.Sprintf("%s must not be empty", field), nil)
}

// OutOfRange creates a numeric validation error.
func OutOfRange(message string) *ReelError {
	return New(ErrCodeOutOfRange, message, nil)
}

// Internal creates an unexpected-failure error carrying a diagnostic message.
func Internal(message string, cause error) *ReelError {
	return New(ErrCodeInternal, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ReelError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IsNotFound reports whether err is an exact-lookup failure.
func IsNotFound(err error) bool {
	return GetCode(err) == ErrCodeTitleNotFound
}

// IsEmptyInput reports whether err is a blank-required-field error.
func IsEmptyInput(err error) bool {
	return GetCode(err) == ErrCodeQueryEmpty
}

// GetCode extracts the error code from a ReelError.
// Returns empty string if not a ReelError.
func GetCode(err error) string {
	if re, ok := err.(*ReelError); ok {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from a ReelError.
// Returns empty string if not a ReelError.
func GetCategory(err error) Category {
	if re, ok := err.(*ReelError); ok {
		return re.Category
	}
	return ""
}
