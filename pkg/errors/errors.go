// Package errors provides categorized, stack-traced errors for the
// consolidation service. Every hard error carries a category and code so
// the CLI can derive exit codes, plus optional context and a suggestion
// shown to the operator.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryConsolidation ErrorCategory = "consolidation"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeMalformedExtract ErrorCode = "malformed_extract"
	CodeMissingField     ErrorCode = "missing_field"
	CodeDuplicateKey     ErrorCode = "duplicate_key"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"

	// Consolidation errors
	CodeTypeMismatch    ErrorCode = "statement_type_mismatch"
	CodeProcessingError ErrorCode = "processing_error"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// Context provides additional information about the error
type Context map[string]interface{}

// ConsolidatorError is the base error type for all application errors
type ConsolidatorError struct {
	Category   ErrorCategory `json:"category"`
	Code       ErrorCode     `json:"code"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
	Context    Context       `json:"context,omitempty"`
	Cause      error         `json:"-"`
}

// Error implements the error interface
func (e *ConsolidatorError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ConsolidatorError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error
func (e *ConsolidatorError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryConsolidation, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *ConsolidatorError) WithContext(key string, value interface{}) *ConsolidatorError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ConsolidatorError) WithSuggestion(suggestion string) *ConsolidatorError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ConsolidatorError
func New(category ErrorCategory, code ErrorCode, message string) *ConsolidatorError {
	return &ConsolidatorError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    errors.New(message),
	}
}

// Wrap wraps an existing error with ConsolidatorError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *ConsolidatorError {
	if err == nil {
		return nil
	}
	return &ConsolidatorError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    errors.WithStack(err),
	}
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *ConsolidatorError {
	e := Wrap(err, CategoryFile, code, fmt.Sprintf("file error: %s", path))
	if e == nil {
		e = New(CategoryFile, code, fmt.Sprintf("file error: %s", path))
	}
	return e.WithContext("path", path)
}

// ParseError creates a parse-related error
func ParseError(code ErrorCode, source string, err error) *ConsolidatorError {
	e := Wrap(err, CategoryParse, code, fmt.Sprintf("failed to parse %s", source))
	if e == nil {
		e = New(CategoryParse, code, fmt.Sprintf("failed to parse %s", source))
	}
	return e.WithContext("source", source)
}

// ValidationError creates a validation error for malformed inputs
func ValidationError(code ErrorCode, message string, err error) *ConsolidatorError {
	if err != nil {
		return Wrap(err, CategoryValidation, code, message)
	}
	return New(CategoryValidation, code, message)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *ConsolidatorError {
	if err != nil {
		return Wrap(err, CategoryConfiguration, CodeInvalidConfig, message)
	}
	return New(CategoryConfiguration, CodeInvalidConfig, message)
}

// ConsolidationError creates an error in the consolidation process itself
func ConsolidationError(code ErrorCode, message string, err error) *ConsolidatorError {
	if err != nil {
		return Wrap(err, CategoryConsolidation, code, message)
	}
	return New(CategoryConsolidation, code, message)
}

// InternalError creates an internal error
func InternalError(message string, err error) *ConsolidatorError {
	if err != nil {
		return Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	}
	return New(CategoryInternal, CodeUnexpectedError, message)
}

// AsConsolidatorError extracts a ConsolidatorError from any error chain
func AsConsolidatorError(err error) (*ConsolidatorError, bool) {
	var ce *ConsolidatorError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// GetExitCode extracts an exit code from any error
func GetExitCode(err error) int {
	var ce *ConsolidatorError
	if errors.As(err, &ce) {
		return ce.GetExitCode()
	}
	if err != nil {
		return 1
	}
	return 0
}

// IsCategory reports whether the error belongs to the given category
func IsCategory(err error, category ErrorCategory) bool {
	var ce *ConsolidatorError
	if errors.As(err, &ce) {
		return ce.Category == category
	}
	return false
}
