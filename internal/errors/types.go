// Package errors defines the structured error type shared by the preset
// store, the session, the lint engine and the transports.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeSecurity     ErrorType = "security"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeIO           ErrorType = "io"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInvalidPresetID    = "ERR_INVALID_PRESET_ID"
	ErrCodePathTraversal      = "ERR_PATH_TRAVERSAL"
	ErrCodePresetNotFound     = "ERR_PRESET_NOT_FOUND"
	ErrCodeManifestInvalid    = "ERR_MANIFEST_INVALID"
	ErrCodeTokensInvalid      = "ERR_TOKENS_INVALID"
	ErrCodeTemplateInvalid    = "ERR_TEMPLATE_INVALID"
	ErrCodeInheritanceCycle   = "ERR_INHERITANCE_CYCLE"
	ErrCodeNoActivePreset     = "ERR_NO_ACTIVE_PRESET"
	ErrCodePresetExists       = "ERR_PRESET_EXISTS"
	ErrCodeTemplateNotFound   = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeVariantNotFound    = "ERR_VARIANT_NOT_FOUND"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
	ErrCodeInternalError      = "ERR_INTERNAL"
	ErrCodePermissionDenied   = "ERR_PERMISSION_DENIED"
	ErrCodeFileNotFound       = "ERR_FILE_NOT_FOUND"
	ErrCodeUnsupportedFormat  = "ERR_UNSUPPORTED_FORMAT"
	ErrCodeRateLimitExceeded  = "ERR_RATE_LIMIT_EXCEEDED"
	ErrCodeTokenShapeMismatch = "ERR_TOKEN_SHAPE_MISMATCH"
)

// AppError is a structured error type with context.
type AppError struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
	PresetID  string
	FilePath  string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.PresetID != "" {
		parts = append(parts, "preset:"+e.PresetID)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component

	return e
}

// WithPreset records the preset id the error concerns.
func (e *AppError) WithPreset(id string) *AppError {
	e.PresetID = id

	return e
}

// WithFile records the file the error concerns.
func (e *AppError) WithFile(path string) *AppError {
	e.FilePath = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *AppError {
	return &AppError{Type: ErrorTypeSecurity, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewPreconditionError creates an error for a violated operation precondition.
func NewPreconditionError(code, message string) *AppError {
	return &AppError{Type: ErrorTypePrecondition, Code: code, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(code, message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *AppError {
	return &AppError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}

	return ErrorTypeInternal
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var ae *AppError
	for err != nil {
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}

	return false
}

// Describe renders err for clients. Wrapping context around an AppError is
// kept; the AppError itself contributes its message and cause but not its
// code or file path.
func Describe(err error) string {
	var ae *AppError
	if !errors.As(err, &ae) {
		return err.Error()
	}

	text := ae.Message
	if ae.Cause != nil {
		text += ": " + Describe(ae.Cause)
	}

	full := err.Error()
	if inner := ae.Error(); strings.HasSuffix(full, inner) {
		return strings.TrimSuffix(full, inner) + text
	}

	return text
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsSecurityError checks if an error is security-related.
func IsSecurityError(err error) bool {
	return TypeOf(err) == ErrorTypeSecurity
}

// HTTPStatus maps an error to the status code the REST layer answers with.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation, ErrorTypeSecurity, ErrorTypePrecondition:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Helper functions for common errors

// ErrInvalidPresetID creates an invalid preset id error.
func ErrInvalidPresetID(id string) *AppError {
	return NewValidationError(ErrCodeInvalidPresetID, fmt.Sprintf("invalid preset id %q", id))
}

// ErrPathTraversal creates a path traversal security error.
func ErrPathTraversal(id string) *AppError {
	return NewSecurityError(
		ErrCodePathTraversal,
		fmt.Sprintf("preset id %q resolves outside the presets root", id),
	).WithPreset(id)
}

// ErrPresetNotFound creates a preset not found error.
func ErrPresetNotFound(id string) *AppError {
	return NewNotFoundError(ErrCodePresetNotFound, fmt.Sprintf("preset '%s' not found", id)).
		WithPreset(id)
}

// ErrNoActivePreset creates the uniform error for operations that need a loaded preset.
func ErrNoActivePreset(operation string) *AppError {
	return NewPreconditionError(
		ErrCodeNoActivePreset,
		fmt.Sprintf("%s: no active preset, run load_preset first", operation),
	).WithContext("operation", operation)
}

// ErrInvalidInput creates an input validation error.
func ErrInvalidInput(message string) *AppError {
	return NewValidationError(ErrCodeInvalidInput, message)
}

// ErrFileInvalid creates the error for a malformed persisted preset file. The
// category is one of manifest, tokens, component or layout.
func ErrFileInvalid(code, presetID, category, path string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeValidation,
		Code:     code,
		Message:  fmt.Sprintf("invalid %s file for preset '%s'", category, presetID),
		Cause:    cause,
		PresetID: presetID,
		FilePath: path,
		Context:  map[string]interface{}{"category": category},
	}
}
