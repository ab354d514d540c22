// Package errors provides centralized error definitions and error handling utilities
// for pcbuild. It defines sentinel errors, domain error types with context,
// semantic error types, and classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - SequenceError: invalid sequencer construction or navigation (OutOfRange, EmptySequence)
//   - ActionError: a step's action reported a failure
//   - AssetError: a scene descriptor could not be found or loaded
//   - GuideError: a guide file is missing or malformed
//   - SessionError: persisted walkthrough sessions
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewSequenceError("jump target out of range", errors.ErrOutOfRange).
//		WithIndex(7).WithLength(5)
//
//	if errors.Is(err, errors.ErrOutOfRange) { ... }
//
//	var actionErr *errors.ActionError
//	if errors.As(err, &actionErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Sequencer sentinel errors
var (
	// ErrEmptySequence indicates a sequencer was constructed with no steps.
	ErrEmptySequence = New("step sequence is empty")
	// ErrOutOfRange indicates a jump target outside [0, N).
	ErrOutOfRange = New("step index out of range")
	// ErrInvalidFloor indicates a retreat floor outside [0, N).
	ErrInvalidFloor = New("retreat floor out of range")
	// ErrNavigationLoop indicates actions re-entered navigation too deeply.
	ErrNavigationLoop = New("navigation nested too deeply")
	// ErrActionFailed indicates a step's action reported a failure.
	ErrActionFailed = New("step action failed")
)

// Asset sentinel errors
var (
	// ErrAssetNotFound indicates a scene descriptor does not exist.
	ErrAssetNotFound = New("asset not found")
	// ErrAssetLoadFailed indicates a scene descriptor exists but could not be loaded.
	ErrAssetLoadFailed = New("asset load failed")
	// ErrTriggerNotFound indicates a scene has no notification with the requested name.
	ErrTriggerNotFound = New("notification trigger not found")
)

// Guide sentinel errors
var (
	// ErrGuideNotFound indicates no guide with the requested name exists.
	ErrGuideNotFound = New("guide not found")
	// ErrGuideInvalid indicates a guide failed validation.
	ErrGuideInvalid = New("guide is invalid")
	// ErrGuideChanged indicates a saved session was recorded against a different guide revision.
	ErrGuideChanged = New("guide changed since session was saved")
)

// General sentinel errors
var (
	// ErrSessionNotFound indicates that a session could not be found.
	ErrSessionNotFound = New("session not found")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrControlDisabled indicates a navigation control is currently disabled.
	ErrControlDisabled = New("control is disabled")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PCBuildError is the base interface for all pcbuild errors.
type PCBuildError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the operation may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func newBase(message string, cause error) baseError {
	return baseError{
		message:    message,
		cause:      cause,
		severity:   SeverityError,
		userFacing: true,
	}
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<kind> [k=v, ...]: message[: cause]".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SequenceError represents invalid construction or navigation of a step sequence.
//
// Example:
//
//	err := errors.NewSequenceError("jump target out of range", errors.ErrOutOfRange).WithIndex(9).WithLength(6)
//	fmt.Println(err) // "sequence error [index=9, length=6]: jump target out of range: step index out of range"
type SequenceError struct {
	baseError
	Index  int // -1 when not set
	Length int // -1 when not set
}

// NewSequenceError creates a new SequenceError.
func NewSequenceError(message string, cause error) *SequenceError {
	return &SequenceError{
		baseError: newBase(message, cause),
		Index:     -1,
		Length:    -1,
	}
}

// WithIndex records the offending index.
func (e *SequenceError) WithIndex(i int) *SequenceError {
	e.Index = i
	return e
}

// WithLength records the sequence length.
func (e *SequenceError) WithLength(n int) *SequenceError {
	e.Length = n
	return e
}

// Error returns the formatted error message.
func (e *SequenceError) Error() string {
	var parts []string
	if e.Index >= 0 {
		parts = append(parts, fmt.Sprintf("index=%d", e.Index))
	}
	if e.Length >= 0 {
		parts = append(parts, fmt.Sprintf("length=%d", e.Length))
	}
	return e.format("sequence error", parts)
}

// Is checks if this error matches the target.
func (e *SequenceError) Is(target error) bool {
	if _, ok := target.(*SequenceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ActionError reports that the action bound to a step failed. The navigation
// that triggered the action has already taken effect.
type ActionError struct {
	baseError
	StepIndex int
	StepID    string
}

// NewActionError creates a new ActionError wrapping the action's error.
func NewActionError(stepIndex int, stepID string, cause error) *ActionError {
	return &ActionError{
		baseError: newBase("step action failed", cause),
		StepIndex: stepIndex,
		StepID:    stepID,
	}
}

// WithSeverity sets the error severity.
func (e *ActionError) WithSeverity(s Severity) *ActionError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *ActionError) Error() string {
	parts := []string{fmt.Sprintf("step=%d", e.StepIndex)}
	if e.StepID != "" {
		parts = append(parts, fmt.Sprintf("id=%s", e.StepID))
	}
	return e.format("action error", parts)
}

// Is checks if this error matches the target.
func (e *ActionError) Is(target error) bool {
	if _, ok := target.(*ActionError); ok {
		return true
	}
	if target == ErrActionFailed {
		return true
	}
	return e.baseError.Is(target)
}

// AssetError represents a scene descriptor that could not be resolved or loaded.
//
// Example:
//
//	err := errors.NewAssetError("loading scene", errors.ErrAssetNotFound).WithScene("ram-1")
type AssetError struct {
	baseError
	Scene string
	Path  string
}

// NewAssetError creates a new AssetError.
func NewAssetError(message string, cause error) *AssetError {
	return &AssetError{baseError: newBase(message, cause)}
}

// WithScene adds the scene name to the error context.
func (e *AssetError) WithScene(name string) *AssetError {
	e.Scene = name
	return e
}

// WithPath adds the descriptor path to the error context.
func (e *AssetError) WithPath(path string) *AssetError {
	e.Path = path
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *AssetError) WithRetryable(r bool) *AssetError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *AssetError) Error() string {
	var parts []string
	if e.Scene != "" {
		parts = append(parts, fmt.Sprintf("scene=%s", e.Scene))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return e.format("asset error", parts)
}

// Is checks if this error matches the target.
func (e *AssetError) Is(target error) bool {
	if _, ok := target.(*AssetError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// GuideError represents a guide that is missing or fails validation.
type GuideError struct {
	baseError
	Guide  string
	StepID string
}

// NewGuideError creates a new GuideError.
func NewGuideError(message string, cause error) *GuideError {
	return &GuideError{baseError: newBase(message, cause)}
}

// WithGuide adds the guide name to the error context.
func (e *GuideError) WithGuide(name string) *GuideError {
	e.Guide = name
	return e
}

// WithStep adds the offending step id to the error context.
func (e *GuideError) WithStep(id string) *GuideError {
	e.StepID = id
	return e
}

// Error returns the formatted error message.
func (e *GuideError) Error() string {
	var parts []string
	if e.Guide != "" {
		parts = append(parts, fmt.Sprintf("guide=%s", e.Guide))
	}
	if e.StepID != "" {
		parts = append(parts, fmt.Sprintf("step=%s", e.StepID))
	}
	return e.format("guide error", parts)
}

// Is checks if this error matches the target.
func (e *GuideError) Is(target error) bool {
	if _, ok := target.(*GuideError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SessionError represents errors related to persisted walkthrough sessions.
type SessionError struct {
	baseError
	SessionID string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{baseError: newBase(message, cause)}
}

// WithSessionID adds a session ID to the error context.
func (e *SessionError) WithSessionID(id string) *SessionError {
	e.SessionID = id
	return e
}

// WithSeverity sets the error severity.
func (e *SessionError) WithSeverity(s Severity) *SessionError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	var parts []string
	if e.SessionID != "" {
		parts = append(parts, fmt.Sprintf("session=%s", e.SessionID))
	}
	return e.format("session error", parts)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("guide", "pc-assembly")
//	fmt.Println(err) // "guide 'pc-assembly' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pcErr PCBuildError
	if As(err, &pcErr) {
		return pcErr.IsRetryable()
	}
	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
//	if errors.IsUserFacing(err) {
//	    presenter.ShowMessage(err.Error(), false)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var pcErr PCBuildError
	if As(err, &pcErr) {
		return pcErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PCBuildError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var pcErr PCBuildError
	if As(err, &pcErr) {
		return pcErr.Severity()
	}
	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error.
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var seqErr *SequenceError
	var actionErr *ActionError
	var assetErr *AssetError
	var guideErr *GuideError
	var sessionErr *SessionError

	return As(err, &seqErr) || As(err, &actionErr) || As(err, &assetErr) ||
		As(err, &guideErr) || As(err, &sessionErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
