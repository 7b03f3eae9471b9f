package inputmask

import (
	"errors"
	"fmt"
)

// Setting names reported by ConfigError.
const (
	SettingInputMask    = "inputMask"
	SettingErrorMessage = "errorMessage"
)

// InvalidPatternMessage is shown to field authors when the input mask does not compile.
const InvalidPatternMessage = "Not a valid regex (missing delimiters?)"

// ErrorMessageRequiredMessage is shown when the error message setting is blank.
const ErrorMessageRequiredMessage = "Error message cannot be blank."

var (
	// ErrInvalidPattern is wrapped by every pattern compile failure.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrErrorMessageRequired is returned by Configure for a blank error message.
	ErrErrorMessageRequired = errors.New("error message required")
	// ErrPatternMismatch is wrapped by MismatchError.
	ErrPatternMismatch = errors.New("pattern mismatch")
	// ErrPatternNotCompiled marks a mismatch caused by a field that was never configured.
	ErrPatternNotCompiled = errors.New("pattern not compiled")
)

// SyntaxError reports why a pattern could not be compiled.
type SyntaxError struct {
	Pattern string
	Reason  string
	// Err is the underlying regexp error, if the failure came from the engine.
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// Unwrap returns ErrInvalidPattern so callers can use errors.Is.
func (e *SyntaxError) Unwrap() error { return ErrInvalidPattern }

// ConfigError is returned by Configure when a setting blocks saving the field.
type ConfigError struct {
	Setting string
	Pattern string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Message returns the text shown next to the failing setting.
func (e *ConfigError) Message() string {
	if errors.Is(e.Err, ErrInvalidPattern) {
		return InvalidPatternMessage
	}
	return ErrorMessageRequiredMessage
}

// MismatchError is returned when a value does not satisfy the input mask.
// Error returns the configured message verbatim.
type MismatchError struct {
	Message string
	Value   string
	// Cause is set when the check failed for a reason other than a plain
	// non-match, e.g. ErrPatternNotCompiled.
	Cause error
}

func (e *MismatchError) Error() string {
	if e.Message == "" {
		return "value does not match the input mask"
	}
	return e.Message
}

func (e *MismatchError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrPatternMismatch, e.Cause}
	}
	return []error{ErrPatternMismatch}
}
