package inputmask

import "strings"

// DefaultInitialRows is the row count used by multi-line inputs when none is set.
const DefaultInitialRows = 4

// TextField holds the presentation settings every single-line text field
// persists. They carry no validation rules.
type TextField struct {
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Multiline   bool   `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	InitialRows int    `json:"initialRows,omitempty" yaml:"initialRows,omitempty"`
	CharLimit   int    `json:"charLimit,omitempty" yaml:"charLimit,omitempty"`
}

// PatternField is a text field whose value must match an input mask.
// A configured PatternField is immutable and safe for concurrent use.
type PatternField struct {
	Text TextField

	pattern      *Pattern
	errorMessage string
}

// Configure validates the input mask and error message and returns the field.
// An empty or uncompilable pattern yields a *ConfigError wrapping
// ErrInvalidPattern; a blank message yields one wrapping
// ErrErrorMessageRequired.
func Configure(pattern, errorMessage string, text TextField) (*PatternField, error) {
	p, err := Compile(pattern)
	if err != nil {
		return nil, &ConfigError{Setting: SettingInputMask, Pattern: pattern, Err: err}
	}
	if strings.TrimSpace(errorMessage) == "" {
		return nil, &ConfigError{Setting: SettingErrorMessage, Pattern: pattern, Err: ErrErrorMessageRequired}
	}
	if text.InitialRows <= 0 {
		text.InitialRows = DefaultInitialRows
	}
	return &PatternField{Text: text, pattern: p, errorMessage: errorMessage}, nil
}

// Pattern returns the input mask as configured, or "" for an unconfigured field.
func (f *PatternField) Pattern() string {
	if f.pattern == nil {
		return ""
	}
	return f.pattern.String()
}

// ErrorMessage returns the message attached to values that fail the mask.
func (f *PatternField) ErrorMessage() string { return f.errorMessage }

// Diagnostics returns the soft notes collected when the mask was compiled.
func (f *PatternField) Diagnostics() []string {
	if f.pattern == nil {
		return nil
	}
	return f.pattern.Diagnostics()
}

// Validate checks value against the input mask. The mask decides its own
// anchoring; a match anywhere it allows is accepted.
func (f *PatternField) Validate(value string) error {
	if f.pattern == nil {
		return &MismatchError{Message: f.errorMessage, Value: value, Cause: ErrPatternNotCompiled}
	}
	if !f.pattern.MatchString(value) {
		return &MismatchError{Message: f.errorMessage, Value: value}
	}
	return nil
}
