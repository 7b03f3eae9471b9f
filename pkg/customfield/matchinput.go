package customfield

import (
	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

// TypeMatchInput is the name of the input mask field type.
const TypeMatchInput = "match-input"

// MatchInput is a text field whose value must match a configured input mask.
type MatchInput struct{}

func (MatchInput) Name() string        { return TypeMatchInput }
func (MatchInput) DisplayName() string { return "Match Input" }

func (MatchInput) Schema() map[string]any {
	props := textProperties()
	props[inputmask.SettingInputMask] = map[string]any{
		"type":        "string",
		"title":       "Input Mask",
		"description": "Regular expression with delimiters, e.g. /^[0-9]{3}-[0-9]{4}$/",
	}
	props[inputmask.SettingErrorMessage] = map[string]any{
		"type":  "string",
		"title": "Error Message",
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{inputmask.SettingInputMask, inputmask.SettingErrorMessage},
	}
}

// New configures the input mask. A *inputmask.ConfigError is returned when
// the mask does not compile or the error message is blank.
func (MatchInput) New(meta registry.FieldMeta) (Field, error) {
	s := meta.Settings
	pf, err := inputmask.Configure(s.InputMask, s.ErrorMessage, s.TextField)
	if err != nil {
		return nil, err
	}
	meta.Settings.TextField = pf.Text
	return &matchInputField{textField: textField{meta: meta}, mask: pf}, nil
}

type matchInputField struct {
	textField
	mask *inputmask.PatternField
}

// Mask returns the configured input mask field.
func (f *matchInputField) Mask() *inputmask.PatternField { return f.mask }

func (f *matchInputField) Rules() []Rule {
	return append(f.textField.Rules(), Rule{Name: "matchesInputMask", Fn: f.matches})
}

func (f *matchInputField) matches(v any) error {
	s, _ := StringValue(v)
	return f.mask.Validate(s)
}

// Masked is implemented by fields that carry an input mask.
type Masked interface {
	Mask() *inputmask.PatternField
}
