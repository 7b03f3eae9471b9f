package customfield

import (
	"errors"

	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

// TypePlainText is the name of the base text field type.
const TypePlainText = "plain-text"

// ErrNotText is returned when a text field receives a value it cannot read as text.
var ErrNotText = errors.New("value must be text")

// PlainText is a single or multi-line text field without an input mask.
type PlainText struct{}

func (PlainText) Name() string        { return TypePlainText }
func (PlainText) DisplayName() string { return "Plain Text" }

func (PlainText) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": textProperties(),
	}
}

func (PlainText) New(meta registry.FieldMeta) (Field, error) {
	text := meta.Settings.TextField
	if text.InitialRows <= 0 {
		text.InitialRows = inputmask.DefaultInitialRows
	}
	meta.Settings.TextField = text
	return &textField{meta: meta}, nil
}

// textField carries what every text type shares; other types compose it.
type textField struct {
	meta registry.FieldMeta
}

func (f *textField) Meta() registry.FieldMeta { return f.meta }

func (f *textField) Rules() []Rule {
	return []Rule{{Name: "string", Fn: isText}}
}

func isText(v any) error {
	if _, ok := StringValue(v); !ok {
		return ErrNotText
	}
	return nil
}

func textProperties() map[string]any {
	return map[string]any{
		"placeholder": map[string]any{"type": "string", "title": "Placeholder Text"},
		"multiline":   map[string]any{"type": "boolean", "title": "Allow line breaks"},
		"initialRows": map[string]any{"type": "integer", "title": "Initial Rows", "minimum": 1, "default": inputmask.DefaultInitialRows},
		"charLimit":   map[string]any{"type": "integer", "title": "Character Limit", "minimum": 0},
	}
}
