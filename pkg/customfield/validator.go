package customfield

import (
	"fmt"
	"strconv"
)

// ValidatorFunc validates a value. It should return an error if the value is invalid.
type ValidatorFunc func(v any) error

// Rule is a named validation step a field contributes to record validation.
type Rule struct {
	Name string
	Fn   ValidatorFunc
}

// ValidatorPlugin is implemented by runtime validator plugins.
type ValidatorPlugin interface {
	Name() string
	Validate(v any) error
}

// AsValidator exposes a field's rules as a single validator plugin.
func AsValidator(f Field) ValidatorPlugin {
	return fieldValidator{f: f}
}

type fieldValidator struct{ f Field }

func (v fieldValidator) Name() string         { return v.f.Meta().Handle }
func (v fieldValidator) Validate(x any) error { return Validate(v.f, x) }

// Validate runs the field's rules in order and returns the first failure
// unchanged, so its message can be shown as is.
func Validate(f Field, v any) error {
	for _, r := range f.Rules() {
		if err := r.Fn(v); err != nil {
			return err
		}
	}
	return nil
}

// StringValue converts a submitted value to the text a text field checks.
// nil becomes "", numbers and booleans are formatted. ok is false for other
// types.
func StringValue(v any) (s string, ok bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case []byte:
		return string(x), true
	case bool:
		return strconv.FormatBool(x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}
