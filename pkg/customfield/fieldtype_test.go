package customfield

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

func phoneMeta() registry.FieldMeta {
	return registry.FieldMeta{
		Handle: "phone",
		Type:   TypeMatchInput,
		Settings: registry.Settings{
			InputMask:    `/^[0-9]{3}-[0-9]{4}$/`,
			ErrorMessage: "Use the 555-1234 format",
		},
	}
}

func TestTypesRegister(t *testing.T) {
	types := DefaultTypes()
	if diff := cmp.Diff([]string{TypeMatchInput, TypePlainText}, types.Registered()); diff != "" {
		t.Fatalf("registered mismatch (-want +got):\n%s", diff)
	}
	err := types.Register(MatchInput{})
	if !errors.Is(err, ErrTypeExists) {
		t.Fatalf("duplicate register err = %v", err)
	}
	if _, ok := types.Get(TypeMatchInput); !ok {
		t.Fatalf("match-input not found")
	}
	if _, ok := NewTypes().Get(TypeMatchInput); ok {
		t.Fatalf("empty registry returned a type")
	}
}

func TestBuildUnknownType(t *testing.T) {
	_, err := DefaultTypes().Build(registry.FieldMeta{Handle: "x", Type: "color"})
	if !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildMatchInput(t *testing.T) {
	f, err := DefaultTypes().Build(phoneMeta())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := f.Meta().Settings.InitialRows; got != inputmask.DefaultInitialRows {
		t.Fatalf("initialRows = %d", got)
	}
	var names []string
	for _, r := range f.Rules() {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"string", "matchesInputMask"}, names); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	m, ok := f.(Masked)
	if !ok || m.Mask().Pattern() != phoneMeta().Settings.InputMask {
		t.Fatalf("field does not expose its mask")
	}
}

func TestBuildMatchInputInvalid(t *testing.T) {
	meta := phoneMeta()
	meta.Settings.InputMask = "[0-9]+"
	_, err := DefaultTypes().Build(meta)
	var ce *inputmask.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
	if ce.Setting != inputmask.SettingInputMask || ce.Message() != inputmask.InvalidPatternMessage {
		t.Fatalf("unexpected config error %+v", ce)
	}

	meta = phoneMeta()
	meta.Settings.ErrorMessage = ""
	if _, err := DefaultTypes().Build(meta); !errors.Is(err, inputmask.ErrErrorMessageRequired) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateField(t *testing.T) {
	f, err := DefaultTypes().Build(phoneMeta())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := Validate(f, "555-1234"); err != nil {
		t.Fatalf("valid value rejected: %v", err)
	}
	err = Validate(f, "abc-defg")
	if !errors.Is(err, inputmask.ErrPatternMismatch) || err.Error() != "Use the 555-1234 format" {
		t.Fatalf("err = %v", err)
	}
	if err := Validate(f, nil); !errors.Is(err, inputmask.ErrPatternMismatch) {
		t.Fatalf("nil value: err = %v", err)
	}
	if err := Validate(f, map[string]string{}); !errors.Is(err, ErrNotText) {
		t.Fatalf("map value: err = %v", err)
	}

	v := AsValidator(f)
	if v.Name() != "phone" {
		t.Fatalf("validator name = %q", v.Name())
	}
	if err := v.Validate("555-0000"); err != nil {
		t.Fatalf("validator rejected value: %v", err)
	}
}

func TestPlainText(t *testing.T) {
	f, err := DefaultTypes().Build(registry.FieldMeta{Handle: "notes", Type: TypePlainText})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, v := range []any{"", "free text", 42, 1.5, true, nil} {
		if err := Validate(f, v); err != nil {
			t.Fatalf("Validate(%v) = %v", v, err)
		}
	}
	if err := Validate(f, []int{1}); !errors.Is(err, ErrNotText) {
		t.Fatalf("slice: err = %v", err)
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{nil, "", true},
		{"abc", "abc", true},
		{[]byte("xy"), "xy", true},
		{12, "12", true},
		{uint8(7), "7", true},
		{2.5, "2.5", true},
		{float32(0.25), "0.25", true},
		{false, "false", true},
		{struct{}{}, "", false},
	}
	for _, tt := range tests {
		got, ok := StringValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StringValue(%#v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
