package main

import (
	"errors"
	"strings"

	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

type uppercaseType struct{}

func (uppercaseType) Name() string        { return "uppercase-text" }
func (uppercaseType) DisplayName() string { return "Uppercase Text" }

func (uppercaseType) Schema() map[string]any {
	return map[string]any{"type": "object"}
}

func (t uppercaseType) New(meta registry.FieldMeta) (customfield.Field, error) {
	return uppercaseField{meta: meta}, nil
}

type uppercaseField struct {
	meta registry.FieldMeta
}

func (f uppercaseField) Meta() registry.FieldMeta { return f.meta }

func (f uppercaseField) Rules() []customfield.Rule {
	return []customfield.Rule{{Name: "uppercase", Fn: func(v any) error {
		s, ok := customfield.StringValue(v)
		if !ok {
			return customfield.ErrNotText
		}
		if s != strings.ToUpper(s) {
			return errors.New("not uppercase")
		}
		return nil
	}}}
}

func New() customfield.FieldType { return uppercaseType{} }

// main is required for `go build ./...`; the package is loaded with -buildmode=plugin.
func main() {}
