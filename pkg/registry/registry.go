package registry

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/faciam-dev/matchinput/pkg/inputmask"
)

// Settings holds the per-field configuration persisted with a definition.
// Types ignore the settings they do not use.
type Settings struct {
	InputMask    string `yaml:"inputMask,omitempty" json:"inputMask,omitempty"`
	ErrorMessage string `yaml:"errorMessage,omitempty" json:"errorMessage,omitempty"`

	inputmask.TextField `yaml:",inline"`
}

// FieldMeta is a field definition as authored in the registry file.
type FieldMeta struct {
	UID      string   `yaml:"uid,omitempty" json:"uid,omitempty"`
	Handle   string   `yaml:"handle" json:"handle"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Type     string   `yaml:"type" json:"type"`
	Settings Settings `yaml:"settings,omitempty" json:"settings"`
}

// NormalizeHandle turns a field name or handle into its lowerCamel handle.
func NormalizeHandle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strcase.ToLowerCamel(s)
}

// Label returns the display name, falling back to the handle.
func (m FieldMeta) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Handle
}
