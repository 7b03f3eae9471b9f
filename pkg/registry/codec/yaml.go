package codec

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

const currentVersion = "1"

type registryFile struct {
	Version string               `yaml:"version"`
	Fields  []registry.FieldMeta `yaml:"fields"`
}

// version 0 files kept the settings flat on the field.
type registryFileV0 struct {
	Version string        `yaml:"version"`
	Fields  []fieldMetaV0 `yaml:"fields"`
}

type fieldMetaV0 struct {
	UID          string `yaml:"uid,omitempty"`
	Handle       string `yaml:"handle"`
	Name         string `yaml:"name,omitempty"`
	Type         string `yaml:"type"`
	InputMask    string `yaml:"inputMask,omitempty"`
	ErrorMessage string `yaml:"errorMessage,omitempty"`
	Placeholder  string `yaml:"placeholder,omitempty"`
	Multiline    bool   `yaml:"multiline,omitempty"`
	InitialRows  int    `yaml:"initialRows,omitempty"`
	CharLimit    int    `yaml:"charLimit,omitempty"`
}

func EncodeYAML(metas []registry.FieldMeta) ([]byte, error) {
	rf := registryFile{Version: currentVersion, Fields: metas}
	return yaml.Marshal(rf)
}

// DecodeYAML reads a registry file. Handles are normalized to lowerCamel,
// missing UIDs are generated and initialRows defaults to 4. Duplicate
// handles are rejected. Settings are not checked here; building the field
// through its type does that.
func DecodeYAML(b []byte) ([]registry.FieldMeta, error) {
	var v struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}

	var metas []registry.FieldMeta
	switch v.Version {
	case "", "0":
		var rf registryFileV0
		if err := yaml.Unmarshal(b, &rf); err != nil {
			return nil, err
		}
		for _, f := range rf.Fields {
			metas = append(metas, registry.FieldMeta{
				UID:    f.UID,
				Handle: f.Handle,
				Name:   f.Name,
				Type:   f.Type,
				Settings: registry.Settings{
					InputMask:    f.InputMask,
					ErrorMessage: f.ErrorMessage,
					TextField: inputmask.TextField{
						Placeholder: f.Placeholder,
						Multiline:   f.Multiline,
						InitialRows: f.InitialRows,
						CharLimit:   f.CharLimit,
					},
				},
			})
		}
	case currentVersion:
		var rf registryFile
		if err := yaml.Unmarshal(b, &rf); err != nil {
			return nil, err
		}
		metas = rf.Fields
	default:
		return nil, fmt.Errorf("unsupported registry version %q", v.Version)
	}

	seen := make(map[string]int, len(metas))
	for i := range metas {
		m := &metas[i]
		if m.Handle == "" {
			m.Handle = m.Name
		}
		m.Handle = registry.NormalizeHandle(m.Handle)
		if m.Handle == "" {
			return nil, fmt.Errorf("field %d: handle or name required", i)
		}
		if m.Type == "" {
			return nil, fmt.Errorf("field %q: type required", m.Handle)
		}
		if prev, ok := seen[m.Handle]; ok {
			return nil, fmt.Errorf("duplicate field handle %q (fields %d and %d)", m.Handle, prev, i)
		}
		seen[m.Handle] = i
		if m.UID == "" {
			m.UID = uuid.NewString()
		}
		if m.Settings.InitialRows <= 0 {
			m.Settings.InitialRows = inputmask.DefaultInitialRows
		}
	}
	return metas, nil
}
