package customfield

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/faciam-dev/matchinput/pkg/registry"
)

// Field is a configured field ready to validate values.
type Field interface {
	Meta() registry.FieldMeta
	Rules() []Rule
}

// FieldType builds fields from their definitions. New must reject settings
// that would make the field unusable.
type FieldType interface {
	Name() string
	DisplayName() string
	// Schema describes the settings the type reads, as JSON schema.
	Schema() map[string]any
	New(meta registry.FieldMeta) (Field, error)
}

var (
	// ErrTypeExists is returned by Register when a type with the same
	// name has already been registered.
	ErrTypeExists = errors.New("field type already registered")
	// ErrTypeNotFound is returned by Build for an unknown type.
	ErrTypeNotFound = errors.New("field type not found")
)

// Types is the set of field types a host has registered.
type Types struct {
	mu    sync.RWMutex
	types map[string]FieldType
}

// NewTypes returns an empty registry.
func NewTypes() *Types {
	return &Types{types: make(map[string]FieldType)}
}

// DefaultTypes returns a registry with the built-in plain-text and
// match-input types.
func DefaultTypes() *Types {
	t := NewTypes()
	_ = t.Register(PlainText{})
	_ = t.Register(MatchInput{})
	return t
}

// Register adds a field type. It returns an error if the name is already registered.
func (t *Types) Register(ft FieldType) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	name := ft.Name()
	if _, ok := t.types[name]; ok {
		return fmt.Errorf("%w: %s", ErrTypeExists, name)
	}
	t.types[name] = ft
	return nil
}

// Get retrieves a field type by name.
func (t *Types) Get(name string) (FieldType, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ft, ok := t.types[name]
	return ft, ok
}

// Registered returns the names of all registered types, sorted.
func (t *Types) Registered() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.types))
	for n := range t.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build configures a field from its definition using the registered type.
func (t *Types) Build(meta registry.FieldMeta) (Field, error) {
	ft, ok := t.Get(meta.Type)
	if !ok {
		return nil, fmt.Errorf("field %q: %w: %s", meta.Handle, ErrTypeNotFound, meta.Type)
	}
	f, err := ft.New(meta)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", meta.Handle, err)
	}
	return f, nil
}
