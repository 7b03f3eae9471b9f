package catalog

import (
	"strings"

	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

// Entry describes a registered field type and the settings it accepts.
type Entry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Rules       []string       `json:"rules"`
	Schema      map[string]any `json:"schema"`
}

var descriptions = map[string]string{
	customfield.TypePlainText:  "Single or multi-line text",
	customfield.TypeMatchInput: "Text that must match a regular expression input mask",
}

// Build lists every registered type. Rule names are taken from a sample
// field built with an accept-all mask.
func Build(types *customfield.Types) []Entry {
	names := types.Registered()
	res := make([]Entry, 0, len(names))
	for _, n := range names {
		ft, ok := types.Get(n)
		if !ok {
			continue
		}
		res = append(res, Entry{
			ID:          n,
			Name:        ft.DisplayName(),
			Description: descriptions[n],
			Rules:       ruleNames(ft),
			Schema:      ft.Schema(),
		})
	}
	return res
}

func ruleNames(ft customfield.FieldType) []string {
	sample := registry.FieldMeta{
		Handle:   "sample",
		Type:     ft.Name(),
		Settings: registry.Settings{InputMask: "/.*/", ErrorMessage: "sample"},
	}
	f, err := ft.New(sample)
	if err != nil {
		return nil
	}
	rules := f.Rules()
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

// Filter returns entries whose id, name or description contain q.
func Filter(entries []Entry, q string) []Entry {
	if q == "" {
		return entries
	}
	q = strings.ToLower(q)
	res := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.ID), q) ||
			strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			res = append(res, e)
		}
	}
	return res
}
