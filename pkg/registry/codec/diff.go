package codec

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/faciam-dev/matchinput/pkg/registry"
)

// Diff returns a unified diff between two field sets rendered as registry
// YAML, or "" when they are equal. Fields are ordered by handle and uids
// are ignored, since files without uids get fresh ones on every load.
func Diff(from, to []registry.FieldMeta, fromName, toName string) (string, error) {
	a, err := EncodeYAML(canonical(from))
	if err != nil {
		return "", err
	}
	b, err := EncodeYAML(canonical(to))
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

func canonical(metas []registry.FieldMeta) []registry.FieldMeta {
	out := make([]registry.FieldMeta, len(metas))
	copy(out, metas)
	for i := range out {
		out[i].UID = ""
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}
