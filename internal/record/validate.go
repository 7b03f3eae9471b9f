package record

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/metrics"
)

// ValidationError maps field handles to the messages attached to them.
type ValidationError url.Values

func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	var parts []string
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field][0]))
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

// Add attaches a message to a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first message for a field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// Fields returns the failing handles, sorted.
func (e ValidationError) Fields() []string {
	out := make([]string, 0, len(e))
	for f, msgs := range e {
		if len(msgs) > 0 {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// Validator checks record values against the configured fields.
type Validator struct {
	Store *fieldstore.Store
}

// Validate runs every configured field's rules against values, keyed by
// handle. A missing value is validated as empty. When handles are given
// only those fields are checked; unknown handles are ignored, as are
// values without a configured field. It returns a ValidationError or nil.
func (v *Validator) Validate(values map[string]any, handles ...string) error {
	var fields []customfield.Field
	if len(handles) == 0 {
		fields = v.Store.Fields()
	} else {
		for _, h := range handles {
			if f, ok := v.Store.Field(h); ok {
				fields = append(fields, f)
			}
		}
	}

	verr := ValidationError{}
	for _, f := range fields {
		meta := f.Meta()
		if err := customfield.Validate(f, values[meta.Handle]); err != nil {
			metrics.FieldValidations.WithLabelValues(meta.Type, "fail").Inc()
			verr.Add(meta.Handle, err.Error())
			continue
		}
		metrics.FieldValidations.WithLabelValues(meta.Type, "ok").Inc()
	}
	if len(verr) == 0 {
		return nil
	}
	return verr
}
