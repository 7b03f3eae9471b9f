package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/matchinput/internal/auth"
	"github.com/faciam-dev/matchinput/internal/fieldstore"
	huma "github.com/faciam-dev/matchinput/internal/huma"
	"github.com/faciam-dev/matchinput/internal/logger"
	"github.com/faciam-dev/matchinput/internal/record"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

func newStore(t *testing.T) *fieldstore.Store {
	t.Helper()
	s := fieldstore.New(customfield.DefaultTypes(), nil)
	err := s.Load([]registry.FieldMeta{
		{
			Handle: "phone",
			Type:   customfield.TypeMatchInput,
			Settings: registry.Settings{
				InputMask:    `/^[0-9]{3}-[0-9]{4}$/`,
				ErrorMessage: "Use the 555-1234 format",
			},
		},
		{Handle: "notes", Type: customfield.TypePlainText},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func statusOf(t *testing.T, err error) *huma.ErrorModel {
	t.Helper()
	var em *huma.ErrorModel
	if !errors.As(err, &em) {
		t.Fatalf("err = %v, want ErrorModel", err)
	}
	return em
}

func TestFieldTypesList(t *testing.T) {
	h := &FieldTypeHandler{Types: customfield.DefaultTypes()}
	out, err := h.list(context.Background(), &listFieldTypesIn{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Body.Total != 2 {
		t.Fatalf("expected 2 types, got %d", out.Body.Total)
	}
	out, _ = h.list(context.Background(), &listFieldTypesIn{Q: "match"})
	if out.Body.Total != 1 || out.Body.Types[0].ID != customfield.TypeMatchInput {
		t.Fatalf("filtered = %+v", out.Body.Types)
	}
}

func TestFieldsList(t *testing.T) {
	h := &FieldHandler{Store: newStore(t)}
	out, err := h.list(context.Background(), &listFieldsIn{Type: customfield.TypeMatchInput})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.Body.Total != 1 || out.Body.Fields[0].Handle != "phone" {
		t.Fatalf("fields = %+v", out.Body.Fields)
	}
	if out.ETag == "" {
		t.Fatalf("missing etag")
	}
}

func TestFieldCheck(t *testing.T) {
	h := &FieldHandler{Store: newStore(t)}
	in := &checkFieldIn{Body: registry.FieldMeta{
		Handle:   "Zip Code",
		Type:     customfield.TypeMatchInput,
		Settings: registry.Settings{InputMask: `/^\d{5}$/D`, ErrorMessage: "Five digits"},
	}}
	out, err := h.check(context.Background(), in)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !out.Body.Valid {
		t.Fatalf("expected valid")
	}
	if diff := cmp.Diff([]string{`modifier 'D' is implied: $ never matches before a trailing newline`}, out.Body.Diagnostics); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if _, ok := h.Store.Field("zipCode"); ok {
		t.Fatalf("check must not store the field")
	}
}

func TestFieldCheckInvalid(t *testing.T) {
	h := &FieldHandler{Store: newStore(t)}
	tests := []struct {
		name string
		meta registry.FieldMeta
		loc  string
		msg  string
	}{
		{
			name: "pattern",
			meta: registry.FieldMeta{Handle: "zip", Type: customfield.TypeMatchInput, Settings: registry.Settings{InputMask: `^\d{5}$`, ErrorMessage: "x"}},
			loc:  "body.settings.inputMask",
			msg:  inputmask.InvalidPatternMessage,
		},
		{
			name: "message",
			meta: registry.FieldMeta{Handle: "zip", Type: customfield.TypeMatchInput, Settings: registry.Settings{InputMask: `/x/`}},
			loc:  "body.settings.errorMessage",
			msg:  inputmask.ErrorMessageRequiredMessage,
		},
		{
			name: "type",
			meta: registry.FieldMeta{Handle: "zip", Type: "color"},
			loc:  "body.type",
		},
		{
			name: "handle",
			meta: registry.FieldMeta{Type: customfield.TypePlainText},
			loc:  "body.handle",
			msg:  "handle is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.check(context.Background(), &checkFieldIn{Body: tt.meta})
			em := statusOf(t, err)
			if em.Status != http.StatusUnprocessableEntity || len(em.Errors) != 1 {
				t.Fatalf("unexpected error model %+v", em)
			}
			if em.Errors[0].Location != tt.loc {
				t.Fatalf("location = %q, want %q", em.Errors[0].Location, tt.loc)
			}
			if tt.msg != "" && em.Errors[0].Message != tt.msg {
				t.Fatalf("message = %q, want %q", em.Errors[0].Message, tt.msg)
			}
		})
	}
}

func TestPatternTest(t *testing.T) {
	h := &PatternHandler{}
	in := &testPatternIn{}
	in.Body.Pattern = `/^[0-9]{3}-[0-9]{4}$/`
	v := "555-1234"
	in.Body.Value = &v
	out, err := h.test(context.Background(), in)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if !out.Body.Valid || out.Body.Matched == nil || !*out.Body.Matched {
		t.Fatalf("unexpected output %+v", out.Body)
	}

	in.Body.Pattern = "[invalid("
	out, _ = h.test(context.Background(), in)
	if out.Body.Valid || out.Body.Error == "" || out.Body.Matched != nil {
		t.Fatalf("unexpected output %+v", out.Body)
	}
}

func TestRecordValidate(t *testing.T) {
	h := &RecordHandler{Validator: &record.Validator{Store: newStore(t)}}
	in := &validateRecordIn{}
	in.Body.Values = map[string]any{"phone": "555-1234", "notes": "ok"}
	out, err := h.validate(context.Background(), in)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !out.Body.Valid {
		t.Fatalf("expected valid")
	}

	in.Body.Values = map[string]any{"phone": "abc-defg"}
	_, err = h.validate(context.Background(), in)
	em := statusOf(t, err)
	if em.Status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", em.Status)
	}
	want := []*huma.ErrorDetail{{Location: "phone", Message: "Use the 555-1234 format", Value: "abc-defg"}}
	if diff := cmp.Diff(want, em.Errors); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordValidateLogsSubject(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.Set(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { logger.Set(prev) })

	h := &RecordHandler{Validator: &record.Validator{Store: newStore(t)}}
	in := &validateRecordIn{}
	in.Body.Values = map[string]any{"phone": "nope"}
	if _, err := h.validate(auth.WithSubject(context.Background(), "ci"), in); err == nil {
		t.Fatalf("expected rejection")
	}
	out := buf.String()
	if !strings.Contains(out, "record rejected") || !strings.Contains(out, "subject=ci") || !strings.Contains(out, "fields=[phone]") {
		t.Fatalf("log = %q", out)
	}
}
