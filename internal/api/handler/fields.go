package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	huma "github.com/faciam-dev/matchinput/internal/huma"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

// FieldHandler exposes the configured fields.
type FieldHandler struct {
	Store *fieldstore.Store
}

type listFieldsIn struct {
	Type string `query:"type" doc:"Filter by field type"`
}

type listFieldsOut struct {
	ETag string `header:"ETag"`
	Body struct {
		Fields []registry.FieldMeta `json:"fields"`
		Total  int                  `json:"total"`
	}
}

type checkFieldIn struct {
	Body registry.FieldMeta
}

type checkFieldOut struct {
	Body struct {
		Valid       bool     `json:"valid"`
		Diagnostics []string `json:"diagnostics,omitempty"`
	}
}

// RegisterFields registers the field endpoints.
func RegisterFields(api huma.API, h *FieldHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listFields",
		Method:      http.MethodGet,
		Path:        "/v1/fields",
		Summary:     "List configured fields",
		Tags:        []string{"Fields"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "checkField",
		Method:      http.MethodPost,
		Path:        "/v1/fields/check",
		Summary:     "Check a field definition before saving it",
		Description: "Builds the definition through its field type. An invalid input mask is reported at settings.inputMask.",
		Tags:        []string{"Fields"},
	}, h.check)
}

func (h *FieldHandler) list(ctx context.Context, in *listFieldsIn) (*listFieldsOut, error) {
	metas := h.Store.List()
	if in.Type != "" {
		filtered := metas[:0]
		for _, m := range metas {
			if m.Type == in.Type {
				filtered = append(filtered, m)
			}
		}
		metas = filtered
	}
	out := &listFieldsOut{ETag: h.Store.ETag()}
	out.Body.Fields = metas
	out.Body.Total = len(metas)
	return out, nil
}

func (h *FieldHandler) check(ctx context.Context, in *checkFieldIn) (*checkFieldOut, error) {
	meta := in.Body
	meta.Handle = registry.NormalizeHandle(meta.Handle)
	if meta.Handle == "" {
		return nil, huma.Error422("body.handle", "handle is required", in.Body.Handle)
	}
	f, err := h.Store.Check(meta)
	if err != nil {
		var ce *inputmask.ConfigError
		switch {
		case errors.As(err, &ce):
			loc := "body.settings." + ce.Setting
			if ce.Setting == inputmask.SettingInputMask {
				return nil, huma.Error422(loc, ce.Message(), ce.Pattern)
			}
			return nil, huma.Error422(loc, ce.Message(), nil)
		case errors.Is(err, customfield.ErrTypeNotFound):
			return nil, huma.Error422("body.type", err.Error(), meta.Type)
		}
		return nil, err
	}
	out := &checkFieldOut{}
	out.Body.Valid = true
	if m, ok := f.(customfield.Masked); ok {
		out.Body.Diagnostics = m.Mask().Diagnostics()
	}
	return out, nil
}
