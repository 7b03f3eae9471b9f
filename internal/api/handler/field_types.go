package handler

import (
	"context"
	"net/http"

	"github.com/faciam-dev/matchinput/internal/customfield/catalog"
	huma "github.com/faciam-dev/matchinput/internal/huma"
	"github.com/faciam-dev/matchinput/pkg/customfield"
)

// FieldTypeHandler serves the field type catalog.
type FieldTypeHandler struct {
	Types *customfield.Types
}

type listFieldTypesIn struct {
	Q string `query:"q" doc:"Filter by id, name or description"`
}

type listFieldTypesOut struct {
	Body struct {
		Types []catalog.Entry `json:"types"`
		Total int             `json:"total"`
	}
}

// RegisterFieldTypes registers the field type listing endpoint.
func RegisterFieldTypes(api huma.API, h *FieldTypeHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listFieldTypes",
		Method:      http.MethodGet,
		Path:        "/v1/field-types",
		Summary:     "List registered field types",
		Description: "Each entry carries the JSON schema of the type's settings.",
		Tags:        []string{"FieldTypes"},
	}, h.list)
}

func (h *FieldTypeHandler) list(ctx context.Context, in *listFieldTypesIn) (*listFieldTypesOut, error) {
	entries := catalog.Filter(catalog.Build(h.Types), in.Q)
	out := &listFieldTypesOut{}
	out.Body.Types = entries
	out.Body.Total = len(entries)
	return out, nil
}
