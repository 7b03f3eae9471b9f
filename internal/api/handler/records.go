package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/faciam-dev/matchinput/internal/auth"
	huma "github.com/faciam-dev/matchinput/internal/huma"
	"github.com/faciam-dev/matchinput/internal/logger"
	"github.com/faciam-dev/matchinput/internal/record"
)

// RecordHandler validates record values against the configured fields.
type RecordHandler struct {
	Validator *record.Validator
}

type validateRecordIn struct {
	Body struct {
		Values map[string]any `json:"values" doc:"Field values keyed by handle"`
		Fields []string       `json:"fields,omitempty" doc:"Only validate these handles"`
	}
}

type validateRecordOut struct {
	Body struct {
		Valid bool `json:"valid"`
	}
}

// RegisterRecords registers the record validation endpoint.
func RegisterRecords(api huma.API, h *RecordHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "validateRecord",
		Method:      http.MethodPost,
		Path:        "/v1/records/validate",
		Summary:     "Validate record values",
		Description: "Failing fields are returned as 422 error details located at the field handle, with the configured error message.",
		Tags:        []string{"Records"},
	}, h.validate)
}

func (h *RecordHandler) validate(ctx context.Context, in *validateRecordIn) (*validateRecordOut, error) {
	err := h.Validator.Validate(in.Body.Values, in.Body.Fields...)
	var verr record.ValidationError
	if errors.As(err, &verr) {
		logger.L.Info("record rejected", "subject", auth.SubjectFromContext(ctx), "fields", verr.Fields())
		var details []*huma.ErrorDetail
		for _, field := range verr.Fields() {
			for _, msg := range verr[field] {
				details = append(details, &huma.ErrorDetail{Location: field, Message: msg, Value: in.Body.Values[field]})
			}
		}
		return nil, huma.Error422Details("validation failed", details)
	}
	if err != nil {
		return nil, err
	}
	out := &validateRecordOut{}
	out.Body.Valid = true
	return out, nil
}
