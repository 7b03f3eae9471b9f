package handler

import (
	"context"
	"net/http"

	huma "github.com/faciam-dev/matchinput/internal/huma"
	"github.com/faciam-dev/matchinput/pkg/inputmask"
)

// PatternHandler lets field authors try an input mask.
type PatternHandler struct{}

type testPatternIn struct {
	Body struct {
		Pattern string  `json:"pattern" doc:"Delimited regular expression, e.g. /^a+$/i"`
		Value   *string `json:"value,omitempty" doc:"Optional subject to match"`
	}
}

type testPatternOut struct {
	Body struct {
		Valid       bool     `json:"valid"`
		Error       string   `json:"error,omitempty"`
		Matched     *bool    `json:"matched,omitempty"`
		Diagnostics []string `json:"diagnostics,omitempty"`
	}
}

// RegisterPatterns registers the pattern test endpoint.
func RegisterPatterns(api huma.API, h *PatternHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "testPattern",
		Method:      http.MethodPost,
		Path:        "/v1/patterns/test",
		Summary:     "Compile an input mask and optionally match a value",
		Tags:        []string{"Patterns"},
	}, h.test)
}

func (h *PatternHandler) test(ctx context.Context, in *testPatternIn) (*testPatternOut, error) {
	out := &testPatternOut{}
	p, err := inputmask.Compile(in.Body.Pattern)
	if err != nil {
		out.Body.Error = err.Error()
		return out, nil
	}
	out.Body.Valid = true
	out.Body.Diagnostics = p.Diagnostics()
	if in.Body.Value != nil {
		m := p.MatchString(*in.Body.Value)
		out.Body.Matched = &m
	}
	return out, nil
}
