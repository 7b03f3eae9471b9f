package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/faciam-dev/matchinput/pkg/registry"
)

// Client validates field definitions and records, locally or against the API.
type Client interface {
	Fields(ctx context.Context) ([]registry.FieldMeta, error)
	// CheckField returns the diagnostics of a valid definition, or a
	// *FieldError describing the failing setting.
	CheckField(ctx context.Context, meta registry.FieldMeta) ([]string, error)
	// ValidateRecord returns the messages attached to each failing field;
	// the map is empty when the record is valid.
	ValidateRecord(ctx context.Context, values map[string]any, fields ...string) (map[string][]string, error)
	Mode() string
}

// FieldError is returned by CheckField when a definition cannot be saved.
type FieldError struct {
	Location string
	Message  string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Location, e.Message) }

type httpClient struct {
	base string
	http *resty.Client
}

type Option func(*httpClient)

// WithToken sets the Authorization token
func WithToken(tok string) Option {
	return func(c *httpClient) {
		c.http.SetAuthToken(tok)
	}
}

// WithInsecure skips TLS verification.
func WithInsecure() Option {
	return func(c *httpClient) {
		c.http.SetTLSClientConfig(insecureTLS())
	}
}

// NewHTTP returns a new Client for the given base URL.
func NewHTTP(base string, opts ...Option) Client {
	c := &httpClient{base: base, http: resty.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

func (c *httpClient) Fields(ctx context.Context) ([]registry.FieldMeta, error) {
	var out struct {
		Fields []registry.FieldMeta `json:"fields"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get(c.base + "/v1/fields")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Fields, nil
}

func (c *httpClient) CheckField(ctx context.Context, meta registry.FieldMeta) ([]string, error) {
	var out struct {
		Diagnostics []string `json:"diagnostics"`
	}
	var perr problem
	resp, err := c.http.R().SetContext(ctx).SetBody(meta).SetResult(&out).SetError(&perr).Post(c.base + "/v1/fields/check")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnprocessableEntity && len(perr.Errors) > 0 {
		e := perr.Errors[0]
		return nil, &FieldError{Location: strings.TrimPrefix(e.Location, "body."), Message: e.Message}
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Diagnostics, nil
}

func (c *httpClient) ValidateRecord(ctx context.Context, values map[string]any, fields ...string) (map[string][]string, error) {
	body := map[string]any{"values": values}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	var perr problem
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetError(&perr).Post(c.base + "/v1/records/validate")
	if err != nil {
		return nil, err
	}
	res := map[string][]string{}
	if resp.StatusCode() == http.StatusUnprocessableEntity {
		for _, e := range perr.Errors {
			res[e.Location] = append(res[e.Location], e.Message)
		}
		return res, nil
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return res, nil
}

func (c *httpClient) Mode() string { return "http" }

func restyErr(resp *resty.Response) error {
	return fmt.Errorf("%s", resp.Status())
}
