package client

import (
	"context"
	"errors"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/internal/record"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

type localClient struct {
	store *fieldstore.Store
}

// NewLocal returns a Client backed by an in-process store.
func NewLocal(store *fieldstore.Store) Client {
	return &localClient{store: store}
}

func (c *localClient) Fields(ctx context.Context) ([]registry.FieldMeta, error) {
	return c.store.List(), nil
}

func (c *localClient) CheckField(ctx context.Context, meta registry.FieldMeta) ([]string, error) {
	f, err := c.store.Check(meta)
	if err != nil {
		var ce *inputmask.ConfigError
		if errors.As(err, &ce) {
			return nil, &FieldError{Location: "settings." + ce.Setting, Message: ce.Message()}
		}
		return nil, err
	}
	if m, ok := f.(customfield.Masked); ok {
		return m.Mask().Diagnostics(), nil
	}
	return nil, nil
}

func (c *localClient) ValidateRecord(ctx context.Context, values map[string]any, fields ...string) (map[string][]string, error) {
	v := &record.Validator{Store: c.store}
	res := map[string][]string{}
	err := v.Validate(values, fields...)
	var verr record.ValidationError
	if errors.As(err, &verr) {
		for f, msgs := range verr {
			res[f] = append([]string(nil), msgs...)
		}
		return res, nil
	}
	return res, err
}

func (c *localClient) Mode() string { return "local" }
