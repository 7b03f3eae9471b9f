package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/faciam-dev/matchinput/internal/api/handler"
	"github.com/faciam-dev/matchinput/internal/auth"
	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/internal/record"
)

// Option configures New.
type Option func(*options)

type options struct {
	jwt *auth.JWT
}

// WithAuth requires a valid bearer token on every API operation.
func WithAuth(j *auth.JWT) Option {
	return func(o *options) { o.jwt = j }
}

// New wires the API around store. The store's field types back the catalog.
func New(store *fieldstore.Store, opts ...Option) huma.API {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	api := humachi.New(r, huma.DefaultConfig("Match Input API", "1.0.0"))
	setupMetrics(api, r)
	if o.jwt != nil {
		api.UseMiddleware(auth.Middleware(api, o.jwt))
	}

	handler.RegisterFieldTypes(api, &handler.FieldTypeHandler{Types: store.Types()})
	handler.RegisterFields(api, &handler.FieldHandler{Store: store})
	handler.RegisterPatterns(api, &handler.PatternHandler{})
	handler.RegisterRecords(api, &handler.RecordHandler{Validator: &record.Validator{Store: store}})
	return api
}
