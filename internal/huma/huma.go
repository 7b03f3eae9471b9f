package huma

import (
	"context"
	"net/http"

	base "github.com/danielgtaylor/huma/v2"
)

type (
	API         = base.API
	Operation   = base.Operation
	StatusError = base.StatusError
	ErrorDetail = base.ErrorDetail
	ErrorModel  = base.ErrorModel
)

// Register wraps huma.Register to expose through this package.
func Register[I, O any](api API, op Operation, handler func(context.Context, *I) (*O, error)) {
	base.Register[I, O](api, op, handler)
}

// Error422 returns a 422 status error with field location information.
func Error422(field, msg string, value any) StatusError {
	return base.NewError(http.StatusUnprocessableEntity, msg, &ErrorDetail{Location: field, Message: msg, Value: value})
}

// Error422Details returns a 422 status error carrying one detail per field.
func Error422Details(msg string, details []*ErrorDetail) StatusError {
	errs := make([]error, len(details))
	for i, d := range details {
		errs[i] = d
	}
	return base.NewError(http.StatusUnprocessableEntity, msg, errs...)
}
