package handler

import (
	"context"
	"net/http"
)

// Context is what every handler receives: the request's context.Context plus
// access to the request, the writer and path parameters. SetValue stores a
// value visible to later ctx.Value lookups in the same request.
type Context interface {
	context.Context

	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}
