package api

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/truthapi/core/router"
	"github.com/dmitrymomot/truthapi/middleware"
)

// Context is the request context used by every handler of the service.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// RequestID returns the id assigned by the RequestID middleware.
func (c *Context) RequestID() string {
	id, _ := middleware.GetRequestID(c)
	return id
}

// Accepts reports whether the Accept header mentions mediaType. An empty
// mediaType never matches.
func (c *Context) Accepts(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	return strings.Contains(c.Request().Header.Get("Accept"), mediaType)
}
