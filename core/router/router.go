package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// Router dispatches requests to handlers by method and path pattern.
// Patterns are slash-separated segments; "{name}" captures one segment and
// a trailing "*" captures the rest of the path.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	// Method registers h for each of the listed methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Use appends router-level middleware. It panics once routes exist.
	Use(middlewares ...handler.Middleware[C])
	// With returns a view of the router whose routes get extra middleware.
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]

	// Routes lists every registered method and pattern.
	Routes() []Route
}

// Route is one registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

// Option configures a router at creation.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler replaces the handler for errors that escape middleware.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware is Use at construction time. Router-level middleware also
// wraps the 404 and 405 responses.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory builds C for each request. Required unless C is *Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) { m.newContext = f }
}

// WithLogger sets the logger for panics that happen after headers were sent.
func WithLogger[C handler.Context](l *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if l != nil {
			m.logger = l
		}
	}
}
