package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// mux is the private implementation of Router interface.
type mux[C handler.Context] struct {
	tree         *node[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	inline       bool
	hasRoutes    bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		tree:         &node[C]{},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context can be built without a factory
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
// Unmatched requests still run through the router-level middleware, so
// request ids, logging and response headers apply to 404 and 405 as well.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := &trackingWriter{ResponseWriter: w}

	// Use RawPath if available to preserve URL encoding
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	var (
		fn     handler.HandlerFunc[C]
		params map[string]string
	)

	method, ok := methodMap[r.Method]
	if !ok {
		fn = errorEndpoint[C](ErrMethodNotAllowed, nil)
	} else {
		var eps endpoints[C]
		eps, fn, params = m.tree.findRoute(method, path)
		if fn == nil {
			if allowed := eps.allowed(); len(allowed) > 0 {
				fn = errorEndpoint[C](ErrMethodNotAllowed, allowed)
			} else {
				fn = errorEndpoint[C](ErrNotFound, nil)
			}
		}
	}

	ctx := m.newContext(ww, r, params)

	// Recover from panics to prevent server crashes
	defer func() {
		if p := recover(); p != nil {
			pe := NewPanicError(p, debug.Stack())
			if ww.status != 0 {
				m.logger.Error("panic after response written",
					"value", pe.Value,
					"stack", string(pe.Stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.status,
				)
				return
			}
			m.errorHandler(ctx, pe)
		}
	}()

	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, ctx.Request()); err != nil {
		m.errorHandler(ctx, err)
	}
}

// errorEndpoint produces a handler whose response fails with err.
// For 405 it sets the Allow header per RFC 9110.
func errorEndpoint[C handler.Context](err error, allowed []string) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			if len(allowed) > 0 {
				w.Header().Set("Allow", strings.Join(allowed, ", "))
			}
			return err
		}
	}
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mGET, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mPOST, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(mHEAD, pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	var mt methodTyp
	for _, method := range methods {
		t, ok := methodMap[strings.ToUpper(method)]
		if !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		mt |= t
	}
	m.handle(mt, pattern, h)
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.hasRoutes {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	// Only the additional middlewares are stored; they are chained at registration time
	return &mux[C]{
		inline:       true,
		parent:       m,
		tree:         m.tree,
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	return m.tree.routes()
}

// root returns the non-inline mux that owns the tree.
func (m *mux[C]) root() *mux[C] {
	curr := m
	for curr.inline && curr.parent != nil {
		curr = curr.parent
	}
	return curr
}

func (m *mux[C]) handle(method methodTyp, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	m.root().hasRoutes = true

	h := fn
	if m.inline {
		// Collect middlewares from the chain of inline parents, outermost first
		var all []handler.Middleware[C]
		for curr := m; curr != nil && curr.inline; curr = curr.parent {
			if len(curr.middlewares) > 0 {
				all = append(append([]handler.Middleware[C]{}, curr.middlewares...), all...)
			}
		}
		if len(all) > 0 {
			h = chain(all, fn)
		}
	}

	m.tree.insertRoute(method, pattern, h)
}
