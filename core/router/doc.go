// Package router provides a generic HTTP router built on a path-segment tree,
// with typed handler contexts, middleware chaining and panic recovery.
//
// # Basic Usage
//
//	r := router.New[*router.Context]()
//
//	r.Get("/truth", randomTruth)
//	r.Get("/truth/{id}", truthByID)
//	r.Post("/admin/reload", reload)
//
//	http.ListenAndServe(":8080", r)
//
// # Path Parameters
//
// Segments written as {name} capture a single path segment; a trailing "*"
// captures the remainder of the path. Static segments win over parameters,
// parameters win over the catch-all.
//
//	r.Get("/truth/{id}/qr", func(ctx *router.Context) handler.Response {
//		id := ctx.Param("id")
//		...
//	})
//
// # Middleware
//
// Router-level middleware registered with Use or WithMiddleware runs for every
// request, including requests that match no route (404) or a route with a
// different method (405). The first middleware registered is the outermost.
// With and Group attach extra middleware to a subset of routes.
//
//	r.Use(requestID, logging)
//	r.With(adminOnly).Post("/admin/reload", reload)
//
// # Error Handling
//
// A response function that returns an error is passed to the router's error
// handler, as is any recovered panic (wrapped in PanicError). The default
// handler writes a plain-text body with the status taken from the error's
// StatusCode method, or 500.
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(func(ctx *router.Context, err error) {
//			...
//		}),
//	)
//
// # Custom Contexts
//
// Applications can use their own context type by providing a factory:
//
//	r := router.New[*AppContext](
//		router.WithContextFactory(func(w http.ResponseWriter, r *http.Request, params map[string]string) *AppContext {
//			return &AppContext{Context: router.NewContext(w, r, params)}
//		}),
//	)
package router
