package handler

import "net/http"

// Response is produced by a handler and run by the router against the
// writer. Returning an error instead of writing lets outer middleware or the
// router's ErrorHandler render it.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc maps a request context to its Response.
type HandlerFunc[C Context] func(ctx C) Response

// Middleware decorates a HandlerFunc.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// ErrorHandler is the router's last resort for errors no middleware handled.
type ErrorHandler[C Context] func(ctx C, err error)
