package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/router"
)

// ErrorRenderer turns an error into the response sent to the client.
type ErrorRenderer[C handler.Context] func(ctx C, err error) handler.Response

// Boundary converts errors and panics from inner layers into rendered
// responses. Place it inside Logging and ResponseHeaders so those layers see
// the final status code and decorate error payloads the same way as
// successful ones.
//
// Errors raised after the inner response has started writing cannot be
// rendered and are returned unchanged for the router's error handler to log.
func Boundary[C handler.Context](render ErrorRenderer[C]) handler.Middleware[C] {
	if render == nil {
		panic("boundary middleware: renderer is required")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) (resp handler.Response) {
			defer func() {
				if p := recover(); p != nil {
					resp = render(ctx, router.NewPanicError(p, debug.Stack()))
				}
			}()

			inner := next(ctx)
			if inner == nil {
				return render(ctx, router.ErrNilResponse)
			}

			return func(w http.ResponseWriter, r *http.Request) (err error) {
				defer func() {
					if p := recover(); p != nil {
						err = recoverInto(ctx, render, router.NewPanicError(p, debug.Stack()), w, r)
					}
				}()

				if err := inner(w, r); err != nil {
					return recoverInto(ctx, render, err, w, r)
				}
				return nil
			}
		}
	}
}

// recoverInto renders err into w unless headers were already sent.
func recoverInto[C handler.Context](ctx C, render ErrorRenderer[C], err error, w http.ResponseWriter, r *http.Request) error {
	if router.Written(w) {
		return err
	}
	resp := render(ctx, err)
	if resp == nil {
		return err
	}
	return resp(w, r)
}
