// Package handler defines the request processing contracts shared by the router,
// the middleware and the application handlers.
//
// A handler does not write to the connection directly. It returns a Response,
// a deferred rendering function, which lets middleware decorate the output
// (headers, logging, error conversion) after the handler has made its decision:
//
//	func hello(ctx *router.Context) handler.Response {
//		return response.String("hello, " + ctx.Param("name"))
//	}
//
// Middleware composes over HandlerFunc and usually wraps the returned Response:
//
//	func Stamp[C handler.Context]() handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				resp := next(ctx)
//				return func(w http.ResponseWriter, r *http.Request) error {
//					w.Header().Set("X-Stamp", "1")
//					return resp(w, r)
//				}
//			}
//		}
//	}
package handler
