// Package response provides constructors for handler.Response values: plain text,
// raw bytes, JSON, templ components and error propagation.
//
// A handler returns one of these and the router executes it:
//
//	func health(ctx handler.Context) handler.Response {
//		return response.JSON(map[string]any{"status": "healthy"})
//	}
//
//	func page(ctx handler.Context) handler.Response {
//		return response.Templ(views.Landing(title))
//	}
//
// # Errors
//
// Error wraps an error into a Response that writes nothing and hands the error
// to the router's error handler. HTTPError carries a status and a machine-readable
// code; the predefined values (ErrNotFound, ErrServiceUnavailable, ...) cover the
// statuses the service produces.
//
//	return response.Error(response.ErrServiceUnavailable.WithMessage("truths not loaded"))
//
// AsHTTPError normalizes any error for rendering. It honours an HTTPError in the
// chain, then a StatusCode() int method, and falls back to 500.
//
// # HEAD requests
//
// Body-writing constructors send headers and status for HEAD requests but skip
// the body.
package response
