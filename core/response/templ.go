package response

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// templComponent is satisfied by templ.Component.
type templComponent interface {
	Render(ctx context.Context, w io.Writer) error
}

// Templ creates an HTML response from a templ component with 200 OK status.
// The component is rendered with the request's context.
func Templ(component templComponent) handler.Response {
	return TemplWithStatus(component, http.StatusOK)
}

// TemplWithStatus creates an HTML response from a templ component with a custom status code.
func TemplWithStatus(component templComponent, status int) handler.Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		code := status
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)

		if err := component.Render(r.Context(), w); err != nil {
			return fmt.Errorf("templ component render error: %w", err)
		}
		return nil
	}
}
