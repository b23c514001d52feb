package response

import (
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// Render executes resp against the context's writer and request.
func Render(ctx handler.Context, resp handler.Response) error {
	if resp == nil {
		return nil
	}
	return resp(ctx.ResponseWriter(), ctx.Request())
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return BytesWithStatus([]byte(content), "text/plain; charset=utf-8", status)
}

// Bytes creates a response with custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with custom content type and status code.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		code := status
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		if len(content) == 0 || r.Method == http.MethodHead {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		status := code
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		return nil
	}
}
