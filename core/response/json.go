package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status code.
// The value is encoded directly to the writer.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		code := status
		if code == 0 {
			if v == nil {
				code = http.StatusNoContent
			} else {
				code = http.StatusOK
			}
		}
		w.WriteHeader(code)

		// No body for 204 and 304
		switch code {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		if r.Method == http.MethodHead {
			return nil
		}

		return json.NewEncoder(w).Encode(v)
	}
}
