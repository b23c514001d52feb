package response

import (
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
)

// Error returns a response that propagates err to the router's error handler
// without writing anything.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
