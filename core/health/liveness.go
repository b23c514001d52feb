package health

import (
	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/response"
)

// Liveness reports that the process is serving requests. It never checks
// dependencies.
//
//	r.Get("/health/live", health.Liveness[*api.Context])
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}
