package middleware_test

import (
	"net/http"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/response"
	"github.com/dmitrymomot/truthapi/core/router"
)

func okHandler(body string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return response.String(body)
	}
}

func renderJSONError(ctx *router.Context, err error) handler.Response {
	he := response.AsHTTPError(err)
	return response.JSONWithStatus(map[string]string{"error": he.Code}, he.Status)
}

func failing(err error) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			return err
		}
	}
}
