package middleware

import (
	"context"

	"github.com/dmitrymomot/truthapi/core/handler"
	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	// TrustProxyHeaders resolves the address from CF-Connecting-IP,
	// X-Forwarded-For and similar headers before RemoteAddr. Enable only
	// behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// ClientIP stores the client address in the context using RemoteAddr only.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return ClientIPWithConfig[C](ClientIPConfig{})
}

// ClientIPWithConfig is ClientIP with custom configuration.
func ClientIPWithConfig[C handler.Context](cfg ClientIPConfig) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			var ip string
			if cfg.TrustProxyHeaders {
				ip = clientip.GetIP(ctx.Request())
			} else {
				ip = clientip.RemoteHost(ctx.Request())
			}
			ctx.SetValue(clientIPContextKey{}, ip)
			LogAttrs(ctx, logger.ClientIP(ip))
			return next(ctx)
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok && ip != ""
}
