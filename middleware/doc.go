// Package middleware provides the request pipeline layers used by the HTTP
// service: request ids, client address resolution, structured request
// logging, response headers, CORS, error rendering and sliding window rate
// limiting.
//
// Every middleware is generic over handler.Context and follows the same
// shape: a plain constructor with defaults and a WithConfig variant. Values
// extracted from the request are stored with ctx.SetValue and read back with
// the Get helpers (GetRequestID, GetClientIP).
//
// # Ordering
//
// Middleware registered first wraps everything registered after it. The
// service assembles the pipeline outermost first:
//
//	r := router.New[*Context](
//		router.WithMiddleware(
//			middleware.RequestID[*Context](),
//			middleware.Logging[*Context](log),
//			middleware.ResponseHeaders[*Context](headers),
//			middleware.Boundary[*Context](renderError),
//			middleware.CORSWithConfig[*Context](cors),
//			middleware.ClientIPWithConfig[*Context](clientIP),
//			middleware.RateLimit[*Context](limits),
//		),
//	)
//
// Boundary turns errors returned by inner layers, including
// *ratelimiter.ExceededError and router.ErrNotFound, into rendered
// responses. Because it sits inside ResponseHeaders and Logging, error
// payloads carry the same headers as successful responses and the request
// log records the final status code.
//
// # Request log
//
// Logging emits exactly one record per request after the response is
// written. Inner layers and handlers attach fields to that record with
// LogAttrs:
//
//	middleware.LogAttrs(ctx, logger.TruthID(t.ID), logger.Weekday(day))
package middleware
