// Package api exposes the truth service over HTTP.
//
// Service assembles the request pipeline (request id, logging, response
// headers, error boundary, CORS, client address and rate limiting) in front
// of the handlers:
//
//	GET  /                 landing page
//	GET  /truth            weighted random truth (JSON, text/plain or HTML)
//	GET  /truth/{id}       a specific truth
//	GET  /truth/{id}/qr    PNG QR code linking to the truth
//	GET  /health           status, version and collection size
//	GET  /health/live      liveness probe
//	GET  /health/ready     readiness probe
//	GET  /categories       distinct categories
//	GET  /stats            collection and serving counters
//	POST /admin/reload     reload the collection (when enabled)
//
// The truth and health paths come from settings. Every error, including
// rate-limit rejections, unknown routes and recovered panics, is rendered as
// the JSON error payload whose field names and status codes are configured in
// the errors section of the settings file.
package api
