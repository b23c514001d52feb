// Package health provides liveness and readiness handlers.
//
// Liveness always answers 200 "ALIVE". Readiness runs named dependency
// probes with a per-probe timeout and answers 200 "READY" or fails with
// response.ErrServiceUnavailable naming the failing dependency:
//
//	r.Get("/health/live", health.Liveness[*api.Context])
//	r.Get("/health/ready", health.Readiness[*api.Context](log,
//		health.Check{Name: "truths", Probe: store.Healthcheck},
//	))
package health
