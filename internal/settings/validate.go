package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/truthapi/core/logger"
	"github.com/dmitrymomot/truthapi/pkg/ratelimiter"
	"github.com/dmitrymomot/truthapi/pkg/selection"
)

// Validate checks every section and reports all problems at once, wrapped in
// ErrInvalid.
func (s *Settings) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(s.App.Name) == "" {
		add("app.name is required")
	}

	for name, p := range map[string]string{
		"root":   s.API.Endpoints.Root,
		"truth":  s.API.Endpoints.Truth,
		"health": s.API.Endpoints.Health,
	} {
		if !strings.HasPrefix(p, "/") {
			add("api.endpoints.%s must start with '/', got %q", name, p)
		}
	}
	if s.API.ContentNegotiation.PlainTextAccept == "" {
		add("api.content_negotiation.plain_text_accept is required")
	}
	if s.API.AdminReloadIntervalSeconds < 0 {
		add("api.admin_reload_interval_seconds must not be negative")
	}

	switch s.Truths.Source {
	case SourceFile:
		if s.Truths.Path == "" {
			add("truths.path is required for the file source")
		}
	case SourceRedis:
		if s.Truths.RedisKey == "" {
			add("truths.redis_key is required for the redis source")
		}
	default:
		add("truths.source must be %q or %q, got %q", SourceFile, SourceRedis, s.Truths.Source)
	}
	if s.Truths.Validation.MinCount < 0 {
		add("truths.validation.min_count must not be negative")
	}

	if table, err := s.WeightTable(); err != nil {
		errs = append(errs, err)
	} else if err := table.Validate(s.Truths.Validation.AllowedWeights); err != nil {
		errs = append(errs, fmt.Errorf("selection.day_weight_table: %w", err))
	}

	if _, err := s.LimiterConfig(); err != nil {
		errs = append(errs, fmt.Errorf("rate_limit: %w", err))
	}
	if _, err := s.KeyStrategy(); err != nil {
		errs = append(errs, fmt.Errorf("rate_limit.key_strategy: %w", err))
	}
	for _, route := range s.RateLimit.ExemptRoutes {
		if !strings.HasPrefix(route, "/") {
			add("rate_limit.exempt_routes: %q must start with '/'", route)
		}
	}
	if s.RateLimit.CleanupIntervalSeconds < 0 {
		add("rate_limit.cleanup_interval_seconds must not be negative")
	}

	for key := range s.Headers.Security {
		if strings.TrimSpace(key) == "" {
			add("headers.security contains an empty header name")
		}
	}

	errs = append(errs, s.Errors.validate()...)

	if s.CORS.MaxAgeSeconds < 0 {
		add("cors.max_age_seconds must not be negative")
	}

	if _, err := logger.ParseLevel(s.Observability.Logging.Level); err != nil {
		add("observability.logging.level: %v", err)
	}
	switch s.Observability.Logging.Format {
	case "text", "json":
	default:
		add("observability.logging.format must be text or json, got %q", s.Observability.Logging.Format)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (e Errors) validate() []error {
	var errs []error

	names := map[string]string{
		"error":               e.FieldNames.Error,
		"message":             e.FieldNames.Message,
		"request_id":          e.FieldNames.RequestID,
		"retry_after_seconds": e.FieldNames.RetryAfterSeconds,
	}
	seen := make(map[string]string, len(names))
	for field, name := range names {
		if name == "" {
			errs = append(errs, fmt.Errorf("errors.field_names.%s must not be empty", field))
			continue
		}
		if other, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("errors.field_names: %s and %s both map to %q", field, other, name))
		}
		seen[name] = field
	}

	statuses := map[string]int{
		"rate_limited":       e.StatusMappings.RateLimited,
		"not_found":          e.StatusMappings.NotFound,
		"no_candidates":      e.StatusMappings.NoCandidates,
		"method_not_allowed": e.StatusMappings.MethodNotAllowed,
		"not_acceptable":     e.StatusMappings.NotAcceptable,
		"reload_throttled":   e.StatusMappings.ReloadThrottled,
		"internal":           e.StatusMappings.Internal,
	}
	for kind, status := range statuses {
		if status < 400 || status > 599 {
			errs = append(errs, fmt.Errorf("errors.status_mappings.%s must be a 4xx or 5xx status, got %d", kind, status))
		}
	}
	return errs
}

// WeightTable converts selection.day_weight_table into a selection.WeightTable.
func (s *Settings) WeightTable() (selection.WeightTable, error) {
	if len(s.Selection.DayWeightTable) == 0 {
		return nil, fmt.Errorf("selection.day_weight_table is required")
	}
	table := make(selection.WeightTable, len(s.Selection.DayWeightTable))
	for name, weights := range s.Selection.DayWeightTable {
		day, err := selection.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("selection.day_weight_table: %w", err)
		}
		if _, dup := table[day]; dup {
			return nil, fmt.Errorf("selection.day_weight_table: %s listed twice", day)
		}
		table[day] = weights
	}
	return table, nil
}

// LimiterConfig returns the sliding window parameters.
func (s *Settings) LimiterConfig() (ratelimiter.Config, error) {
	cfg := ratelimiter.Config{
		Limit:  s.RateLimit.RequestsPerPeriod,
		Period: time.Duration(s.RateLimit.PeriodSeconds) * time.Second,
	}
	return cfg, cfg.Validate()
}

// KeyStrategy parses rate_limit.key_strategy.
func (s *Settings) KeyStrategy() (ratelimiter.KeyStrategy, error) {
	return ratelimiter.ParseKeyStrategy(s.RateLimit.KeyStrategy)
}

// ReloadInterval is the minimum time between two truth reloads.
func (s *Settings) ReloadInterval() time.Duration {
	return time.Duration(s.API.AdminReloadIntervalSeconds) * time.Second
}

// CleanupInterval is how often idle rate-limit windows are evicted.
func (s *Settings) CleanupInterval() time.Duration {
	return time.Duration(s.RateLimit.CleanupIntervalSeconds) * time.Second
}
