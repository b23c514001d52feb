// Package settings loads the service's domain configuration from a YAML file.
//
// The file is decoded over Defaults with unknown keys rejected, then validated
// as a whole so that a single startup error lists every problem:
//
//	s, err := settings.Load("configs/settings.yaml")
//	if err != nil {
//		return err // errors.Is(err, settings.ErrInvalid) for semantic problems
//	}
//	table, _ := s.WeightTable()
//	limits, _ := s.LimiterConfig()
//
// Process-level settings such as the listen address come from the
// environment through core/config instead.
package settings
