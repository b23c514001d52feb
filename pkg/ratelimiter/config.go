package ratelimiter

import (
	"fmt"
	"strings"
	"time"
)

// Config defines a sliding window: at most Limit admissions within any Period.
type Config struct {
	Limit  int
	Period time.Duration
}

// Validate reports ErrInvalidConfig for a non-positive limit or period.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %s", ErrInvalidConfig, c.Period)
	}
	return nil
}

// KeyStrategy selects how a request is mapped to a rate-limit key.
type KeyStrategy string

const (
	// KeyRemoteAddress keys by the client's network address.
	KeyRemoteAddress KeyStrategy = "remote_address"
	// KeyGlobal puts every client in one shared window.
	KeyGlobal KeyStrategy = "default"
)

// GlobalKey is the single key used by KeyGlobal.
const GlobalKey = "global"

// UnknownClientKey is used when the client address cannot be determined.
const UnknownClientKey = "unknown"

// ParseKeyStrategy parses a strategy name. Matching ignores case and surrounding spaces.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	switch KeyStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case KeyRemoteAddress:
		return KeyRemoteAddress, nil
	case KeyGlobal:
		return KeyGlobal, nil
	}
	return "", fmt.Errorf("%w: unknown key strategy %q", ErrInvalidConfig, s)
}

// Key derives the rate-limit key for a client address under this strategy.
// An empty address maps to UnknownClientKey.
func (s KeyStrategy) Key(clientAddr string) string {
	if s == KeyGlobal {
		return GlobalKey
	}
	if clientAddr == "" {
		return UnknownClientKey
	}
	return clientAddr
}
