package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("url scheme must be ws or wss, got %q", u.Scheme)
		}
	}

	for _, d := range []struct {
		name string
		v    Duration
	}{
		{"forceCloseDelay", c.ForceCloseDelay},
		{"pingInterval", c.PingInterval},
		{"pongTimeout", c.PongTimeout},
		{"backoffTimeReset", c.BackoffTimeReset},
		{"backoffTimeMax", c.BackoffTimeMax},
	} {
		if d.v <= 0 {
			return fmt.Errorf("%s must be > 0", d.name)
		}
	}

	if c.BackoffTimeMax < c.BackoffTimeReset {
		return fmt.Errorf("backoffTimeMax (%s) cannot be below backoffTimeReset (%s)",
			c.BackoffTimeMax.Std(), c.BackoffTimeReset.Std())
	}
	if c.PongTimeout >= c.PingInterval {
		return errors.New("pongTimeout must be shorter than pingInterval")
	}
	if c.InitialConnectionMaxRetries < 0 {
		return errors.New("initialConnectionMaxRetries must be >= 0")
	}
	if c.MaxRetries < 0 {
		return errors.New("maxRetries must be >= 0")
	}
	return nil
}
