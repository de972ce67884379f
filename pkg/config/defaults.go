package config

import (
	"fmt"
	"os"

	"github.com/mercury-transport/mercury-go/pkg/connection"
	"github.com/mercury-transport/mercury-go/pkg/socket"
)

// Default values for optional configuration fields.
const (
	DefaultForceCloseDelay  = socket.DefaultForceCloseDelay
	DefaultPingInterval     = socket.DefaultPingInterval
	DefaultPongTimeout      = socket.DefaultPongTimeout
	DefaultBackoffTimeReset = connection.InitialBackoff
	DefaultBackoffTimeMax   = connection.MaxBackoff
)

// Environment overrides.
const (
	EnvBackoffTimeMax   = "MERCURY_BACKOFF_TIME_MAX"
	EnvBackoffTimeReset = "MERCURY_BACKOFF_TIME_RESET"
	EnvForceCloseDelay  = "MERCURY_FORCE_CLOSE_DELAY"
)

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ForceCloseDelay == 0 {
		c.ForceCloseDelay = Duration(DefaultForceCloseDelay)
	}
	if c.PingInterval == 0 {
		c.PingInterval = Duration(DefaultPingInterval)
	}
	if c.PongTimeout == 0 {
		c.PongTimeout = Duration(DefaultPongTimeout)
	}
	if c.BackoffTimeReset == 0 {
		c.BackoffTimeReset = Duration(DefaultBackoffTimeReset)
	}
	if c.BackoffTimeMax == 0 {
		c.BackoffTimeMax = Duration(DefaultBackoffTimeMax)
	}
}

// applyEnv overrides fields from MERCURY_* variables.
func (c *Config) applyEnv() error {
	for _, o := range []struct {
		name string
		dst  *Duration
	}{
		{EnvBackoffTimeMax, &c.BackoffTimeMax},
		{EnvBackoffTimeReset, &c.BackoffTimeReset},
		{EnvForceCloseDelay, &c.ForceCloseDelay},
	} {
		v, ok := os.LookupEnv(o.name)
		if !ok || v == "" {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
		*o.dst = Duration(d)
	}
	return nil
}
