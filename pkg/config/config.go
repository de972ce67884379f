// Package config loads mercury client configuration from YAML.
package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mercury-transport/mercury-go/pkg/connection"
)

// Config is the file form of the connection options.
type Config struct {
	// URL is the channel URL. Empty defers to the registrar.
	URL string `yaml:"url"`

	ForceCloseDelay  Duration `yaml:"forceCloseDelay"`
	PingInterval     Duration `yaml:"pingInterval"`
	PongTimeout      Duration `yaml:"pongTimeout"`
	BackoffTimeReset Duration `yaml:"backoffTimeReset"`
	BackoffTimeMax   Duration `yaml:"backoffTimeMax"`

	InitialConnectionMaxRetries int `yaml:"initialConnectionMaxRetries"`
	MaxRetries                  int `yaml:"maxRetries"`

	BeforeLogoutOptionsCloseReason string            `yaml:"beforeLogoutOptionsCloseReason"`
	DefaultMercuryOptions          map[string]string `yaml:"defaultMercuryOptions"`
	HighAvailability               bool              `yaml:"highAvailability"`
}

// Duration accepts a Go duration string ("2s") or an integer number of
// milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return v, nil
}

// ConnectionConfig converts c into connection options. Logger and
// EventLogger are left for the caller.
func (c *Config) ConnectionConfig() connection.Config {
	var opts map[string]string
	if len(c.DefaultMercuryOptions) > 0 {
		opts = make(map[string]string, len(c.DefaultMercuryOptions))
		for k, v := range c.DefaultMercuryOptions {
			opts[k] = v
		}
	}
	return connection.Config{
		ForceCloseDelay:                c.ForceCloseDelay.Std(),
		PingInterval:                   c.PingInterval.Std(),
		PongTimeout:                    c.PongTimeout.Std(),
		BackoffTimeReset:               c.BackoffTimeReset.Std(),
		BackoffTimeMax:                 c.BackoffTimeMax.Std(),
		InitialConnectionMaxRetries:    c.InitialConnectionMaxRetries,
		MaxRetries:                     c.MaxRetries,
		BeforeLogoutOptionsCloseReason: c.BeforeLogoutOptionsCloseReason,
		DefaultMercuryOptions:          opts,
		HighAvailability:               c.HighAvailability,
	}
}
