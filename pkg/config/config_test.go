package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mercury.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
url: wss://mercury.example.com/v1/events
forceCloseDelay: 3s
pingInterval: 20000
pongTimeout: 10s
backoffTimeReset: 500ms
backoffTimeMax: 1m
initialConnectionMaxRetries: 2
maxRetries: 5
beforeLogoutOptionsCloseReason: signing-out
highAvailability: true
defaultMercuryOptions:
  mercury-registration-status: "true"
`
	cfg, err := Load(writeTempFile(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "wss://mercury.example.com/v1/events", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.ForceCloseDelay.Std())
	assert.Equal(t, 20*time.Second, cfg.PingInterval.Std())
	assert.Equal(t, 10*time.Second, cfg.PongTimeout.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.BackoffTimeReset.Std())
	assert.Equal(t, time.Minute, cfg.BackoffTimeMax.Std())
	assert.Equal(t, 2, cfg.InitialConnectionMaxRetries)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, "signing-out", cfg.BeforeLogoutOptionsCloseReason)
	assert.True(t, cfg.HighAvailability)
	assert.Equal(t, map[string]string{"mercury-registration-status": "true"}, cfg.DefaultMercuryOptions)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_MERCURY_HOST", "mercury-b.example.com")

	cfg, err := Load(writeTempFile(t, "url: wss://${TEST_MERCURY_HOST}/v1/events\n"))
	require.NoError(t, err)
	assert.Equal(t, "wss://mercury-b.example.com/v1/events", cfg.URL)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(writeTempFile(t, "pingInterval: soon\n"))
	assert.ErrorContains(t, err, `invalid duration "soon"`)

	_, err = Load(writeTempFile(t, "url: [unterminated\n"))
	assert.ErrorContains(t, err, "parse config yaml")
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, "maxRetries: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultForceCloseDelay, cfg.ForceCloseDelay.Std())
	assert.Equal(t, DefaultPingInterval, cfg.PingInterval.Std())
	assert.Equal(t, DefaultPongTimeout, cfg.PongTimeout.Std())
	assert.Equal(t, DefaultBackoffTimeReset, cfg.BackoffTimeReset.Std())
	assert.Equal(t, DefaultBackoffTimeMax, cfg.BackoffTimeMax.Std())
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Zero(t, cfg.InitialConnectionMaxRetries)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBackoffTimeMax, "8s")
	t.Setenv(EnvBackoffTimeReset, "250")
	t.Setenv(EnvForceCloseDelay, "100ms")

	cfg, err := LoadWithDefaults(writeTempFile(t, "backoffTimeMax: 1m\n"))
	require.NoError(t, err)

	assert.Equal(t, 8*time.Second, cfg.BackoffTimeMax.Std())
	assert.Equal(t, 250*time.Millisecond, cfg.BackoffTimeReset.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.ForceCloseDelay.Std())
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvForceCloseDelay, "later")

	_, err := LoadWithDefaults(writeTempFile(t, "maxRetries: 1\n"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), EnvForceCloseDelay))
}

func TestLoadAndValidateWithoutFile(t *testing.T) {
	cfg, err := LoadAndValidate("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPingInterval, cfg.PingInterval.Std())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"ws url", func(c *Config) { c.URL = "ws://localhost:8080/events" }, ""},
		{"http url", func(c *Config) { c.URL = "https://mercury.example.com" }, `url scheme must be ws or wss, got "https"`},
		{"zero ping interval", func(c *Config) { c.PingInterval = 0 }, "pingInterval must be > 0"},
		{"negative force close", func(c *Config) { c.ForceCloseDelay = Duration(-time.Second) }, "forceCloseDelay must be > 0"},
		{"max below reset", func(c *Config) { c.BackoffTimeMax = Duration(500 * time.Millisecond) }, "backoffTimeMax (500ms) cannot be below backoffTimeReset (1s)"},
		{"pong not shorter than ping", func(c *Config) { c.PongTimeout = c.PingInterval }, "pongTimeout must be shorter than pingInterval"},
		{"negative max retries", func(c *Config) { c.MaxRetries = -1 }, "maxRetries must be >= 0"},
		{"negative initial retries", func(c *Config) { c.InitialConnectionMaxRetries = -1 }, "initialConnectionMaxRetries must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoadAndValidateRejects(t *testing.T) {
	_, err := LoadAndValidate(writeTempFile(t, "maxRetries: -2\n"))
	assert.EqualError(t, err, "validate config: maxRetries must be >= 0")
}

func TestConnectionConfig(t *testing.T) {
	cfg := Default()
	cfg.MaxRetries = 4
	cfg.InitialConnectionMaxRetries = 2
	cfg.BeforeLogoutOptionsCloseReason = "bye"
	cfg.HighAvailability = true
	cfg.DefaultMercuryOptions = map[string]string{"k": "v"}

	cc := cfg.ConnectionConfig()
	assert.Equal(t, DefaultForceCloseDelay, cc.ForceCloseDelay)
	assert.Equal(t, DefaultPingInterval, cc.PingInterval)
	assert.Equal(t, DefaultPongTimeout, cc.PongTimeout)
	assert.Equal(t, DefaultBackoffTimeReset, cc.BackoffTimeReset)
	assert.Equal(t, DefaultBackoffTimeMax, cc.BackoffTimeMax)
	assert.Equal(t, 4, cc.MaxRetries)
	assert.Equal(t, 2, cc.InitialConnectionMaxRetries)
	assert.Equal(t, "bye", cc.BeforeLogoutOptionsCloseReason)
	assert.True(t, cc.HighAvailability)

	// The map is copied.
	cc.DefaultMercuryOptions["k"] = "changed"
	assert.Equal(t, "v", cfg.DefaultMercuryOptions["k"])
}

func TestDurationMarshal(t *testing.T) {
	v, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v)
}
