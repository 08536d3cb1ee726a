package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/objectstack/portal/pkg/transport"
	"github.com/objectstack/portal/pkg/wire"
)

// Config holds all settings a portal process needs for remote dispatch.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// Format is the outbound serialization format: "ordinal" or "named",
	// case-insensitive. Empty or unrecognized values resolve to ordinal.
	// Each message still carries its own format tag, so peers with
	// different settings interoperate.
	Format string `env:"PORTAL_FORMAT" json:"format" yaml:"format"`
	// Transport names the registered transport used for remote operations.
	// Default: grpc.
	Transport string `env:"PORTAL_TRANSPORT" json:"transport" yaml:"transport"`
	// Addr is the endpoint to dial (proxy side) or bind (handler side).
	// Required.
	Addr string `env:"PORTAL_ADDR" json:"addr" yaml:"addr"`
	// Debug enables verbose logging.
	Debug bool `env:"PORTAL_DEBUG" json:"debug" yaml:"debug"`
	// Timeouts configures per-operation deadlines. See Timeouts.WithDefaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Timeouts controls dispatch deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial     time.Duration `env:"PORTAL_DIAL_TIMEOUT" json:"dial" yaml:"dial"`
	Call     time.Duration `env:"PORTAL_CALL_TIMEOUT" json:"call" yaml:"call"`
	Shutdown time.Duration `env:"PORTAL_SHUTDOWN_TIMEOUT" json:"shutdown" yaml:"shutdown"`
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration by applying implicit defaults for
// Transport and verifies that Addr is provided. The Format field is left
// as-is; WireFormat resolves it leniently.
func (c *Config) Validate() error {

	if c.Transport == "" {
		c.Transport = transport.NameGRPC
	}

	if c.Addr == "" {
		return errors.New("portal address is required")
	}

	return nil
}

// WireFormat resolves the configured serialization format. Unrecognized or
// empty input resolves to ordinal.
func (c *Config) WireFormat() wire.Format {
	return wire.ParseFormat(c.Format)
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:     5s
//	Call:     30s
//	Shutdown: 10s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.Call == 0 {
		tt.Call = 30 * time.Second
	}
	if tt.Shutdown == 0 {
		tt.Shutdown = 10 * time.Second
	}
	return tt
}
