// Package config provides YAML configuration file loading and validation.
// It handles environment variable expansion, environment overrides and default
// values, and ensures all required configuration fields are present.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Providers []Provider `yaml:"providers"` // RPC endpoints
	Defaults  Defaults   `yaml:"defaults"`  // Settings shared by all providers
}

// Provider is a single JSON-RPC endpoint.
type Provider struct {
	Name    string        `yaml:"name"`              // Provider identifier (e.g. "local", "infura")
	URL     string        `yaml:"url"`               // Endpoint URL (supports ${VAR} env expansion)
	Timeout time.Duration `yaml:"timeout,omitempty"` // Per-provider timeout, Defaults.Timeout if unset
}

// Defaults apply to every provider unless overridden at the provider level.
type Defaults struct {
	Timeout        time.Duration `yaml:"timeout"`         // HTTP request timeout (e.g. "10s")
	MaxRetries     int           `yaml:"max_retries"`     // Retry attempts after the first (0 = no retries)
	BackoffInitial time.Duration `yaml:"backoff_initial"` // Wait after the first failure, doubled each retry
	BackoffMax     time.Duration `yaml:"backoff_max"`     // Upper bound on a single wait (0 = unbounded)
	Provider       string        `yaml:"provider"`        // Provider used when --provider is not given
}

// Overrides are read from the environment and win over the file.
type Overrides struct {
	Timeout    time.Duration `env:"ETHRPC_TIMEOUT"`
	MaxRetries *int          `env:"ETHRPC_MAX_RETRIES,noinit"`
	Provider   string        `env:"ETHRPC_PROVIDER"`
}

// Validate checks required fields and applies per-provider defaults.
func (c *Config) Validate() error {
	if c.Defaults.Timeout <= 0 {
		return fmt.Errorf("defaults.timeout is required")
	}
	if c.Defaults.MaxRetries < 0 {
		return fmt.Errorf("defaults.max_retries must be >= 0")
	}
	if c.Defaults.BackoffInitial < 0 || c.Defaults.BackoffMax < 0 {
		return fmt.Errorf("defaults.backoff_initial and defaults.backoff_max must be >= 0")
	}
	if c.Defaults.BackoffMax > 0 && c.Defaults.BackoffInitial > c.Defaults.BackoffMax {
		return fmt.Errorf("defaults.backoff_initial (%s) exceeds defaults.backoff_max (%s)", c.Defaults.BackoffInitial, c.Defaults.BackoffMax)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			return fmt.Errorf("provider #%d: name is required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %s: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if p.Timeout == 0 {
			p.Timeout = c.Defaults.Timeout
		}
		if p.URL == "" {
			return fmt.Errorf("provider %s: url is required", p.Name)
		}
		u, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("provider %s: invalid url: %w", p.Name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("provider %s: invalid url (missing scheme or host)", p.Name)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("provider %s: invalid url scheme %q (expected http or https)", p.Name, u.Scheme)
		}
	}

	if c.Defaults.Provider != "" && !seen[c.Defaults.Provider] {
		return fmt.Errorf("defaults.provider %q is not a configured provider", c.Defaults.Provider)
	}
	return nil
}

// Apply merges environment overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.Timeout > 0 {
		c.Defaults.Timeout = o.Timeout
		for i := range c.Providers {
			c.Providers[i].Timeout = o.Timeout
		}
	}
	if o.MaxRetries != nil {
		c.Defaults.MaxRetries = *o.MaxRetries
	}
	if o.Provider != "" {
		c.Defaults.Provider = o.Provider
	}
}

// Provider returns the named provider, or the default one when name is empty. With
// neither set, the first configured provider is used.
func (c *Config) Provider(name string) (Provider, error) {
	if name == "" {
		name = c.Defaults.Provider
	}
	if name == "" {
		return c.Providers[0], nil
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("provider %q not found in config", name)
}

// Load reads a YAML configuration file, expands ${VAR} references, applies
// ETHRPC_* environment overrides and validates the result.
//
// Parameters:
//   - path: file path to the YAML configuration file
//
// Returns:
//   - *Config: parsed configuration with per-provider defaults filled in
//   - error: file read, parse, environment or validation error
//
// Environment variable expansion:
//
//	URLs can use ${VAR} syntax, expanded with os.ExpandEnv before parsing.
//	Example: url: ${ALCHEMY_URL}
//
// Overrides (ETHRPC_TIMEOUT, ETHRPC_MAX_RETRIES, ETHRPC_PROVIDER) win over the file
// and are applied before validation, so an override can fix an invalid file value.
func Load(path string) (*Config, error) {
	return LoadWith(context.Background(), path, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit source for the environment overrides.
func LoadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Allows url: ${INFURA_URL}
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var o Overrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &o, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.Apply(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
