// Package config holds the tunables of the rate pipeline: retry budget,
// per-attempt timeout, cache TTL and the location of the sources file.
//
// Values come from Default, optionally overlaid by a YAML file (LoadFile) and
// then by TAX_* environment variables (ApplyEnv). Validate runs last.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxRetries     = 3
	DefaultTimeout        = 10 * time.Second
	DefaultCacheTTL       = time.Hour
	DefaultInitialBackoff = 100 * time.Millisecond
	DefaultMaxBackoff     = 10 * time.Second
	DefaultUserAgent      = constants.ServiceName + "/1.0"
)

// Config is the constructor-time configuration of the fetcher and cache
type Config struct {
	// MaxRetries is the number of retries after the first attempt, per candidate URL.
	MaxRetries int `yaml:"max_retries"`
	// Timeout bounds a single HTTP attempt.
	Timeout        time.Duration `yaml:"timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	UserAgent      string        `yaml:"user_agent"`
	// SourcesFile optionally points at a YAML source mapping that replaces
	// the built-in one.
	SourcesFile string `yaml:"sources_file"`
}

// Default returns the documented defaults
func Default() Config {
	return Config{
		MaxRetries:     DefaultMaxRetries,
		Timeout:        DefaultTimeout,
		CacheTTL:       DefaultCacheTTL,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		UserAgent:      DefaultUserAgent,
	}
}

// FromEnv returns the defaults overlaid with TAX_* environment variables
func FromEnv() (Config, error) {
	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML document at path onto the defaults, then
// applies the environment
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, taxerrors.InvalidInput("load_config", "invalid config file %s: %v", path, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields whose variables are set according to lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(constants.MaxRetriesEnvVar); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return taxerrors.InvalidInput("config", "%s must be an integer, got %q", constants.MaxRetriesEnvVar, v)
		}
		c.MaxRetries = n
	}

	durations := []struct {
		name   string
		target *time.Duration
	}{
		{constants.FetchTimeoutEnvVar, &c.Timeout},
		{constants.CacheTTLEnvVar, &c.CacheTTL},
		{constants.InitialBackoffEnvVar, &c.InitialBackoff},
		{constants.MaxBackoffEnvVar, &c.MaxBackoff},
	}
	for _, d := range durations {
		v, ok := lookup(d.name)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return taxerrors.InvalidInput("config", "%s must be a duration, got %q", d.name, v)
		}
		*d.target = parsed
	}

	if v, ok := lookup(constants.UserAgentEnvVar); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup(constants.SourcesFileEnvVar); ok {
		c.SourcesFile = v
	}
	return nil
}

// Validate rejects values the pipeline cannot run with
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return taxerrors.InvalidInput("config", "max_retries must be >= 0, got %d", c.MaxRetries)
	case c.Timeout <= 0:
		return taxerrors.InvalidInput("config", "timeout must be positive, got %s", c.Timeout)
	case c.CacheTTL <= 0:
		return taxerrors.InvalidInput("config", "cache_ttl must be positive, got %s", c.CacheTTL)
	case c.InitialBackoff < 0:
		return taxerrors.InvalidInput("config", "initial_backoff must not be negative, got %s", c.InitialBackoff)
	case c.MaxBackoff < c.InitialBackoff:
		return taxerrors.InvalidInput("config", "max_backoff %s is below initial_backoff %s", c.MaxBackoff, c.InitialBackoff)
	}
	return nil
}
