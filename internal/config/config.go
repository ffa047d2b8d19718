// Package config loads service configuration from an optional YAML file with
// environment-variable overrides. Environment always wins over the file.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderVersion is reported when the VERSION variable is unset.
const PlaceholderVersion = "???"

// Config holds the runtime configuration of the alignment service.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Delay is the artificial processing delay in seconds applied by the
	// /long endpoint and advertised in Retry-Later headers of /delayed.
	Delay int `yaml:"delay"`

	// JobTTL is how long a delayed job is retained, in seconds.
	JobTTL int `yaml:"job_ttl"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	PerSecond int `yaml:"per_second"`
	Burst     int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:   "localhost",
		Port:   8080,
		Delay:  5,
		JobTTL: 3600,
		RateLimit: RateLimitConfig{
			PerSecond: 50,
			Burst:     100,
		},
		AllowedOrigins: []string{"*"},
	}
}

// Load returns the default configuration overlaid with the YAML file at path
// (if non-empty) and then with environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("DELAY"); v != "" {
		if delay, err := strconv.Atoi(v); err == nil {
			c.Delay = delay
		}
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}
	if c.JobTTL < 0 {
		return fmt.Errorf("job_ttl must not be negative")
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DelayDuration returns the artificial delay as a duration.
func (c Config) DelayDuration() time.Duration {
	return time.Duration(c.Delay) * time.Second
}

// JobTTLDuration returns the delayed-job retention as a duration.
func (c Config) JobTTLDuration() time.Duration {
	return time.Duration(c.JobTTL) * time.Second
}

// Version reports the service version from the process environment at call
// time, defaulting to a placeholder when unset.
func Version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return PlaceholderVersion
}
