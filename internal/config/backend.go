package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	EnvBackendBaseURL = "BACKEND_BASE_URL"
	EnvHealthTTL      = "HEALTH_TTL"
	EnvHealthTimeout  = "HEALTH_TIMEOUT"
)

// BackendConfig points at the external portal REST API.
type BackendConfig struct {
	BaseURL string `toml:"base_url"`
}

func (c *BackendConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *BackendConfig) Merge(overlay *BackendConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *BackendConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3001"
	}
}

func (c *BackendConfig) loadEnv() {
	if v := os.Getenv(EnvBackendBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *BackendConfig) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

// HealthConfig controls the cached backend health probe.
type HealthConfig struct {
	TTL     string `toml:"ttl"`
	Timeout string `toml:"timeout"`
}

func (c *HealthConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

func (c *HealthConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *HealthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *HealthConfig) Merge(overlay *HealthConfig) {
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *HealthConfig) loadDefaults() {
	if c.TTL == "" {
		c.TTL = "30s"
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
}

func (c *HealthConfig) loadEnv() {
	if v := os.Getenv(EnvHealthTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvHealthTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *HealthConfig) validate() error {
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if ttl < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
