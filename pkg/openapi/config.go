package openapi

import "os"

// Config holds the spec metadata exposed at /openapi.json.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps environment variable names for the spec metadata.
type ConfigEnv struct {
	Title       string
	Description string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Rental Portal Documents API"
	}
	if c.Description == "" {
		c.Description = "Signed document uploads, document lifecycle actions, and payment account links for the rental portal."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if v := os.Getenv(env.Title); v != "" {
		c.Title = v
	}
	if v := os.Getenv(env.Description); v != "" {
		c.Description = v
	}
}
