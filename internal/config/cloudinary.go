package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/JaimeStill/rental-portal/pkg/signing"
)

const (
	EnvCloudinaryCloudName = "CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "CLOUDINARY_API_SECRET"
	EnvCloudinaryBaseURL   = "CLOUDINARY_BASE_URL"
)

// CloudinaryConfig holds the object-storage provider account and endpoint.
// Credentials are normally supplied through the environment.
type CloudinaryConfig struct {
	CloudName string `toml:"cloud_name"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
	BaseURL   string `toml:"base_url"`
}

// Credentials returns the signing credentials for the configured account.
func (c *CloudinaryConfig) Credentials() signing.Credentials {
	return signing.Credentials{
		CloudName: c.CloudName,
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
	}
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
// Missing credentials fail with an error wrapping signing.ErrMissingCredentials.
func (c *CloudinaryConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *CloudinaryConfig) Merge(overlay *CloudinaryConfig) {
	if overlay.CloudName != "" {
		c.CloudName = overlay.CloudName
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.APISecret != "" {
		c.APISecret = overlay.APISecret
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *CloudinaryConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.cloudinary.com/v1_1"
	}
}

func (c *CloudinaryConfig) loadEnv() {
	if v := os.Getenv(EnvCloudinaryCloudName); v != "" {
		c.CloudName = v
	}
	if v := os.Getenv(EnvCloudinaryAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvCloudinaryAPISecret); v != "" {
		c.APISecret = v
	}
	if v := os.Getenv(EnvCloudinaryBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *CloudinaryConfig) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return c.Credentials().Validate()
}
