package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

const (
	EnvUploadsFolder      = "UPLOADS_FOLDER"
	EnvUploadsConcurrency = "UPLOADS_CONCURRENCY"
)

// UploadsConfig holds the upload pipeline settings and the per-path validation policies.
type UploadsConfig struct {
	Folder      string         `toml:"folder"`
	Concurrency int            `toml:"concurrency"`
	Policies    PoliciesConfig `toml:"policies"`
}

// PoliciesConfig holds the two upload paths. Each is configured independently.
type PoliciesConfig struct {
	Tenant UploadPolicyConfig `toml:"tenant"`
	Admin  UploadPolicyConfig `toml:"admin"`
}

// UploadPolicyConfig describes one validation policy. Sizes are human strings
// such as "2MB" and are interpreted in binary units.
type UploadPolicyConfig struct {
	MaxImageSize    string   `toml:"max_image_size"`
	MaxDocumentSize string   `toml:"max_document_size"`
	MaxPixelWidth   int      `toml:"max_pixel_width"`
	MaxPixelHeight  int      `toml:"max_pixel_height"`
	ImageTypes      []string `toml:"image_types"`
	DocumentTypes   []string `toml:"document_types"`

	maxImageBytes    int64
	maxDocumentBytes int64
}

var (
	defaultImageTypes = []string{"image/jpeg", "image/png", "image/jpg"}

	defaultDocumentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)

func (c *UploadPolicyConfig) MaxImageBytes() int64 {
	return c.maxImageBytes
}

func (c *UploadPolicyConfig) MaxDocumentBytes() int64 {
	return c.maxDocumentBytes
}

func (c *UploadPolicyConfig) Merge(overlay *UploadPolicyConfig) {
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
	if overlay.MaxDocumentSize != "" {
		c.MaxDocumentSize = overlay.MaxDocumentSize
	}
	if overlay.MaxPixelWidth != 0 {
		c.MaxPixelWidth = overlay.MaxPixelWidth
	}
	if overlay.MaxPixelHeight != 0 {
		c.MaxPixelHeight = overlay.MaxPixelHeight
	}
	if overlay.ImageTypes != nil {
		c.ImageTypes = overlay.ImageTypes
	}
	if overlay.DocumentTypes != nil {
		c.DocumentTypes = overlay.DocumentTypes
	}
}

func (c *UploadPolicyConfig) finalize(defaultDocumentSize string) error {
	if c.MaxImageSize == "" {
		c.MaxImageSize = "2MB"
	}
	if c.MaxDocumentSize == "" {
		c.MaxDocumentSize = defaultDocumentSize
	}
	if c.MaxPixelWidth == 0 {
		c.MaxPixelWidth = 1000
	}
	if c.MaxPixelHeight == 0 {
		c.MaxPixelHeight = 1000
	}
	if c.ImageTypes == nil {
		c.ImageTypes = append([]string(nil), defaultImageTypes...)
	}
	if c.DocumentTypes == nil {
		c.DocumentTypes = append([]string(nil), defaultDocumentTypes...)
	}

	img, err := units.RAMInBytes(c.MaxImageSize)
	if err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	doc, err := units.RAMInBytes(c.MaxDocumentSize)
	if err != nil {
		return fmt.Errorf("invalid max_document_size: %w", err)
	}
	if img <= 0 || doc <= 0 {
		return fmt.Errorf("size limits must be positive")
	}
	if c.MaxPixelWidth < 1 || c.MaxPixelHeight < 1 {
		return fmt.Errorf("pixel limits must be positive")
	}

	c.maxImageBytes = img
	c.maxDocumentBytes = doc
	return nil
}

func (c *UploadsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	// Public ids are derived from the last two url segments.
	if c.Folder == "" || strings.Contains(c.Folder, "/") {
		return fmt.Errorf("folder must be a single path segment: %q", c.Folder)
	}
	return c.Policies.finalize()
}

// DefaultPolicies returns the built-in tenant and admin policies, finalized.
func DefaultPolicies() PoliciesConfig {
	var p PoliciesConfig
	if err := p.finalize(); err != nil {
		panic(err)
	}
	return p
}

func (c *PoliciesConfig) finalize() error {
	if err := c.Tenant.finalize("5MB"); err != nil {
		return fmt.Errorf("policies.tenant: %w", err)
	}
	if err := c.Admin.finalize("10MB"); err != nil {
		return fmt.Errorf("policies.admin: %w", err)
	}
	return nil
}

func (c *UploadsConfig) Merge(overlay *UploadsConfig) {
	if overlay.Folder != "" {
		c.Folder = overlay.Folder
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	c.Policies.Tenant.Merge(&overlay.Policies.Tenant)
	c.Policies.Admin.Merge(&overlay.Policies.Admin)
}

func (c *UploadsConfig) loadDefaults() {
	if c.Folder == "" {
		c.Folder = "rental-portal"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *UploadsConfig) loadEnv() {
	if v := os.Getenv(EnvUploadsFolder); v != "" {
		c.Folder = v
	}
	if v := os.Getenv(EnvUploadsConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
}
