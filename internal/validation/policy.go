package validation

import (
	"slices"
	"strings"

	"github.com/JaimeStill/rental-portal/internal/config"
)

const (
	PolicyTenant = "tenant"
	PolicyAdmin  = "admin"
)

// Policy is the set of limits applied on one upload path.
type Policy struct {
	Name             string   `json:"name"`
	MaxImageBytes    int64    `json:"max_image_bytes"`
	MaxDocumentBytes int64    `json:"max_document_bytes"`
	MaxPixelWidth    int      `json:"max_pixel_width"`
	MaxPixelHeight   int      `json:"max_pixel_height"`
	ImageTypes       []string `json:"image_types"`
	DocumentTypes    []string `json:"document_types"`
}

func (p Policy) IsImage(contentType string) bool {
	return slices.Contains(p.ImageTypes, normalizeType(contentType))
}

func (p Policy) IsDocument(contentType string) bool {
	return slices.Contains(p.DocumentTypes, normalizeType(contentType))
}

// NewPolicy builds a policy from a finalized policy configuration.
func NewPolicy(name string, cfg *config.UploadPolicyConfig) Policy {
	return Policy{
		Name:             name,
		MaxImageBytes:    cfg.MaxImageBytes(),
		MaxDocumentBytes: cfg.MaxDocumentBytes(),
		MaxPixelWidth:    cfg.MaxPixelWidth,
		MaxPixelHeight:   cfg.MaxPixelHeight,
		ImageTypes:       normalizeTypes(cfg.ImageTypes),
		DocumentTypes:    normalizeTypes(cfg.DocumentTypes),
	}
}

// Policies indexes the configured upload paths by name.
type Policies map[string]Policy

// NewPolicies builds the tenant and admin policies.
func NewPolicies(cfg *config.PoliciesConfig) Policies {
	return Policies{
		PolicyTenant: NewPolicy(PolicyTenant, &cfg.Tenant),
		PolicyAdmin:  NewPolicy(PolicyAdmin, &cfg.Admin),
	}
}

// Lookup returns the named policy or ErrUnknownPolicy.
func (p Policies) Lookup(name string) (Policy, error) {
	policy, ok := p[name]
	if !ok {
		return Policy{}, ErrUnknownPolicy
	}
	return policy, nil
}

// DefaultPolicies returns the built-in tenant and admin limits.
func DefaultPolicies() Policies {
	cfg := config.DefaultPolicies()
	return NewPolicies(&cfg)
}

func normalizeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func normalizeTypes(types []string) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = normalizeType(t)
	}
	return out
}
