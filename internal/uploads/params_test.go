package uploads_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/pkg/signing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        uploads.ResourceType
	}{
		{"image/jpeg", uploads.ResourceImage},
		{"image/png", uploads.ResourceImage},
		{"Image/JPG", uploads.ResourceImage},
		{"application/pdf", uploads.ResourceRaw},
		{"application/msword", uploads.ResourceRaw},
		{"", uploads.ResourceRaw},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, uploads.Classify(tt.contentType))
		})
	}
}

func TestSignableParams_Image(t *testing.T) {
	params := uploads.SignableParams(uploads.ResourceImage, "docs", "1700000000")

	assert.Equal(t, signing.Params{
		"access_mode": "public",
		"folder":      "docs",
		"timestamp":   "1700000000",
	}, params)
	assert.NotContains(t, params, "format")
	assert.NotContains(t, params, "allowed_formats")
}

func TestSignableParams_Raw(t *testing.T) {
	params := uploads.SignableParams(uploads.ResourceRaw, "docs", "1700000000")

	assert.Equal(t, signing.Params{
		"access_mode":     "public",
		"allowed_formats": "pdf",
		"folder":          "docs",
		"format":          "pdf",
		"timestamp":       "1700000000",
	}, params)
}

func TestFormFields(t *testing.T) {
	signed := signing.Params{"folder": "docs", "timestamp": "1", "api_key": "k", "signature": "s"}

	image := uploads.FormFields(uploads.ResourceImage, signed)
	assert.Equal(t, map[string]string(signed), image)

	raw := uploads.FormFields(uploads.ResourceRaw, signed)
	assert.Equal(t, "raw", raw["resource_type"])
	assert.Equal(t, "trusted", raw["flags"])
	assert.NotContains(t, signed, "flags", "signed set must not be mutated")
}

func TestResolveFolder(t *testing.T) {
	tests := []struct {
		sub  string
		want string
	}{
		{"", "portal"},
		{"leases", "portal-leases"},
		{"/leases/2026/", "portal-leases-2026"},
		{"../../etc", "portal-etc"},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			assert.Equal(t, tt.want, uploads.ResolveFolder("portal", tt.sub))
		})
	}
}
