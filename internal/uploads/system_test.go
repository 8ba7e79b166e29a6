package uploads_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/internal/cloudinary/cloudinarytest"
	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/internal/uploads/uploadstest"
	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/logging"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
	"github.com/JaimeStill/rental-portal/pkg/signing"
)

const mb = 1024 * 1024

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func fixture(t *testing.T) (*cloudinarytest.Server, uploads.System, *uploadstest.Ledger) {
	t.Helper()

	provider := cloudinarytest.NewServer("demo", "key", "secret")
	t.Cleanup(provider.Close)

	signer, err := signing.NewSigner(provider.Credentials(), func() time.Time { return time.Unix(1700000000, 0) })
	require.NoError(t, err)

	ledger := uploadstest.NewLedger()
	client := cloudinary.New(provider.URL, "demo", provider.Client(), logging.Discard())
	sys := uploads.New(client, signer, ledger, metrics.New(), logging.Discard())
	return provider, sys, ledger
}

func policy(name string) validation.Policy {
	return validation.DefaultPolicies()[name]
}

func TestUpload_Image(t *testing.T) {
	provider, sys, ledger := fixture(t)

	c := &uploads.Candidate{Filename: "photo.jpg", ContentType: "image/jpeg", Size: mb, Data: jpegBytes(t, 800, 600)}
	outcome := sys.Upload(context.Background(), policy("tenant"), c, "docs")

	img, ok := outcome.(uploads.ImageUpload)
	require.True(t, ok, "outcome: %#v", outcome)
	assert.Equal(t, uploads.ResourceImage, img.ResourceType)
	assert.Equal(t, "docs/photo", img.PublicID)

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/demo/image/upload", reqs[0].Path)
	assert.NotContains(t, reqs[0].Fields, "format")
	assert.NotContains(t, reqs[0].Fields, "allowed_formats")
	assert.NotContains(t, reqs[0].Fields, "resource_type")
	assert.Equal(t, "public", reqs[0].Fields["access_mode"])
	assert.Equal(t, "1700000000", reqs[0].Fields["timestamp"])

	want := signing.Sign(signing.Params{"access_mode": "public", "folder": "docs", "timestamp": "1700000000"}, "secret")
	assert.Equal(t, want, reqs[0].Fields["signature"])

	require.Len(t, ledger.Entries(), 1)
	assert.Equal(t, "tenant", ledger.Entries()[0].Policy)
	assert.Nil(t, ledger.Entries()[0].PageCount)
}

func TestUpload_RawPDF(t *testing.T) {
	provider, sys, _ := fixture(t)

	c := &uploads.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 3 * mb, Data: []byte("%PDF-1.4 not really")}
	outcome := sys.Upload(context.Background(), policy("tenant"), c, "docs")

	raw, ok := outcome.(uploads.RawUpload)
	require.True(t, ok, "outcome: %#v", outcome)
	assert.Equal(t, uploads.ResourceRaw, raw.ResourceType)
	require.NotNil(t, raw.Format)
	assert.Equal(t, "pdf", *raw.Format)

	fields := provider.Requests()[0].Fields
	assert.Equal(t, "/demo/raw/upload", provider.Requests()[0].Path)
	assert.Equal(t, "pdf", fields["format"])
	assert.Equal(t, "pdf", fields["allowed_formats"])
	assert.Equal(t, "raw", fields["resource_type"])
	assert.Equal(t, "trusted", fields["flags"])
	assert.Equal(t, "public", fields["access_mode"])
}

func TestUpload_PathSpecificLimits(t *testing.T) {
	provider, sys, _ := fixture(t)

	newPDF := func() *uploads.Candidate {
		return &uploads.Candidate{Filename: "big.pdf", ContentType: "application/pdf", Size: 6 * mb, Data: []byte("%PDF")}
	}

	tenant := sys.Upload(context.Background(), policy("tenant"), newPDF(), "docs")
	require.False(t, tenant.Succeeded())
	assert.ErrorIs(t, tenant.(uploads.Failure), validation.ErrDocumentTooLarge)
	assert.Empty(t, provider.Requests(), "rejected files must not reach the provider")

	admin := sys.Upload(context.Background(), policy("admin"), newPDF(), "docs")
	assert.True(t, admin.Succeeded())
}

func TestUpload_ProviderRejects(t *testing.T) {
	provider, sys, ledger := fixture(t)
	provider.FailNext(http.StatusUnauthorized, `{"error":{"message":"Invalid signature"}}`)

	c := &uploads.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 10, Data: []byte("%PDF")}
	outcome := sys.Upload(context.Background(), policy("tenant"), c, "docs")

	f, ok := outcome.(uploads.Failure)
	require.True(t, ok)
	assert.Equal(t, "401 Invalid signature", f.Message)
	assert.Equal(t, map[string]any{"success": false, "error": "401 Invalid signature"}, uploads.Response(outcome))
	assert.Empty(t, ledger.Entries())
	assert.Equal(t, http.StatusBadGateway, uploads.MapHTTPStatus(f))
}

func TestUpload_NetworkFailureNotRetried(t *testing.T) {
	provider, sys, _ := fixture(t)
	provider.Close()

	c := &uploads.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 10, Data: []byte("%PDF")}
	outcome := sys.Upload(context.Background(), policy("tenant"), c, "docs")

	f, ok := outcome.(uploads.Failure)
	require.True(t, ok)
	assert.Zero(t, f.Status)
	assert.True(t, errors.Is(f, uploads.ErrProviderFailed))
}

func TestUpload_LedgerFailureKeepsSuccess(t *testing.T) {
	_, sys, ledger := fixture(t)
	ledger.SetFail(errors.New("database down"))

	c := &uploads.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 10, Data: []byte("%PDF")}
	outcome := sys.Upload(context.Background(), policy("tenant"), c, "docs")

	assert.True(t, outcome.Succeeded())
}

func TestUpload_NoLedger(t *testing.T) {
	provider := cloudinarytest.NewServer("demo", "key", "secret")
	defer provider.Close()

	signer, err := signing.NewSigner(provider.Credentials(), nil)
	require.NoError(t, err)

	sys := uploads.New(cloudinary.New(provider.URL, "demo", nil, logging.Discard()), signer, nil, nil, logging.Discard())
	assert.Nil(t, sys.Ledger())

	c := &uploads.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 10, Data: []byte("%PDF")}
	assert.True(t, sys.Upload(context.Background(), policy("tenant"), c, "docs").Succeeded())
}
