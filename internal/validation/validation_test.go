package validation_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/internal/validation"
)

const mb = 1024 * 1024

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func tenant() *validation.Validator {
	return validation.New(validation.DefaultPolicies()[validation.PolicyTenant])
}

func admin() *validation.Validator {
	return validation.New(validation.DefaultPolicies()[validation.PolicyAdmin])
}

func TestDefaultPolicies(t *testing.T) {
	policies := validation.DefaultPolicies()

	tn, err := policies.Lookup("tenant")
	require.NoError(t, err)
	assert.Equal(t, int64(2*mb), tn.MaxImageBytes)
	assert.Equal(t, int64(5*mb), tn.MaxDocumentBytes)
	assert.Equal(t, 1000, tn.MaxPixelWidth)
	assert.Equal(t, 1000, tn.MaxPixelHeight)

	ad, err := policies.Lookup("admin")
	require.NoError(t, err)
	assert.Equal(t, int64(10*mb), ad.MaxDocumentBytes)

	_, err = policies.Lookup("landlord")
	assert.ErrorIs(t, err, validation.ErrUnknownPolicy)
}

func TestValidate_ShortcutAlwaysRejected(t *testing.T) {
	for _, size := range []int64{0, 1, 10 * mb} {
		err := tenant().Validate(context.Background(), &validation.Candidate{
			Filename:    "link.json",
			ContentType: "application/json",
			Size:        size,
		})
		assert.ErrorIs(t, err, validation.ErrShortcutFile)
	}
}

func TestValidate_Rules(t *testing.T) {
	small := pngBytes(t, 10, 10)

	tests := []struct {
		name      string
		validator *validation.Validator
		candidate validation.Candidate
		wantErr   error
	}{
		{
			name:      "image at size limit",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.png", ContentType: "image/png", Size: 2 * mb, Data: small},
		},
		{
			name:      "image one byte over",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.png", ContentType: "image/png", Size: 2*mb + 1, Data: small},
			wantErr:   validation.ErrImageTooLarge,
		},
		{
			name:      "image/jpg alias accepted",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.jpg", ContentType: "image/jpg", Data: small},
		},
		{
			name:      "image undecodable",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.png", ContentType: "image/png", Data: []byte("not an image")},
			wantErr:   validation.ErrUndecodableImage,
		},
		{
			name:      "pdf under tenant limit",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 3 * mb},
		},
		{
			name:      "pdf at tenant limit",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 5 * mb},
		},
		{
			name:      "pdf over tenant limit",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 6 * mb},
			wantErr:   validation.ErrDocumentTooLarge,
		},
		{
			name:      "pdf accepted on admin path",
			validator: admin(),
			candidate: validation.Candidate{Filename: "lease.pdf", ContentType: "application/pdf", Size: 6 * mb},
		},
		{
			name:      "docx",
			validator: tenant(),
			candidate: validation.Candidate{
				Filename:    "notice.docx",
				ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				Size:        mb,
			},
		},
		{
			name:      "content type parameters ignored",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.pdf", ContentType: "Application/PDF; charset=binary", Size: 1},
		},
		{
			name:      "unsupported",
			validator: tenant(),
			candidate: validation.Candidate{Filename: "a.gif", ContentType: "image/gif", Size: 1},
			wantErr:   validation.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.candidate
			err := tt.validator.Validate(context.Background(), &c)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			var rej *validation.Rejection
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, c.Filename, rej.Filename)
			assert.NotEmpty(t, rej.Reason)
		})
	}
}

func TestValidate_DimensionBoundary(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"exact limit", 1000, 1000, false},
		{"one wider", 1001, 1000, true},
		{"one taller", 1000, 1001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &validation.Candidate{Filename: "p.png", ContentType: "image/png", Data: pngBytes(t, tt.w, tt.h)}
			err := tenant().Validate(context.Background(), c)

			assert.Equal(t, tt.w, c.Width)
			assert.Equal(t, tt.h, c.Height)
			if tt.wantErr {
				assert.ErrorIs(t, err, validation.ErrDimensionsExceeded)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBatch_AccumulatesPerFile(t *testing.T) {
	candidates := []*validation.Candidate{
		{Filename: "ok.pdf", ContentType: "application/pdf", Size: mb},
		{Filename: "shortcut.json", ContentType: "application/json", Size: 10},
		{Filename: "ok.png", ContentType: "image/png", Data: pngBytes(t, 4, 4)},
		{Filename: "big.pdf", ContentType: "application/pdf", Size: 6 * mb},
		{Filename: "anim.gif", ContentType: "image/gif", Size: 10},
	}

	accepted, err := tenant().ValidateBatch(context.Background(), candidates)
	require.Error(t, err)

	require.Len(t, accepted, 2)
	assert.Equal(t, "ok.pdf", accepted[0].Filename)
	assert.Equal(t, "ok.png", accepted[1].Filename)

	rejections := validation.Rejections(err)
	require.Len(t, rejections, 3)
	assert.Equal(t, "shortcut.json", rejections[0].Filename)
	assert.Equal(t, "big.pdf", rejections[1].Filename)
	assert.Equal(t, "anim.gif", rejections[2].Filename)
	assert.Contains(t, err.Error(), "3 errors occurred")
}

func TestValidateBatch_AllAccepted(t *testing.T) {
	accepted, err := tenant().ValidateBatch(context.Background(), []*validation.Candidate{
		{Filename: "a.pdf", ContentType: "application/pdf", Size: 1},
	})
	assert.NoError(t, err)
	assert.Len(t, accepted, 1)
	assert.Nil(t, validation.Rejections(err))
}
