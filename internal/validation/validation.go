// Package validation decides whether upload candidates satisfy an upload policy.
package validation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/hashicorp/go-multierror"
)

const shortcutType = "application/json"

// Candidate is a file offered for upload. Width and Height are filled in when
// an image is decoded during validation.
type Candidate struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
	Width       int
	Height      int
}

// ByteSize returns the declared size, or the payload length when none was declared.
func (c *Candidate) ByteSize() int64 {
	if c.Size > 0 {
		return c.Size
	}
	return int64(len(c.Data))
}

// Validator applies a policy to candidates.
type Validator struct {
	policy Policy
}

func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate checks one candidate. It returns nil when accepted and a *Rejection otherwise.
func (v *Validator) Validate(ctx context.Context, c *Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	contentType := normalizeType(c.ContentType)
	size := c.ByteSize()

	switch {
	case contentType == shortcutType:
		return reject(c, ErrShortcutFile, "")

	case v.policy.IsImage(contentType):
		if size > v.policy.MaxImageBytes {
			return reject(c, ErrImageTooLarge, fmt.Sprintf("%d > %d bytes", size, v.policy.MaxImageBytes))
		}
		if err := decodeDimensions(c); err != nil {
			return reject(c, ErrUndecodableImage, err.Error())
		}
		if c.Width > v.policy.MaxPixelWidth || c.Height > v.policy.MaxPixelHeight {
			return reject(c, ErrDimensionsExceeded, fmt.Sprintf(
				"%dx%d > %dx%d", c.Width, c.Height, v.policy.MaxPixelWidth, v.policy.MaxPixelHeight,
			))
		}
		return nil

	case v.policy.IsDocument(contentType):
		if size > v.policy.MaxDocumentBytes {
			return reject(c, ErrDocumentTooLarge, fmt.Sprintf("%d > %d bytes", size, v.policy.MaxDocumentBytes))
		}
		return nil

	default:
		return reject(c, ErrUnsupportedType, contentType)
	}
}

// ValidateBatch checks every candidate independently and concurrently. Accepted
// candidates keep their input order. Rejections are accumulated in input order
// into a *multierror.Error.
func (v *Validator) ValidateBatch(ctx context.Context, candidates []*Candidate) ([]*Candidate, error) {
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Go(func() {
			errs[i] = v.Validate(ctx, c)
		})
	}
	wg.Wait()

	var result *multierror.Error
	accepted := make([]*Candidate, 0, len(candidates))
	for i, c := range candidates {
		if errs[i] != nil {
			result = multierror.Append(result, errs[i])
			continue
		}
		accepted = append(accepted, c)
	}

	return accepted, result.ErrorOrNil()
}

// Rejections extracts the per-file rejections from an error returned by ValidateBatch.
func Rejections(err error) []*Rejection {
	if err == nil {
		return nil
	}

	var errs []error
	if merr, ok := err.(*multierror.Error); ok {
		errs = merr.Errors
	} else {
		errs = []error{err}
	}

	out := make([]*Rejection, 0, len(errs))
	for _, e := range errs {
		if r, ok := e.(*Rejection); ok {
			out = append(out, r)
		}
	}
	return out
}

func decodeDimensions(c *Candidate) error {
	if len(c.Data) == 0 {
		if c.Width > 0 && c.Height > 0 {
			return nil
		}
		return fmt.Errorf("no image data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(c.Data))
	if err != nil {
		return err
	}
	c.Width = cfg.Width
	c.Height = cfg.Height
	return nil
}
