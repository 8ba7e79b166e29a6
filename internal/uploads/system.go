// Package uploads signs and sends candidate files to the object-storage provider,
// normalizes the reply into an Outcome, and keeps a ledger of stored assets.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
	"github.com/JaimeStill/rental-portal/pkg/signing"
)

// Candidate is a file offered for upload.
type Candidate = validation.Candidate

// System uploads candidates under a validation policy.
type System interface {
	// Upload validates, signs, and posts one candidate. It never returns a nil Outcome.
	Upload(ctx context.Context, policy validation.Policy, c *Candidate, folder string) Outcome

	// Ledger returns the upload ledger, or nil when none is configured.
	Ledger() Ledger
}

type uploader struct {
	client  *cloudinary.Client
	signer  *signing.Signer
	ledger  Ledger
	metrics *metrics.Recorder
	logger  *slog.Logger
}

// New creates an upload System. ledger and recorder may be nil.
func New(client *cloudinary.Client, signer *signing.Signer, ledger Ledger, recorder *metrics.Recorder, logger *slog.Logger) System {
	return &uploader{
		client:  client,
		signer:  signer,
		ledger:  ledger,
		metrics: recorder,
		logger:  logger.With("system", "uploads"),
	}
}

func (u *uploader) Ledger() Ledger {
	return u.ledger
}

func (u *uploader) Upload(ctx context.Context, policy validation.Policy, c *Candidate, folder string) Outcome {
	if err := validation.New(policy).Validate(ctx, c); err != nil {
		var rej *validation.Rejection
		if errors.As(err, &rej) {
			u.metrics.Rejection(rej.Reason)
		}
		u.logger.Info("upload rejected", "filename", c.Filename, "policy", policy.Name, "error", err)
		return Failure{Message: err.Error(), Err: err}
	}

	resource := Classify(c.ContentType)
	signed := u.signer.SignedParams(SignableParams(resource, folder, u.signer.Timestamp()))

	resp, err := u.client.Upload(ctx, string(resource), FormFields(resource, signed), cloudinary.File{
		Name: c.Filename,
		Data: c.Data,
	})
	if err != nil {
		u.metrics.Upload(string(resource), "failure")
		u.logger.Error("provider request failed", "filename", c.Filename, "error", err)
		return Failure{Message: err.Error(), Err: fmt.Errorf("%w: %v", ErrProviderFailed, err)}
	}

	outcome := Normalize(resp.Status, resp.Body)
	result, ok := ResultOf(outcome)
	if !ok {
		u.metrics.Upload(string(resource), "failure")
		u.logger.Warn("provider rejected upload", "filename", c.Filename, "status", resp.Status, "error", outcome.(Failure).Message)
		return outcome
	}

	u.metrics.Upload(string(result.ResourceType), "success")
	u.logger.Info("upload complete", "filename", c.Filename, "public_id", result.PublicID, "resource_type", result.ResourceType)

	u.record(ctx, c, result, folder, policy.Name)
	return outcome
}

// record writes the ledger entry. Failures are logged and never fail the upload.
func (u *uploader) record(ctx context.Context, c *Candidate, result Result, folder, policy string) {
	if u.ledger == nil {
		return
	}

	var pageCount *int
	if isPDF(c) {
		count, err := PageCount(c.Data)
		if err != nil {
			u.logger.Warn("failed to extract pdf page count", "filename", c.Filename, "error", err)
		} else {
			pageCount = &count
		}
	}

	if _, err := u.ledger.Record(ctx, RecordCommand{
		Result:    result,
		PageCount: pageCount,
		Folder:    folder,
		Policy:    policy,
	}); err != nil {
		u.logger.Error("ledger write failed", "public_id", result.PublicID, "error", err)
	}
}

// PageCount returns the number of pages in a PDF payload.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}

func isPDF(c *Candidate) bool {
	return len(c.Data) > 0 && Classify(c.ContentType) == ResourceRaw && bytes.HasPrefix(c.Data, []byte("%PDF"))
}
