package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/internal/cloudinary"
	"github.com/JaimeStill/rental-portal/internal/invalidation"
	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
	"github.com/JaimeStill/rental-portal/pkg/signing"
)

// Scope is the invalidation scope for document listings.
const Scope = "documents"

// System forwards document mutations to the backend.
type System interface {
	// Update forwards fields verbatim as a partial update.
	Update(ctx context.Context, token, id string, fields map[string]any) Result

	// Delete removes the provider asset (best effort) and then the backend record.
	Delete(ctx context.Context, token, id string) DeleteResult
}

type actions struct {
	backend  *backend.Client
	provider *cloudinary.Client
	signer   *signing.Signer
	ledger   uploads.Ledger
	hub      *invalidation.Hub
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// Deps collects the collaborators of the document System. Ledger, Hub and
// Metrics are optional.
type Deps struct {
	Backend  *backend.Client
	Provider *cloudinary.Client
	Signer   *signing.Signer
	Ledger   uploads.Ledger
	Hub      *invalidation.Hub
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

func New(deps Deps) System {
	return &actions{
		backend:  deps.Backend,
		provider: deps.Provider,
		signer:   deps.Signer,
		ledger:   deps.Ledger,
		hub:      deps.Hub,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With("system", "documents"),
	}
}

func documentPath(id string) string {
	return "/documents/" + url.PathEscape(id)
}

func (a *actions) Update(ctx context.Context, token, id string, fields map[string]any) Result {
	var doc Document
	if err := a.backend.Do(ctx, token, http.MethodPatch, documentPath(id), fields, &doc); err != nil {
		a.logger.Warn("document update failed", "id", id, "error", err)
		return failure(err)
	}

	a.invalidate(id)
	a.logger.Info("document updated", "id", id)
	return Result{Success: true, Data: doc}
}

func (a *actions) Delete(ctx context.Context, token, id string) DeleteResult {
	if token == "" {
		return DeleteResult{Result: failure(backend.ErrMissingToken), Cleanup: CleanupOutcome{Status: CleanupSkipped}}
	}

	cleanup := a.cleanup(ctx, token, id)

	if err := a.backend.Do(ctx, token, http.MethodDelete, documentPath(id), nil, nil); err != nil {
		a.logger.Warn("document delete failed", "id", id, "error", err)
		return DeleteResult{Result: failure(err), Cleanup: cleanup}
	}

	if cleanup.Status == CleanupDeleted && a.ledger != nil {
		if err := a.ledger.Forget(ctx, cleanup.PublicID); err != nil && !errors.Is(err, uploads.ErrNotFound) {
			a.logger.Warn("ledger cleanup failed", "public_id", cleanup.PublicID, "error", err)
		}
	}

	a.invalidate(id)
	a.logger.Info("document deleted", "id", id, "cleanup", cleanup.Status)
	return DeleteResult{Result: Result{Success: true}, Cleanup: cleanup}
}

// cleanup resolves the asset for id and deletes it from the provider. Every
// failure is captured in the outcome.
func (a *actions) cleanup(ctx context.Context, token, id string) CleanupOutcome {
	var doc Document
	if err := a.backend.Do(ctx, token, http.MethodGet, documentPath(id), nil, &doc); err != nil {
		a.logger.Warn("document lookup failed, skipping asset cleanup", "id", id, "error", err)
		return CleanupOutcome{Status: CleanupSkipped, Error: err.Error()}
	}

	publicID, source, err := a.resolvePublicID(ctx, doc)
	if err != nil {
		a.logger.Warn("no provider asset to clean up", "id", id, "error", err)
		return CleanupOutcome{Status: CleanupSkipped, Error: err.Error()}
	}

	if err := DeleteAsset(ctx, a.provider, a.signer, publicID); err != nil {
		a.metrics.CleanupFailure()
		a.logger.Warn("provider asset cleanup failed", "id", id, "public_id", publicID, "error", err)
		return CleanupOutcome{Status: CleanupFailed, PublicID: publicID, Source: source, Error: err.Error()}
	}

	return CleanupOutcome{Status: CleanupDeleted, PublicID: publicID, Source: source}
}

// resolvePublicID prefers the id stored on the record, then the upload ledger,
// and only then derives it from the secure URL.
func (a *actions) resolvePublicID(ctx context.Context, doc Document) (string, string, error) {
	if doc.PublicID != nil && *doc.PublicID != "" {
		return *doc.PublicID, "record", nil
	}
	if doc.SecureURL == "" {
		return "", "", ErrNoPublicID
	}

	if a.ledger != nil {
		entry, err := a.ledger.FindBySecureURL(ctx, doc.SecureURL)
		if err == nil {
			return entry.PublicID, "ledger", nil
		}
		if !errors.Is(err, uploads.ErrNotFound) {
			a.logger.Warn("ledger lookup failed", "secure_url", doc.SecureURL, "error", err)
		}
	}

	id, err := ExtractPublicID(doc.SecureURL)
	if err != nil {
		return "", "", err
	}
	return id, "url", nil
}

func (a *actions) invalidate(id string) {
	if a.hub != nil {
		a.hub.Publish(Scope, Scope+"/"+id)
	}
}

// DeleteAsset issues a signed delete_by_token request for publicID.
func DeleteAsset(ctx context.Context, provider *cloudinary.Client, signer *signing.Signer, publicID string) error {
	signed := signer.SignedParams(signing.Params{
		"public_id": publicID,
		"timestamp": signer.Timestamp(),
	})

	resp, err := provider.DeleteByToken(ctx, signed)
	if err != nil {
		return err
	}
	if !resp.OK() {
		if f, ok := uploads.Normalize(resp.Status, resp.Body).(uploads.Failure); ok {
			return fmt.Errorf("%w: %s", uploads.ErrProviderRejected, f.Message)
		}
		return fmt.Errorf("%w: status %d", uploads.ErrProviderRejected, resp.Status)
	}

	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("%w: malformed delete response: %v", uploads.ErrProviderRejected, err)
	}
	if body.Result != "ok" {
		return fmt.Errorf("%w: delete %s: %s", uploads.ErrProviderRejected, publicID, body.Result)
	}
	return nil
}
