package accounts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-multierror"

	"github.com/JaimeStill/rental-portal/internal/backend"
	"github.com/JaimeStill/rental-portal/internal/invalidation"
)

// Scope is the invalidation scope for account listings.
const Scope = "stripe-accounts"

const collectionPath = "/stripe-accounts"

// Result is the outcome of an account mutation. On success Projection holds
// the re-fetched accounts and Violations lists any broken invariant.
type Result struct {
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
	Projection *Projection `json:"projection,omitempty"`
	Violations []string    `json:"violations,omitempty"`
	Err        error       `json:"-"`
}

// System forwards account mutations to the backend.
type System interface {
	Projection(ctx context.Context, token string) (Projection, error)
	Create(ctx context.Context, token string, cmd CreateCommand) Result
	Update(ctx context.Context, token, id string, cmd UpdateCommand) Result
	Delete(ctx context.Context, token, id string) Result
	Link(ctx context.Context, token, id string, cmd LinkCommand) Result
	Unlink(ctx context.Context, token, id, propertyID string) Result
	SetDefault(ctx context.Context, token, id, propertyID string) Result
}

type links struct {
	backend *backend.Client
	hub     *invalidation.Hub
	logger  *slog.Logger
}

// New creates the account System. hub may be nil.
func New(client *backend.Client, hub *invalidation.Hub, logger *slog.Logger) System {
	return &links{
		backend: client,
		hub:     hub,
		logger:  logger.With("system", "accounts"),
	}
}

func accountPath(id string, rest ...string) string {
	p := collectionPath + "/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

func (l *links) Projection(ctx context.Context, token string) (Projection, error) {
	var accounts []Account
	if err := l.backend.Do(ctx, token, http.MethodGet, collectionPath, nil, &accounts); err != nil {
		return Projection{}, err
	}

	if accounts == nil {
		accounts = []Account{}
	}
	return Projection{Accounts: accounts}, nil
}

func (l *links) Create(ctx context.Context, token string, cmd CreateCommand) Result {
	if err := cmd.validate(); err != nil {
		return failure(err)
	}
	return l.mutate(ctx, token, "create", http.MethodPost, collectionPath, cmd)
}

func (l *links) Update(ctx context.Context, token, id string, cmd UpdateCommand) Result {
	return l.mutate(ctx, token, "update", http.MethodPatch, accountPath(id), cmd)
}

func (l *links) Delete(ctx context.Context, token, id string) Result {
	return l.mutate(ctx, token, "delete", http.MethodDelete, accountPath(id), nil)
}

func (l *links) Link(ctx context.Context, token, id string, cmd LinkCommand) Result {
	if err := cmd.validate(); err != nil {
		return failure(err)
	}
	return l.mutate(ctx, token, "link", http.MethodPost, accountPath(id, "link"), cmd)
}

func (l *links) Unlink(ctx context.Context, token, id, propertyID string) Result {
	return l.mutate(ctx, token, "unlink", http.MethodDelete, accountPath(id, "link", propertyID), nil)
}

// SetDefault marks the link between id and propertyID as the property's
// default. The projection is fetched with the caller's token first and the
// change is refused without a write when it has no such link.
func (l *links) SetDefault(ctx context.Context, token, id, propertyID string) Result {
	if token == "" {
		return failure(backend.ErrMissingToken)
	}

	current, err := l.Projection(ctx, token)
	if err != nil {
		return failure(err)
	}
	if !current.HasLink(id, propertyID) {
		l.logger.Warn("set default refused", "account", id, "property", propertyID)
		return failure(ErrLinkNotFound)
	}

	body := map[string]string{"propertyId": propertyID}
	return l.mutate(ctx, token, "set-default", http.MethodPatch, accountPath(id, "default"), body)
}

func (l *links) mutate(ctx context.Context, token, action, method, path string, body any) Result {
	if err := l.backend.Do(ctx, token, method, path, body, nil); err != nil {
		l.logger.Warn("account mutation failed", "action", action, "path", path, "error", err)
		return failure(err)
	}

	if l.hub != nil {
		l.hub.Publish(Scope)
	}

	p, err := l.Projection(ctx, token)
	if err != nil {
		l.logger.Warn("account refresh failed", "action", action, "error", err)
		return Result{Success: true, Error: "refresh failed: " + err.Error(), Err: err}
	}

	result := Result{Success: true, Projection: &p}
	if err := p.Validate(); err != nil {
		result.Violations = violations(err)
		l.logger.Warn("account invariants violated", "action", action, "violations", result.Violations)
	}

	l.logger.Info("account mutation applied", "action", action, "accounts", len(p.Accounts))
	return result
}

func violations(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}
