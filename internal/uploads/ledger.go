package uploads

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/pkg/pagination"
	"github.com/JaimeStill/rental-portal/pkg/query"
	"github.com/JaimeStill/rental-portal/pkg/repository"
)

// Ledger persists the record of completed uploads.
type Ledger interface {
	Record(ctx context.Context, cmd RecordCommand) (*Entry, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
	Find(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindBySecureURL(ctx context.Context, secureURL string) (*Entry, error)
	Forget(ctx context.Context, publicID string) error
}

type ledger struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewLedger creates a Postgres-backed ledger over the uploads table.
func NewLedger(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Ledger {
	return &ledger{
		db:         db,
		logger:     logger.With("system", "upload-ledger"),
		pagination: pagination,
	}
}

func (l *ledger) Record(ctx context.Context, cmd RecordCommand) (*Entry, error) {
	q := `INSERT INTO uploads(id, public_id, secure_url, resource_type, format, original_filename, bytes, page_count, folder, policy)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, public_id, secure_url, resource_type, format, original_filename, bytes, page_count, folder, policy, created_at`

	r := cmd.Result
	entry, err := repository.WithTx(ctx, l.db, func(tx *sql.Tx) (Entry, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), r.PublicID, r.SecureURL, r.ResourceType, r.Format,
			r.OriginalFilename, r.Bytes, cmd.PageCount, cmd.Folder, cmd.Policy,
		}, scanEntry)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	l.logger.Info("upload recorded", "id", entry.ID, "public_id", entry.PublicID)
	return &entry, nil
}

func (l *ledger) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	page.Normalize(l.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "OriginalFilename", "PublicID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := l.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count uploads: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	entries, err := repository.QueryMany(ctx, l.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}

	result := pagination.NewPageResult(entries, total, page.Page, page.PageSize)
	return &result, nil
}

func (l *ledger) Find(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return l.findBy(ctx, "ID", id)
}

func (l *ledger) FindBySecureURL(ctx context.Context, secureURL string) (*Entry, error) {
	return l.findBy(ctx, "SecureURL", secureURL)
}

func (l *ledger) Forget(ctx context.Context, publicID string) error {
	q := `DELETE FROM uploads WHERE public_id = $1`
	_, err := repository.WithTx(ctx, l.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, publicID)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	l.logger.Info("upload forgotten", "public_id", publicID)
	return nil
}

func (l *ledger) findBy(ctx context.Context, field string, value any) (*Entry, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle(field, value)

	entry, err := repository.QueryOne(ctx, l.db, q, args, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &entry, nil
}
