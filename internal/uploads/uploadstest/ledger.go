// Package uploadstest provides an in-memory upload ledger.
package uploadstest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/pkg/pagination"
)

// Ledger implements uploads.Ledger over a slice.
type Ledger struct {
	mu      sync.Mutex
	entries []uploads.Entry
	fail    error
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// SetFail makes every subsequent Record return err. A nil err clears it.
func (l *Ledger) SetFail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = err
}

// Entries returns a snapshot of the recorded entries in insertion order.
func (l *Ledger) Entries() []uploads.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

func (l *Ledger) Record(ctx context.Context, cmd uploads.RecordCommand) (*uploads.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}

	for _, e := range l.entries {
		if e.PublicID == cmd.Result.PublicID {
			return nil, uploads.ErrDuplicate
		}
	}

	e := uploads.Entry{
		ID:               uuid.New(),
		PublicID:         cmd.Result.PublicID,
		SecureURL:        cmd.Result.SecureURL,
		ResourceType:     cmd.Result.ResourceType,
		Format:           cmd.Result.Format,
		OriginalFilename: cmd.Result.OriginalFilename,
		Bytes:            cmd.Result.Bytes,
		PageCount:        cmd.PageCount,
		Folder:           cmd.Folder,
		Policy:           cmd.Policy,
		CreatedAt:        time.Now(),
	}
	l.entries = append(l.entries, e)
	return &e, nil
}

func (l *Ledger) List(ctx context.Context, page pagination.PageRequest, filters uploads.Filters) (*pagination.PageResult[uploads.Entry], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var matched []uploads.Entry
	for _, e := range l.entries {
		if filters.Folder != nil && !strings.Contains(e.Folder, *filters.Folder) {
			continue
		}
		if filters.ResourceType != nil && string(e.ResourceType) != *filters.ResourceType {
			continue
		}
		if filters.Policy != nil && e.Policy != *filters.Policy {
			continue
		}
		matched = append(matched, e)
	}

	size := max(page.PageSize, 1)
	p := max(page.Page, 1)
	start := min((p-1)*size, len(matched))
	end := min(start+size, len(matched))

	r := pagination.NewPageResult(slices.Clone(matched[start:end]), len(matched), p, size)
	return &r, nil
}

func (l *Ledger) Find(ctx context.Context, id uuid.UUID) (*uploads.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, uploads.ErrNotFound
}

func (l *Ledger) FindBySecureURL(ctx context.Context, secureURL string) (*uploads.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.SecureURL == secureURL {
			return &e, nil
		}
	}
	return nil, uploads.ErrNotFound
}

func (l *Ledger) Forget(ctx context.Context, publicID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.PublicID == publicID {
			l.entries = slices.Delete(l.entries, i, i+1)
			return nil
		}
	}
	return uploads.ErrNotFound
}
