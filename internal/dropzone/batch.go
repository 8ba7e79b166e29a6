// Package dropzone stages multi-file uploads: files are validated and previewed
// as they are added, then submitted to the uploader in parallel.
package dropzone

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/metrics"
)

// File is a snapshot of one file in a batch.
type File struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	ContentType string          `json:"content_type"`
	Size        int64           `json:"size"`
	State       State           `json:"state"`
	Reason      string          `json:"reason,omitempty"`
	Error       string          `json:"error,omitempty"`
	Preview     *Preview        `json:"preview,omitempty"`
	Result      *uploads.Result `json:"result,omitempty"`
	Outcome     uploads.Outcome `json:"-"`

	candidate *validation.Candidate
}

// Progress counts files per state.
type Progress struct {
	Pending   int `json:"pending"`
	Uploading int `json:"uploading"`
	Done      int `json:"done"`
	Rejected  int `json:"rejected"`
	Total     int `json:"total"`
}

// Dropzone creates batches that share an uploader, preview store, and
// concurrency limit.
type Dropzone struct {
	uploader    uploads.System
	previews    *Previews
	metrics     *metrics.Recorder
	concurrency int
	logger      *slog.Logger
}

// New creates a Dropzone. previews may be nil to skip preview generation.
func New(uploader uploads.System, previews *Previews, recorder *metrics.Recorder, concurrency int, logger *slog.Logger) *Dropzone {
	return &Dropzone{
		uploader:    uploader,
		previews:    previews,
		metrics:     recorder,
		concurrency: max(concurrency, 1),
		logger:      logger.With("system", "dropzone"),
	}
}

// NewBatch starts an empty batch uploading into folder under policy.
func (d *Dropzone) NewBatch(policy validation.Policy, folder string) *Batch {
	id := uuid.New()
	return &Batch{
		id:        id,
		policy:    policy,
		folder:    folder,
		validator: validation.New(policy),
		dz:        d,
		logger:    d.logger.With("batch", id),
	}
}

// Batch is a set of files moving through pending, uploading, and done or rejected.
type Batch struct {
	id        uuid.UUID
	policy    validation.Policy
	folder    string
	validator *validation.Validator
	dz        *Dropzone
	logger    *slog.Logger

	mu    sync.Mutex
	files []*File
}

func (b *Batch) ID() uuid.UUID {
	return b.id
}

// Add validates candidates and appends them to the batch. Accepted files are
// pending with a preview; rejected files carry their reason. One rejection
// never affects the other files.
func (b *Batch) Add(ctx context.Context, candidates ...*validation.Candidate) []File {
	accepted, err := b.validator.ValidateBatch(ctx, candidates)
	rejections := validation.Rejections(err)

	ok := make(map[*validation.Candidate]bool, len(accepted))
	for _, c := range accepted {
		ok[c] = true
	}

	added := make([]*File, 0, len(candidates))
	next := 0
	for _, c := range candidates {
		f := &File{
			ID:          uuid.New(),
			Name:        c.Filename,
			ContentType: c.ContentType,
			Size:        c.ByteSize(),
			State:       StatePending,
			candidate:   c,
		}

		if !ok[c] {
			if err := transition(f, StateRejected); err != nil {
				b.logger.Error("reject failed", "file", f.Name, "error", err)
			}
			if next < len(rejections) {
				rej := rejections[next]
				f.Reason = rej.Reason
				f.Error = rej.Error()
				b.dz.metrics.Rejection(rej.Reason)
			}
			next++
			f.candidate = nil
		} else {
			f.Preview = b.preview(ctx, f)
		}
		added = append(added, f)
	}

	b.mu.Lock()
	b.files = append(b.files, added...)
	out := snapshot(added)
	b.mu.Unlock()

	b.logger.Info("files added", "accepted", len(accepted), "rejected", len(candidates)-len(accepted))
	return out
}

func (b *Batch) preview(ctx context.Context, f *File) *Preview {
	if b.dz.previews == nil {
		return nil
	}

	p, err := b.dz.previews.Generate(ctx, b.id, f.ID, f.candidate)
	if err != nil {
		if !errors.Is(err, ErrNoPreview) {
			b.logger.Warn("preview failed", "file", f.Name, "error", err)
		}
		return nil
	}
	return p
}

// Submit uploads every pending file in parallel, bounded by the dropzone
// concurrency limit. Each file reaches done with its outcome; a failed upload
// does not stop the others.
func (b *Batch) Submit(ctx context.Context) ([]File, error) {
	b.mu.Lock()
	var pending []*File
	for _, f := range b.files {
		if f.State != StatePending {
			continue
		}
		if err := transition(f, StateUploading); err != nil {
			b.mu.Unlock()
			return nil, err
		}
		pending = append(pending, f)
	}
	b.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.dz.concurrency)

	for _, f := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				b.finish(ctx, f, uploads.Failure{Message: err.Error(), Err: err})
				return nil
			}
			b.finish(ctx, f, b.dz.uploader.Upload(gctx, b.policy, f.candidate, b.folder))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshot(pending), ctx.Err()
}

func (b *Batch) finish(ctx context.Context, f *File, outcome uploads.Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := transition(f, StateDone); err != nil {
		b.logger.Error("finish failed", "file", f.Name, "error", err)
		return
	}

	f.Outcome = outcome
	f.candidate = nil
	if result, ok := uploads.ResultOf(outcome); ok {
		f.Result = &result
	} else if failure, ok := outcome.(uploads.Failure); ok {
		f.Error = failure.Message
	}

	if f.Preview != nil && b.dz.previews != nil {
		b.dz.previews.Remove(ctx, f.Preview.Key)
		f.Preview = nil
	}
}

// Progress counts the batch's files per state.
func (b *Batch) Progress() Progress {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := Progress{Total: len(b.files)}
	for _, f := range b.files {
		switch f.State {
		case StatePending:
			p.Pending++
		case StateUploading:
			p.Uploading++
		case StateDone:
			p.Done++
		case StateRejected:
			p.Rejected++
		}
	}
	return p
}

// Files returns a snapshot of every file in insertion order.
func (b *Batch) Files() []File {
	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshot(b.files)
}

// Discard removes the previews of files that never reached done.
func (b *Batch) Discard(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, f := range b.files {
		if f.Preview != nil && b.dz.previews != nil {
			b.dz.previews.Remove(ctx, f.Preview.Key)
			f.Preview = nil
		}
	}
}

func snapshot(files []*File) []File {
	out := make([]File, len(files))
	for i, f := range files {
		out[i] = *f
		out[i].candidate = nil
	}
	return out
}
