package dropzone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/storage"
)

const (
	previewDPI = 72
	pdfType    = "application/pdf"
)

var ErrNoPreview = errors.New("no preview for content type")

// Preview locates a stored preview.
type Preview struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

// Previews renders and stores file previews: images are kept as they are and
// the first page of a PDF is rendered to PNG.
type Previews struct {
	storage storage.System
	logger  *slog.Logger
}

func NewPreviews(store storage.System, logger *slog.Logger) *Previews {
	return &Previews{
		storage: store,
		logger:  logger.With("system", "previews"),
	}
}

// Generate stores a preview of c for the file id in batch.
func (p *Previews) Generate(ctx context.Context, batch, id uuid.UUID, c *validation.Candidate) (*Preview, error) {
	ct := strings.ToLower(c.ContentType)

	switch {
	case strings.HasPrefix(ct, "image/"):
		key := previewKey(batch, id, path.Ext(c.Filename))
		if err := p.storage.Store(ctx, key, c.Data); err != nil {
			return nil, fmt.Errorf("store preview: %w", err)
		}
		return &Preview{Key: key, ContentType: ct}, nil

	case ct == pdfType:
		data, err := p.renderFirstPage(ctx, batch, id, c.Data)
		if err != nil {
			return nil, err
		}
		key := previewKey(batch, id, ".png")
		if err := p.storage.Store(ctx, key, data); err != nil {
			return nil, fmt.Errorf("store preview: %w", err)
		}
		return &Preview{Key: key, ContentType: "image/png"}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoPreview, ct)
}

// Retrieve returns the stored preview bytes.
func (p *Previews) Retrieve(ctx context.Context, key string) ([]byte, error) {
	return p.storage.Retrieve(ctx, key)
}

// Remove deletes a stored preview.
func (p *Previews) Remove(ctx context.Context, key string) {
	if err := p.storage.Delete(ctx, key); err != nil {
		p.logger.Warn("preview cleanup failed", "key", key, "error", err)
	}
}

// renderFirstPage stages the PDF in storage so the renderer can read it from
// disk, renders page 1, and removes the staged copy.
func (p *Previews) renderFirstPage(ctx context.Context, batch, id uuid.UUID, data []byte) ([]byte, error) {
	staged := fmt.Sprintf("staging/%s/%s.pdf", batch, id)
	if err := p.storage.Store(ctx, staged, data); err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}
	defer p.storage.Delete(ctx, staged)

	docPath, err := p.storage.Path(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}

	doc, err := document.Open(docPath, pdfType)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(dcconfig.ImageConfig{
		Format:  "png",
		DPI:     previewDPI,
		Options: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	page, err := doc.ExtractPage(1)
	if err != nil {
		return nil, fmt.Errorf("extract page: %w", err)
	}

	out, err := page.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out, nil
}

func previewKey(batch, id uuid.UUID, ext string) string {
	return fmt.Sprintf("previews/%s/%s%s", batch, id, strings.ToLower(ext))
}
