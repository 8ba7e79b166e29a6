package dropzone

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/handlers"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

// MaxBatchFiles bounds the number of files in one batch request.
const MaxBatchFiles = 10

var ErrBatchSize = fmt.Errorf("a batch holds between 1 and %d files", MaxBatchFiles)

// Handler accepts multi-file uploads through a dropzone batch.
type Handler struct {
	dz       *Dropzone
	policies validation.Policies
	folder   string
	logger   *slog.Logger
}

func NewHandler(dz *Dropzone, policies validation.Policies, folder string, logger *slog.Logger) *Handler {
	return &Handler{
		dz:       dz,
		policies: policies,
		folder:   folder,
		logger:   logger.With("handler", "dropzone"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/uploads",
		Tags:        []string{"Uploads"},
		Description: "Multi-file uploads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{policy}/batch", Handler: h.Batch, OpenAPI: Spec.Batch},
		},
	}
}

// BatchResponse is the result of a batch upload.
type BatchResponse struct {
	Batch    uuid.UUID `json:"batch"`
	Files    []File    `json:"files"`
	Progress Progress  `json:"progress"`
}

func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policies.Lookup(r.PathValue("policy"))
	if err != nil {
		handlers.RespondError(w, h.logger, uploads.MapHTTPStatus(err), err)
		return
	}

	perFile := uploads.MaxFormBytes(policy)
	r.Body = http.MaxBytesReader(w, r.Body, perFile*MaxBatchFiles)
	if err := r.ParseMultipartForm(perFile); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, uploads.ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", uploads.ErrInvalidFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	fhs := r.MultipartForm.File["files"]
	if len(fhs) == 0 || len(fhs) > MaxBatchFiles {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBatchSize)
		return
	}

	candidates, err := readParts(fhs)
	if err != nil {
		handlers.RespondError(w, h.logger, uploads.MapHTTPStatus(err), err)
		return
	}

	batch := h.dz.NewBatch(policy, uploads.ResolveFolder(h.folder, r.FormValue("folder")))
	defer batch.Discard(r.Context())

	batch.Add(r.Context(), candidates...)
	if _, err := batch.Submit(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, BatchResponse{
		Batch:    batch.ID(),
		Files:    batch.Files(),
		Progress: batch.Progress(),
	})
}

func readParts(fhs []*multipart.FileHeader) ([]*validation.Candidate, error) {
	out := make([]*validation.Candidate, 0, len(fhs))
	for _, fh := range fhs {
		c, err := uploads.CandidateFromPart(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
