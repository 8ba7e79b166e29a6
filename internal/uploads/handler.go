package uploads

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/rental-portal/internal/validation"
	"github.com/JaimeStill/rental-portal/pkg/handlers"
	"github.com/JaimeStill/rental-portal/pkg/pagination"
	"github.com/JaimeStill/rental-portal/pkg/routes"
)

// multipartOverhead is headroom for form fields and boundaries on top of the largest allowed file.
const multipartOverhead = 1 << 20

// Handler provides HTTP endpoints for uploads and the upload ledger.
type Handler struct {
	sys        System
	policies   validation.Policies
	folder     string
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, policies validation.Policies, folder string, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		policies:   policies,
		folder:     folder,
		logger:     logger.With("handler", "uploads"),
		pagination: pagination,
	}
}

// Routes returns the upload endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/uploads",
		Tags:        []string{"Uploads"},
		Description: "Signed uploads to the object-storage provider",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "/{policy}", Handler: h.Upload, OpenAPI: Spec.Upload},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ledger := h.sys.Ledger()
	if ledger == nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrNoLedger), ErrNoLedger)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := ledger.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	ledger := h.sys.Ledger()
	if ledger == nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrNoLedger), ErrNoLedger)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entry, err := ledger.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policies.Lookup(r.PathValue("policy"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	limit := MaxFormBytes(policy)
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidFile, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	fhs := r.MultipartForm.File["file"]
	if len(fhs) != 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	candidate, err := CandidateFromPart(fhs[0])
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	outcome := h.sys.Upload(r.Context(), policy, candidate, ResolveFolder(h.folder, r.FormValue("folder")))
	if f, ok := outcome.(Failure); ok {
		handlers.RespondError(w, h.logger, MapHTTPStatus(f), f)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, Response(outcome))
}

// MaxFormBytes bounds a multipart request for policy.
func MaxFormBytes(policy validation.Policy) int64 {
	return max(policy.MaxImageBytes, policy.MaxDocumentBytes) + multipartOverhead
}

// ResolveFolder folds an optional sub-folder into base as a single folder
// segment, so every public id stays "<folder>/<name>". Traversal segments are
// dropped and nested segments are joined with "-".
func ResolveFolder(base, sub string) string {
	sub = strings.Trim(path.Clean("/"+sub), "/")
	if sub == "" {
		return base
	}
	return base + "-" + strings.ReplaceAll(sub, "/", "-")
}
