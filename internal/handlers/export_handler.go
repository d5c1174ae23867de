package handlers

import (
	"context"
	"net/http"

	"github.com/coursekit/playground/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ExportService is the interface that wraps methods for exported lesson outputs
type ExportService interface {
	// Method Create snapshots the rendered output of a lesson.
	//
	// "owner" must be a signed-in user.
	// "courseID" and "lessonID" identify the lesson.
	// "req" carries the name shown on the export and its visibility.
	//
	// Returns models.ErrNothingToExport when the lesson has no output yet.
	Create(ctx context.Context, owner models.Identity, courseID, lessonID string, req models.CreateExportRequest) (*models.ExportedOutput, error)
	// Method Get returns an export and counts the view.
	//
	// "viewer" may be a guest. A private export is only visible to its owner; for anyone
	// else models.ErrNotFound is returned.
	Get(ctx context.Context, viewer models.Identity, id string) (*models.ExportedOutput, error)
	// Method ListMine returns the exports of a user, newest first.
	ListMine(ctx context.Context, owner models.Identity) ([]models.ExportedOutput, error)
	// Method SetVisibility makes an export public or private.
	//
	// Returns models.ErrNotFound when the export does not exist or belongs to someone else.
	SetVisibility(ctx context.Context, owner models.Identity, id string, isPublic bool) (*models.ExportedOutput, error)
}

// ExportHandler handles HTTP requests for exported lesson outputs
type ExportHandler struct {
	BaseHandler
	service ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all export routes.
// identityMiddleware resolves the caller; requireUser rejects guests.
func (h *ExportHandler) RegisterRoutes(r chi.Router, identityMiddleware, requireUser func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(identityMiddleware)
		r.Get("/exports/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/playground/{courseID}/{lessonID}/exports", h.Create)
			r.Get("/exports", h.ListMine)
			r.Patch("/exports/{id}", h.SetVisibility)
		})
	})
}

// Create handles POST /playground/{courseID}/{lessonID}/exports
// @Summary Export a lesson output
// @Description Snapshot the rendered output of a lesson under the given name
// @Tags exports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Param request body models.CreateExportRequest true "Export options"
// @Success 201 {object} models.ExportedOutput "Created export"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 409 {object} map[string]string "Nothing to export"
// @Router /playground/{courseID}/{lessonID}/exports [post]
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.CreateExportRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	export, err := h.service.Create(r.Context(), owner, chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"), req)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to create export")
		return
	}

	h.RespondJSON(w, http.StatusCreated, export)
}

// Get handles GET /exports/{id}
// @Summary Get an export
// @Description Get an exported lesson output; every view by someone other than the owner is counted
// @Tags exports
// @Produce json
// @Param id path string true "Export ID"
// @Success 200 {object} models.ExportedOutput "Export"
// @Failure 404 {object} map[string]string "Export not found"
// @Router /exports/{id} [get]
func (h *ExportHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.identity(w, r)
	if !ok {
		return
	}

	export, err := h.service.Get(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get export")
		return
	}

	h.RespondJSON(w, http.StatusOK, export)
}

// ListMine handles GET /exports
// @Summary List my exports
// @Description Get the caller's exports, newest first
// @Tags exports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ExportedOutput "Exports"
// @Failure 401 {object} map[string]string "Registration required"
// @Router /exports [get]
func (h *ExportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}

	exports, err := h.service.ListMine(r.Context(), owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to list exports")
		return
	}

	h.RespondJSON(w, http.StatusOK, exports)
}

// SetVisibility handles PATCH /exports/{id}
// @Summary Change export visibility
// @Description Make one of the caller's exports public or private
// @Tags exports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Export ID"
// @Param request body models.UpdateExportRequest true "Visibility"
// @Success 200 {object} models.ExportedOutput "Updated export"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 404 {object} map[string]string "Export not found"
// @Router /exports/{id} [patch]
func (h *ExportHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.UpdateExportRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	export, err := h.service.SetVisibility(r.Context(), owner, chi.URLParam(r, "id"), req.IsPublic)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to update export")
		return
	}

	h.RespondJSON(w, http.StatusOK, export)
}
