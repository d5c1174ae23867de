package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coursekit/playground/internal/auth"
	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/sections"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlaygroundService is the interface that wraps methods for the lesson playground
type PlaygroundService interface {
	// Method ListCourses returns every course of the catalog.
	ListCourses(ctx context.Context) []models.CourseListItem
	// Method Syllabus returns a course with the caller's progress in each of its lessons.
	//
	// "courseID" identifies the course.
	// "owner" is the caller, a user or a guest.
	//
	// Returns models.ErrNotFound for an unknown course and models.ErrUnauthorized or
	// models.ErrForbidden when the caller may not open it.
	Syllabus(ctx context.Context, courseID string, owner models.Identity) (*models.Syllabus, error)
	// Method ResumeLesson returns the section a lesson should be opened at.
	//
	// "courseID" and "lessonID" identify the lesson.
	// "owner" is the caller, a user or a guest.
	//
	// Please reference Syllabus method for more information about error values.
	ResumeLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (int, error)
	// Method ResolveSection computes the view of a section from the caller's progress.
	//
	// "section" is the 1-based section number; a section outside the lesson yields models.ErrNotFound.
	//
	// Please reference Syllabus method for more information about error values.
	ResolveSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error)
	// Method SubmitSection validates and stores the values of a section, then renders the lesson output.
	//
	// "values" are the submitted field values.
	//
	// Returns a *services.ValidationError when the values are rejected, models.ErrExternalService
	// when rendering fails, and the errors of ResolveSection.
	SubmitSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity, values models.FieldValues) (*models.SubmitResult, error)
	// Method ResetSection clears the values of a section and every completion from it onwards.
	//
	// Please reference ResolveSection method for more information about parameters and error values.
	ResetSection(ctx context.Context, courseID, lessonID string, section int, owner models.Identity) (*models.SectionView, error)
	// Method RestartLesson deletes the caller's progress in a lesson and returns the path of its first section.
	//
	// Please reference Syllabus method for more information about error values.
	RestartLesson(ctx context.Context, courseID, lessonID string, owner models.Identity) (string, error)
}

// PlaygroundHandler handles HTTP requests for the lesson playground
type PlaygroundHandler struct {
	BaseHandler
	service PlaygroundService
}

// NewPlaygroundHandler creates a new playground handler
func NewPlaygroundHandler(svc PlaygroundService, logger *zap.Logger) *PlaygroundHandler {
	return &PlaygroundHandler{
		service:     svc,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// ResumeResponse tells the client which section to open
type ResumeResponse struct {
	Section int    `json:"section"`
	Href    string `json:"href"`
}

// RedirectResponse carries a path the client should navigate to
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// RegisterRoutes registers all playground routes.
// Note: This assumes the router is already scoped to /api/v1
func (h *PlaygroundHandler) RegisterRoutes(r chi.Router, identityMiddleware func(http.Handler) http.Handler) {
	r.Get("/courses", h.ListCourses)
	r.Group(func(r chi.Router) {
		r.Use(identityMiddleware)
		r.Get("/playground/{courseID}", h.Syllabus)
		r.Get("/playground/{courseID}/{lessonID}", h.ResumeLesson)
		r.Delete("/playground/{courseID}/{lessonID}", h.RestartLesson)
		r.Get("/playground/{courseID}/{lessonID}/{section}", h.ResolveSection)
		r.Post("/playground/{courseID}/{lessonID}/{section}", h.SubmitSection)
		r.Delete("/playground/{courseID}/{lessonID}/{section}", h.ResetSection)
	})
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Get every course of the catalog with its access level
// @Tags playground
// @Produce json
// @Success 200 {array} models.CourseListItem "List of courses"
// @Router /courses [get]
func (h *PlaygroundHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, h.service.ListCourses(r.Context()))
}

// Syllabus handles GET /playground/{courseID}
// @Summary Get course syllabus
// @Description Get a course with the caller's progress in each lesson
// @Tags playground
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Success 200 {object} models.Syllabus "Course syllabus"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 403 {object} map[string]string "Plan upgrade required"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /playground/{courseID} [get]
func (h *PlaygroundHandler) Syllabus(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}

	syllabus, err := h.service.Syllabus(r.Context(), chi.URLParam(r, "courseID"), owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to get syllabus")
		return
	}

	h.RespondJSON(w, http.StatusOK, syllabus)
}

// ResumeLesson handles GET /playground/{courseID}/{lessonID}
// @Summary Resume a lesson
// @Description Get the section a lesson should be opened at: the first section not yet completed
// @Tags playground
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} ResumeResponse "Section to open"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 403 {object} map[string]string "Plan upgrade required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 502 {object} map[string]string "Content unavailable"
// @Router /playground/{courseID}/{lessonID} [get]
func (h *PlaygroundHandler) ResumeLesson(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}
	courseID, lessonID := chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID")

	section, err := h.service.ResumeLesson(r.Context(), courseID, lessonID, owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to resume lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, ResumeResponse{
		Section: section,
		Href:    sections.Href(courseID, lessonID, section),
	})
}

// ResolveSection handles GET /playground/{courseID}/{lessonID}/{section}
// @Summary Get a section
// @Description Get the view of a section: its input fields with default values, rendered output and navigation
// @Tags playground
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Param section path int true "Section number, starting at 1"
// @Success 200 {object} models.SectionView "Section view"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 403 {object} map[string]string "Plan upgrade required"
// @Failure 404 {object} map[string]string "Section not found"
// @Failure 500 {object} map[string]string "Stored progress unreadable"
// @Failure 502 {object} map[string]string "Content unavailable"
// @Router /playground/{courseID}/{lessonID}/{section} [get]
func (h *PlaygroundHandler) ResolveSection(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}
	section, ok := h.section(w, r)
	if !ok {
		return
	}

	view, err := h.service.ResolveSection(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"), section, owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to resolve section")
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// SubmitSection handles POST /playground/{courseID}/{lessonID}/{section}
// @Summary Submit a section
// @Description Validate and store the section's values, then render the lesson output
// @Tags playground
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Param section path int true "Section number, starting at 1"
// @Param request body models.SubmitSectionRequest true "Field values keyed by kind:name"
// @Success 200 {object} models.SubmitResult "Updated view and the path to navigate to"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Registration required"
// @Failure 403 {object} map[string]string "Plan upgrade required"
// @Failure 404 {object} map[string]string "Section not found"
// @Failure 422 {object} validationResponse "Rejected values"
// @Failure 502 {object} map[string]string "Rendering failed"
// @Router /playground/{courseID}/{lessonID}/{section} [post]
func (h *PlaygroundHandler) SubmitSection(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}
	section, ok := h.section(w, r)
	if !ok {
		return
	}

	var req models.SubmitSectionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Values == nil {
		req.Values = models.FieldValues{}
	}

	result, err := h.service.SubmitSection(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"), section, owner, req.Values)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to submit section")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// ResetSection handles DELETE /playground/{courseID}/{lessonID}/{section}
// @Summary Reset a section
// @Description Clear the section's values and mark it and every later section as not completed
// @Tags playground
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Param section path int true "Section number, starting at 1"
// @Success 200 {object} models.SectionView "Section view after the reset"
// @Failure 404 {object} map[string]string "Section not found"
// @Router /playground/{courseID}/{lessonID}/{section} [delete]
func (h *PlaygroundHandler) ResetSection(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}
	section, ok := h.section(w, r)
	if !ok {
		return
	}

	view, err := h.service.ResetSection(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"), section, owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to reset section")
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// RestartLesson handles DELETE /playground/{courseID}/{lessonID}
// @Summary Restart a lesson
// @Description Delete the caller's progress in the lesson
// @Tags playground
// @Produce json
// @Security ApiKeyAuth
// @Param courseID path string true "Course ID"
// @Param lessonID path string true "Lesson ID"
// @Success 200 {object} RedirectResponse "Path of the first section"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Router /playground/{courseID}/{lessonID} [delete]
func (h *PlaygroundHandler) RestartLesson(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.identity(w, r)
	if !ok {
		return
	}

	href, err := h.service.RestartLesson(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonID"), owner)
	if err != nil {
		h.RespondServiceError(w, r, err, "failed to restart lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, RedirectResponse{Redirect: href})
}

// identity extracts the caller placed in the context by auth.IdentityMiddleware
func (h *BaseHandler) identity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	owner, ok := auth.GetIdentity(r.Context())
	if !ok {
		h.Logger.Error("identity not found in context")
		h.RespondError(w, http.StatusUnauthorized, "identity not found in context")
		return models.Identity{}, false
	}
	return owner, true
}

// section parses the section path parameter. A malformed number addresses no section.
func (h *PlaygroundHandler) section(w http.ResponseWriter, r *http.Request) (int, bool) {
	section, err := strconv.Atoi(chi.URLParam(r, "section"))
	if err != nil || section < 1 {
		h.RespondError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return section, true
}
