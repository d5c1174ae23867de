package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursekit/playground/internal/models"
	"github.com/coursekit/playground/internal/services"
	"go.uber.org/zap"
)

const (
	registerPath = "/register"
	pricingPath  = "/pricing"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// validationResponse is the body of a rejected submission
type validationResponse struct {
	Error  string              `json:"error"`
	Fields map[string]string   `json:"fields"`
	View   *models.SectionView `json:"view"`
}

// RespondServiceError maps an error returned by a service to a status code and body.
// Unexpected errors are logged and hidden behind a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.RespondJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:  "invalid submission",
			Fields: validationErr.Fields,
			View:   validationErr.View,
		})
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrUnauthorized):
		h.RespondJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    models.ErrUnauthorized.Error(),
			"redirect": registerPath,
		})
	case errors.Is(err, models.ErrForbidden):
		h.RespondJSON(w, http.StatusForbidden, map[string]string{
			"error":    models.ErrForbidden.Error(),
			"redirect": pricingPath,
		})
	case errors.Is(err, models.ErrNothingToExport):
		h.RespondError(w, http.StatusConflict, models.ErrNothingToExport.Error())
	case errors.Is(err, models.ErrDataIntegrity):
		h.Logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
		h.RespondError(w, http.StatusInternalServerError, "stored progress is unreadable, please contact support")
	case errors.Is(err, models.ErrExternalService):
		h.Logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
		h.RespondError(w, http.StatusBadGateway, "a dependent service is unavailable, please try again")
	default:
		h.Logger.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into dst, answering the client itself on failure
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
