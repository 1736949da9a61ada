package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/validation"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrDatasetNotLoaded),
		errors.Is(err, apperrors.ErrEmptyDataset):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnknownMetric),
		errors.Is(err, apperrors.ErrUnknownPeriod),
		errors.Is(err, apperrors.ErrInvalidPeriodType),
		errors.Is(err, apperrors.ErrInvalidCalendar),
		errors.Is(err, apperrors.ErrInvalidExportFormat),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrNoDataBeforeDate):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDefaultSession):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status from statusForError.
// Validation errors carry their field map as details.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, message, verr.Fields)
		return
	}
	response.RespondError(w, statusForError(err), message, err.Error())
}

// filterState parses and validates the dashboard query parameters of r.
func filterState(r *http.Request) (model.FilterState, error) {
	return validation.ValidateDashboardQuery(request.ParseDashboardQuery(r))
}

// sessionDataset returns the dataset of the session attached by SessionMiddleware.
func sessionDataset(w http.ResponseWriter, r *http.Request) (*model.Dataset, bool) {
	sc, ok := middleware.SessionFromContext(r.Context())
	if !ok || sc.Dataset == nil {
		response.RespondError(w, http.StatusInternalServerError, "session not loaded", "")
		return nil, false
	}
	return sc.Dataset, true
}
