package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// SessionHandler handles dashboard session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// Create starts a session with its own copy of the base dataset.
//
// Endpoint: POST /api/session
// Response: 201 Created with model.SessionInfo
func (h *SessionHandler) Create(w http.ResponseWriter, _ *http.Request) {
	sc := h.sessionService.Create()
	response.RespondJSON(w, http.StatusCreated, sc.Info())
}

// Get returns information about a session and its dataset.
//
// Endpoint: GET /api/session/{uuid}
// Response: 200 OK with model.SessionInfo
// Error: 404 Not Found if the session does not exist
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.sessionService.Get(chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, "failed to get session", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, sc.Info())
}

// Refresh regenerates the session's dataset with a new seed.
//
// Endpoint: POST /api/session/{uuid}/refresh
// Response: 200 OK with model.SessionInfo
// Error: 404 Not Found if the session does not exist
// Error: 409 Conflict for the default session
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sc, err := h.sessionService.Refresh(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, "failed to refresh session", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, sc.Info())
}

// Delete removes a session.
//
// Endpoint: DELETE /api/session/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the session does not exist
// Error: 409 Conflict for the default session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Delete(chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, "failed to delete session", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
