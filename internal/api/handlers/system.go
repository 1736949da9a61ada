package handlers

import (
	"net/http"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database or cache is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// VersionInfoResponse represents the version check response containing application
// and database version information, feature availability, and migration status.
type VersionInfoResponse struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message"`
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, database version, available features, and any pending migrations.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to get version information", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion:       version.AppVersion,
		DbVersion:        version.DbVersion,
		Features:         version.Features,
		MigrationNeeded:  version.MigrationNeeded,
		MigrationMessage: version.MigrationMessage,
	})
}
