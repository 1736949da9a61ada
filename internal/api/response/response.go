// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses, standardized error responses and file downloads.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error,
// such as the per-field messages of a validation error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Encoding errors are logged to the global zap logger; the status is already written by then.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
		}
	}
}

// RespondError sends a structured error response with the given status code.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "invalid dashboard query", verr.Fields)
//	response.RespondError(w, http.StatusNotFound, "session not found", err.Error())
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// RespondFile sends body as a download named filename.
func RespondFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		zap.L().Warn("failed to write file response", zap.String("filename", filename), zap.Error(err))
	}
}
