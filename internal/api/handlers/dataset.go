package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// DatasetHandler handles base dataset administration requests
type DatasetHandler struct {
	datasetService *service.DatasetService
	sessionService *service.SessionService
	cache          cache.Cache
	logger         *zap.Logger
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(
	datasetService *service.DatasetService,
	sessionService *service.SessionService,
	c cache.Cache,
	logger *zap.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		sessionService: sessionService,
		cache:          c,
		logger:         logger,
	}
}

// Reseed regenerates and stores the base dataset, then hands it to the default session.
// The body is optional; without a seed the configured seed is used. Cached
// responses are purged afterwards.
//
// Endpoint: POST /api/dataset/reseed
// Request: {"seed": 7}
// Response: 200 OK with model.SessionInfo of the default session
// Error: 400 Bad Request for a malformed body
// Error: 500 Internal Server Error if the dataset cannot be stored
func (h *DatasetHandler) Reseed(w http.ResponseWriter, r *http.Request) {
	var req request.ReseedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	seed := h.datasetService.DefaultSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ds, err := h.datasetService.Reseed(r.Context(), seed)
	if err != nil {
		h.logger.Error("reseed failed", zap.Error(err))
		respondServiceError(w, "failed to reseed dataset", err)
		return
	}
	h.sessionService.ReplaceDefault(ds)

	if n, err := h.cache.Purge(r.Context()); err != nil {
		h.logger.Warn("failed to purge response cache", zap.Error(err))
	} else {
		h.logger.Info("dataset reseeded",
			zap.String("version", ds.Version),
			zap.Uint64("seed", ds.Seed),
			zap.Int("purged", n),
		)
	}

	sc, err := h.sessionService.Get("")
	if err != nil {
		respondServiceError(w, "failed to load default session", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, sc.Info())
}
