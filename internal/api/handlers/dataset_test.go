package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/handlers"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/testutil"
)

// TestDatasetHandler_Reseed tests the POST /api/dataset/reseed endpoint.
//
// WHY: Reseeding changes what every client without a session sees. The
// default session must pick up the stored dataset immediately.
func TestDatasetHandler_Reseed(t *testing.T) {
	setup := func(t *testing.T) (*handlers.DatasetHandler, *model.Dataset) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		datasets := testutil.NewTestDatasetService(t, db)
		base, err := datasets.LoadOrSeed(context.Background())
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		sessions := testutil.NewTestSessionService(t, db, base)
		return handlers.NewDatasetHandler(datasets, sessions, cache.NewMemoryCache(8), zap.NewNop()), base
	}

	t.Run("stores a dataset with the requested seed", func(t *testing.T) {
		handler, base := setup(t)

		req := httptest.NewRequest(http.MethodPost, "/api/dataset/reseed", strings.NewReader(`{"seed": 7}`))
		w := httptest.NewRecorder()
		handler.Reseed(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		info := decodeSessionInfo(t, w)
		if !info.Default {
			t.Error("Expected the default session")
		}
		if info.DatasetVersion == base.Version {
			t.Error("Expected a new dataset version")
		}
	})

	t.Run("accepts an empty body", func(t *testing.T) {
		handler, _ := setup(t)

		w := httptest.NewRecorder()
		handler.Reseed(w, httptest.NewRequest(http.MethodPost, "/api/dataset/reseed", http.NoBody))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler, _ := setup(t)

		req := httptest.NewRequest(http.MethodPost, "/api/dataset/reseed", strings.NewReader(`{"seed":`))
		w := httptest.NewRecorder()
		handler.Reseed(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
