package testutil

import (
	"database/sql"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// TestSeed is the seed used by test dataset services.
const TestSeed uint64 = 42

// TestMonths keeps generated test datasets small.
const TestMonths = 6

func NewTestDatasetService(t *testing.T, db *sql.DB) *service.DatasetService {
	t.Helper()

	return service.NewDatasetService(
		repository.NewDatasetRepository(db),
		TestSeed,
		TestMonths,
		zap.NewNop(),
	)
}

// NewTestSessionService creates a SessionService whose default session owns base.
func NewTestSessionService(t *testing.T, db *sql.DB, base *model.Dataset) *service.SessionService {
	t.Helper()

	return service.NewSessionService(
		NewTestDatasetService(t, db),
		base,
		time.Hour,
		zap.NewNop(),
	)
}

func NewTestDashboardService(t *testing.T) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(zap.NewNop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, cache.NewMemoryCache(16), map[string]bool{"redis_cache": false})
}
