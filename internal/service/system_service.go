package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	cache    cache.Cache
	features map[string]bool
}

// NewSystemService creates a new SystemService.
// features is reported as-is by CheckVersion; c may be nil when caching is disabled.
func NewSystemService(db *sql.DB, c cache.Cache, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		cache:    c,
		features: features,
	}
}

// CheckHealth checks the health of the database and, when configured, the cache.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	if err := database.HealthCheck(s.db); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	return nil
}

// CheckVersion reports the application version, the applied schema version and
// whether embedded migrations are still pending.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	current, err := database.Version(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	latest, err := database.LatestVersion()
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	info := model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(current, 10),
		Features:   s.features,
	}
	if current < latest {
		msg := fmt.Sprintf("database schema at version %d, latest is %d", current, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
