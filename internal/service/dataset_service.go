package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/generator"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/validation"
)

// DatasetService generates and persists the base dataset every session starts from.
type DatasetService struct {
	datasetRepo *repository.DatasetRepository
	seed        uint64
	months      int
	logger      *zap.Logger
	now         func() time.Time
}

// NewDatasetService creates a new DatasetService.
// seed and months are the defaults used for scheduled reseeds and first start.
func NewDatasetService(
	datasetRepo *repository.DatasetRepository,
	seed uint64,
	months int,
	logger *zap.Logger,
) *DatasetService {
	if months <= 0 {
		months = generator.DefaultMonths
	}
	return &DatasetService{
		datasetRepo: datasetRepo,
		seed:        seed,
		months:      months,
		logger:      logger,
		now:         time.Now,
	}
}

// DefaultSeed returns the seed the service was configured with.
func (s *DatasetService) DefaultSeed() uint64 {
	return s.seed
}

// Generate builds a new in-memory dataset for seed with a fresh version.
// Nothing is persisted.
func (s *DatasetService) Generate(seed uint64) *model.Dataset {
	now := s.now().UTC()
	return &model.Dataset{
		Version:     uuid.New().String(),
		GeneratedAt: now,
		Seed:        seed,
		Months:      s.months,
		Records: generator.Generate(generator.Config{
			Seed:   seed,
			Months: s.months,
			End:    now,
		}),
	}
}

// Reseed generates a dataset for seed and stores it as the current base dataset.
func (s *DatasetService) Reseed(ctx context.Context, seed uint64) (*model.Dataset, error) {
	ds := s.Generate(seed)
	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("%w: no records for %d months", apperrors.ErrFailedToGenerateDataset, s.months)
	}

	if err := s.datasetRepo.ReplaceCurrentDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToStoreDataset, err)
	}

	s.logger.Info("base dataset reseeded",
		zap.String("version", ds.Version),
		zap.Uint64("seed", ds.Seed),
		zap.Int("rows", len(ds.Records)),
	)
	return ds, nil
}

// LoadOrSeed returns the stored base dataset, generating and storing one with
// the configured seed when the database is empty.
func (s *DatasetService) LoadOrSeed(ctx context.Context) (*model.Dataset, error) {
	ds, err := s.datasetRepo.GetCurrentDataset(ctx)
	if errors.Is(err, apperrors.ErrDatasetNotLoaded) {
		s.logger.Info("no stored dataset, seeding", zap.Uint64("seed", s.seed))
		return s.Reseed(ctx, s.seed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadDataset, err)
	}
	minDate, maxDate, err := s.datasetRepo.GetDateRange(ctx, ds.Version)
	if errors.Is(err, apperrors.ErrEmptyDataset) {
		s.logger.Warn("stored dataset has no records, reseeding", zap.String("version", ds.Version))
		return s.Reseed(ctx, s.seed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadDataset, err)
	}
	if err := checkDataset(ds); err != nil {
		s.logger.Warn("stored dataset is inconsistent, reseeding", zap.Error(err))
		return s.Reseed(ctx, s.seed)
	}

	s.logger.Info("base dataset loaded",
		zap.String("version", ds.Version),
		zap.Int("rows", len(ds.Records)),
		zap.Time("min_date", minDate),
		zap.Time("max_date", maxDate),
	)
	return ds, nil
}

// feeTolerance is the relative tolerance for the stored average fee per tenancy.
const feeTolerance = 1e-9

// checkDataset reports the first record that violates a dataset invariant.
// On top of the per-record validation, the stored average fee per tenancy
// must match management fees over leases.
func checkDataset(ds *model.Dataset) error {
	for i, rec := range ds.Records {
		err := validation.ValidateMetricRecord(rec)
		if err == nil {
			want := AvgFeePerTenancy(rec.ManagementFees, float64(rec.Leases))
			if math.Abs(rec.AvgFeePerTenancy-want) > feeTolerance*math.Max(1, math.Abs(want)) {
				err = fmt.Errorf("avg fee per tenancy %.2f does not match %.2f", rec.AvgFeePerTenancy, want)
			}
		}
		if err != nil {
			return fmt.Errorf("%w: record %d (%s, %s): %w",
				apperrors.ErrDataInconsistency, i, rec.PortfolioManager, rec.Date.Format("2006-01"), err)
		}
	}
	return nil
}
