package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/testutil"
)

func TestDatasetService(t *testing.T) {
	ctx := context.Background()

	t.Run("load on an empty database seeds and stores a dataset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		ds, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}

		if ds.Seed != testutil.TestSeed {
			t.Errorf("Expected seed %d, got %d", testutil.TestSeed, ds.Seed)
		}
		testutil.AssertRowCount(t, db, "dataset", 1)
		testutil.AssertRowCount(t, db, "metric_record", len(ds.Records))
	})

	t.Run("second load returns the stored dataset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		first, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		second, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}

		if first.Version != second.Version {
			t.Errorf("Expected version %s, got %s", first.Version, second.Version)
		}
		if len(first.Records) != len(second.Records) {
			t.Fatalf("Expected %d records, got %d", len(first.Records), len(second.Records))
		}

		type recordKey struct {
			pm   string
			date string
		}
		stored := make(map[recordKey]model.MetricRecord, len(second.Records))
		for _, rec := range second.Records {
			stored[recordKey{rec.PortfolioManager, rec.Date.Format("2006-01-02")}] = rec
		}
		for _, a := range first.Records {
			b, ok := stored[recordKey{a.PortfolioManager, a.Date.Format("2006-01-02")}]
			if !ok {
				t.Fatalf("Expected stored record for %s on %s", a.PortfolioManager, a.Date.Format("2006-01-02"))
			}
			if a.Agency != b.Agency || a.RentRoll != b.RentRoll || a.ManagementFees != b.ManagementFees {
				t.Errorf("Expected stored record to round trip, got %+v vs %+v", a, b)
			}
		}
	})

	t.Run("reloaded dataset aggregates bit for bit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		generated, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		reloaded, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}

		if a, b := service.Aggregate(generated.Records), service.Aggregate(reloaded.Records); a != b {
			t.Errorf("Expected identical snapshots, got %+v vs %+v", a, b)
		}
	})

	t.Run("stored fee per tenancy must match fees over leases", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		skewed := testutil.NewMetricRecord().WithAvgFeePerTenancy(1500).Build()
		stale := testutil.NewDataset(skewed)
		if err := repository.NewDatasetRepository(db).ReplaceCurrentDataset(ctx, stale); err != nil {
			t.Fatalf("ReplaceCurrentDataset() returned unexpected error: %v", err)
		}

		ds, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		if ds.Version == stale.Version {
			t.Error("Expected the skewed dataset to be regenerated")
		}
	})

	t.Run("consistent stored dataset is kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		stored := testutil.NewDataset(testutil.NewMetricRecord().Build())
		if err := repository.NewDatasetRepository(db).ReplaceCurrentDataset(ctx, stored); err != nil {
			t.Fatalf("ReplaceCurrentDataset() returned unexpected error: %v", err)
		}

		ds, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		if ds.Version != stored.Version {
			t.Errorf("Expected version %s, got %s", stored.Version, ds.Version)
		}
	})

	t.Run("stored dataset without records is regenerated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		empty := testutil.NewDataset()
		if err := repository.NewDatasetRepository(db).ReplaceCurrentDataset(ctx, empty); err != nil {
			t.Fatalf("ReplaceCurrentDataset() returned unexpected error: %v", err)
		}

		ds, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		if ds.Version == empty.Version || len(ds.Records) == 0 {
			t.Errorf("Expected a regenerated dataset, got version %s with %d records", ds.Version, len(ds.Records))
		}
	})

	t.Run("cleared database is seeded again", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		first, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		testutil.CleanDatabase(t, db)
		testutil.AssertRowCount(t, db, "metric_record", 0)

		second, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		if second.Version == first.Version {
			t.Error("Expected a newly generated dataset version")
		}
		testutil.AssertRowCount(t, db, "dataset", 1)
	})

	t.Run("reseed replaces the stored dataset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		first, err := svc.Reseed(ctx, 1)
		if err != nil {
			t.Fatalf("Reseed() returned unexpected error: %v", err)
		}
		second, err := svc.Reseed(ctx, 2)
		if err != nil {
			t.Fatalf("Reseed() returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "dataset", 1)

		stored, err := repository.NewDatasetRepository(db).GetCurrentDataset(ctx)
		if err != nil {
			t.Fatalf("GetCurrentDataset() returned unexpected error: %v", err)
		}
		if stored.Version != second.Version || stored.Version == first.Version {
			t.Errorf("Expected stored version %s, got %s", second.Version, stored.Version)
		}
		if stored.Seed != 2 {
			t.Errorf("Expected seed 2, got %d", stored.Seed)
		}
	})

	t.Run("inconsistent stored dataset is replaced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDatasetService(t, db)

		broken := testutil.NewMetricRecord().Build()
		broken.Properties = broken.Leases + broken.Vacancies + 5
		stale := testutil.NewDataset(broken)
		if err := repository.NewDatasetRepository(db).ReplaceCurrentDataset(ctx, stale); err != nil {
			t.Fatalf("ReplaceCurrentDataset() returned unexpected error: %v", err)
		}

		ds, err := svc.LoadOrSeed(ctx)
		if err != nil {
			t.Fatalf("LoadOrSeed() returned unexpected error: %v", err)
		}
		if ds.Version == stale.Version {
			t.Error("Expected the inconsistent dataset to be regenerated")
		}
		testutil.AssertRowCount(t, db, "dataset", 1)
	})
}
