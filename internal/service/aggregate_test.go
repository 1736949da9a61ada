package service_test

import (
	"math"
	"testing"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/testutil"
)

// TestAggregate tests the sum/mean reduction policy.
//
// WHY: Every KPI card and table is built from Aggregate. Summing a rate or
// averaging a count silently produces plausible but wrong numbers.
func TestAggregate(t *testing.T) {
	t.Run("zero rows produce an all-zero snapshot", func(t *testing.T) {
		snap := service.Aggregate(nil)

		if snap != (model.MetricSnapshot{}) {
			t.Errorf("Expected zero snapshot, got %+v", snap)
		}
		for _, m := range model.Metrics {
			if math.IsNaN(snap.Value(m)) {
				t.Errorf("Expected 0 for %s, got NaN", m)
			}
		}
	})

	t.Run("counts and currency are summed, rates are averaged", func(t *testing.T) {
		rows := []model.MetricRecord{
			testutil.NewMetricRecord().WithProperties(100, 80).WithRentRoll(1000).WithAvgFeePerTenancy(500).Build(),
			testutil.NewMetricRecord().WithManager("Sarah Chen").WithProperties(200, 200).WithRentRoll(3000).WithAvgFeePerTenancy(700).Build(),
		}

		snap := service.Aggregate(rows)

		if snap.Rows != 2 {
			t.Errorf("Expected 2 rows, got %d", snap.Rows)
		}
		if snap.Properties != 300 {
			t.Errorf("Expected properties 300, got %v", snap.Properties)
		}
		if snap.Vacancies != 20 {
			t.Errorf("Expected vacancies 20, got %v", snap.Vacancies)
		}
		if snap.RentRoll != 4000 {
			t.Errorf("Expected rent roll 4000, got %v", snap.RentRoll)
		}
		// (80% + 100%) / 2
		if snap.OccupancyRate != 90 {
			t.Errorf("Expected mean occupancy 90, got %v", snap.OccupancyRate)
		}
		if snap.AvgFeePerTenancy != 600 {
			t.Errorf("Expected mean avg fee 600, got %v", snap.AvgFeePerTenancy)
		}
	})
}

func TestAggregateBy(t *testing.T) {
	jan := testutil.Month(2024, time.January)
	feb := testutil.Month(2024, time.February)
	rows := []model.MetricRecord{
		testutil.NewMetricRecord().WithDate(jan).WithManager("A").WithRentRoll(100).Build(),
		testutil.NewMetricRecord().WithDate(feb).WithManager("A").WithRentRoll(200).Build(),
		testutil.NewMetricRecord().WithDate(jan).WithManager("B").WithRentRoll(50).Build(),
	}

	t.Run("groups by portfolio manager", func(t *testing.T) {
		groups := service.AggregateBy(rows, service.ByPortfolioManager)

		if got := service.SortedKeys(groups); len(got) != 2 || got[0] != "A" || got[1] != "B" {
			t.Fatalf("Expected keys [A B], got %v", got)
		}
		if groups["A"].RentRoll != 300 {
			t.Errorf("Expected A rent roll 300, got %v", groups["A"].RentRoll)
		}
		if groups["A"].Rows != 2 {
			t.Errorf("Expected A to have 2 rows, got %d", groups["A"].Rows)
		}
	})

	t.Run("groups by date", func(t *testing.T) {
		groups := service.AggregateBy(rows, service.ByDate)

		if groups["2024-01-01"].RentRoll != 150 {
			t.Errorf("Expected January rent roll 150, got %v", groups["2024-01-01"].RentRoll)
		}
	})

	t.Run("groups by agency", func(t *testing.T) {
		mixed := append([]model.MetricRecord{
			testutil.NewMetricRecord().WithDate(jan).WithAgency("Residential North").WithManager("C").WithRentRoll(25).Build(),
		}, rows...)
		groups := service.AggregateBy(mixed, service.ByAgency)

		if len(groups) != 2 {
			t.Fatalf("Expected 2 agencies, got %d", len(groups))
		}
		if groups["Residential North"].RentRoll != 25 {
			t.Errorf("Expected Residential North rent roll 25, got %v", groups["Residential North"].RentRoll)
		}
		if groups["Commercial CBD"].RentRoll != 350 {
			t.Errorf("Expected Commercial CBD rent roll 350, got %v", groups["Commercial CBD"].RentRoll)
		}
	})

	t.Run("series by date is ascending and uses the metric policy", func(t *testing.T) {
		points := service.SeriesByDate(rows, model.MetricRentRoll)

		if len(points) != 2 {
			t.Fatalf("Expected 2 points, got %d", len(points))
		}
		if !points[0].Date.Equal(jan) || points[0].Value != 150 {
			t.Errorf("Expected first point Jan=150, got %v=%v", points[0].Date, points[0].Value)
		}
		if !points[1].Date.Equal(feb) || points[1].Value != 200 {
			t.Errorf("Expected second point Feb=200, got %v=%v", points[1].Date, points[1].Value)
		}
	})
}

// TestFilterRecords tests agency and manager filtering.
//
// WHY: Filtering must never alias the session dataset; a caller appending to
// the result would otherwise corrupt another request's view.
func TestFilterRecords(t *testing.T) {
	ds := testutil.SampleDataset()

	tests := []struct {
		name    string
		agency  string
		manager string
		want    int
	}{
		{"sentinels select everything", model.AllAgencies, model.AllManagers, 9},
		{"all and empty select everything", model.AllValues, "", 9},
		{"agency only", "Commercial CBD", model.AllManagers, 6},
		{"manager only", model.AllAgencies, "Nash Eli", 3},
		{"agency and manager are AND-composed", "Commercial CBD", "Nash Eli", 0},
		{"unknown agency", "Nowhere", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.FilterRecords(ds.Records, tt.agency, tt.manager)
			if len(got) != tt.want {
				t.Errorf("Expected %d records, got %d", tt.want, len(got))
			}
		})
	}

	t.Run("result never shares the input backing array", func(t *testing.T) {
		got := service.FilterRecords(ds.Records, "", "")
		got[0].PortfolioManager = "Changed"

		if ds.Records[0].PortfolioManager == "Changed" {
			t.Error("Expected input records to be untouched")
		}
	})

	t.Run("records on date", func(t *testing.T) {
		got := service.RecordsOnDate(ds.Records, testutil.Month(2024, time.February))
		if len(got) != 3 {
			t.Errorf("Expected 3 February records, got %d", len(got))
		}
	})
}
