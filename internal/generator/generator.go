// Package generator produces the seeded mock dataset the dashboard runs on.
//
// Output is fully determined by Config: the same seed, window and end date always
// produce the same records, one per portfolio manager per month.
package generator

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint64 = 42

// DefaultMonths is the default lookback window.
const DefaultMonths = 24

// DefaultAgencies are the agencies portfolio managers are assigned to.
var DefaultAgencies = []string{
	"Commercial CBD",
	"Commercial North",
	"Commercial South",
	"Commercial West",
}

// DefaultManagers are the portfolio managers a dataset covers.
var DefaultManagers = []string{
	"Jamie Mills",
	"Allison Dumbrell",
	"Holly Davidson",
	"Joanne Patamisi",
	"Nash Eli",
	"Sarah Chen",
	"Michael Roberts",
	"Emma Wilson",
}

// Config controls a generation run.
type Config struct {
	Seed     uint64
	Months   int
	End      time.Time
	Agencies []string
	Managers []string
}

type trend int

const (
	trendGrowing trend = iota
	trendStable
	trendDeclining
)

// Generate builds the dataset records for cfg.
//
// Months run from the first month start on or after End minus Months*30 days up to End.
// Records are ordered by date, then portfolio manager.
// Every record satisfies properties = leases + vacancies, total arrears equal to the
// sum of its buckets, and occupancy = leases/properties*100 (0 without properties).
func Generate(cfg Config) []model.MetricRecord {
	if cfg.Months <= 0 {
		cfg.Months = DefaultMonths
	}
	if len(cfg.Agencies) == 0 {
		cfg.Agencies = DefaultAgencies
	}
	if len(cfg.Managers) == 0 {
		cfg.Managers = DefaultManagers
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	dates := MonthStarts(cfg.End.AddDate(0, 0, -cfg.Months*30), cfg.End)

	records := make([]model.MetricRecord, 0, len(cfg.Managers)*len(dates))
	for _, pm := range cfg.Managers {
		agency := cfg.Agencies[rng.IntN(len(cfg.Agencies))]
		baseLandlords := intBetween(rng, 20, 80)
		baseProperties := intBetween(rng, 50, 300)
		tr := trend(rng.IntN(3))

		for i, d := range dates {
			records = append(records, monthRecord(rng, d, agency, pm, baseLandlords, baseProperties, growthFactor(rng, tr, i)))
		}
	}

	// Same order the repository reads back, so sums match bit for bit after a reload.
	slices.SortStableFunc(records, compareRecords)
	return records
}

func compareRecords(a, b model.MetricRecord) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.PortfolioManager, b.PortfolioManager)
}

func growthFactor(rng *rand.Rand, tr trend, i int) float64 {
	switch tr {
	case trendGrowing:
		return 1 + float64(i)*0.02
	case trendDeclining:
		return 1 - float64(i)*0.01
	default:
		return 1 + uniform(rng, -0.05, 0.05)
	}
}

func monthRecord(rng *rand.Rand, d time.Time, agency, pm string, baseLandlords, baseProperties int, growth float64) model.MetricRecord {
	landlords := max(0, int(float64(baseLandlords)*growth)+intBetween(rng, -5, 5))
	properties := max(0, int(float64(baseProperties)*growth)+intBetween(rng, -10, 10))
	leases := int(float64(properties) * uniform(rng, 0.80, 0.95))
	vacancies := properties - leases

	avgFee := uniform(rng, 800, 2500)
	managementFees := float64(leases) * avgFee * uniform(rng, 0.9, 1.1)
	leasingFees := float64(vacancies) * uniform(rng, 1000, 5000)
	otherFees := float64(properties) * uniform(rng, 50, 200)

	rentRoll := float64(leases) * uniform(rng, 1500, 8000)

	totalArrears := rentRoll * uniform(rng, 0.02, 0.08)
	a0 := totalArrears * uniform(rng, 0.35, 0.45)
	a31 := totalArrears * uniform(rng, 0.25, 0.35)
	a61 := totalArrears * uniform(rng, 0.15, 0.25)
	a90 := totalArrears - a0 - a31 - a61

	occupancy := 0.0
	if properties > 0 {
		occupancy = float64(leases) / float64(properties) * 100
	}
	avgFeePerTenancy := 0.0
	if leases > 0 {
		avgFeePerTenancy = managementFees / float64(leases)
	}

	return model.MetricRecord{
		Date:                  d,
		Agency:                agency,
		PortfolioManager:      pm,
		Landlords:             landlords,
		Properties:            properties,
		Leases:                leases,
		Vacancies:             vacancies,
		OccupancyRate:         occupancy,
		ManagementFees:        managementFees,
		LeasingFees:           leasingFees,
		OtherFees:             otherFees,
		TotalRevenue:          managementFees + leasingFees + otherFees,
		RentRoll:              rentRoll,
		TotalArrears:          totalArrears,
		Arrears0To30:          a0,
		Arrears31To60:         a31,
		Arrears61To90:         a61,
		Arrears90Plus:         a90,
		AvgFeePerTenancy:      avgFeePerTenancy,
		RentReviewsUpcoming:   intBetween(rng, 2, 15),
		LeaseExpiriesUpcoming: intBetween(rng, 1, 12),
		OverdueDiaryItems:     intBetween(rng, 5, 30),
		CompletedDiaryItems:   intBetween(rng, 20, 100),
	}
}

// MonthStarts returns the first day of every month starting on or after from, up to and including to.
func MonthStarts(from, to time.Time) []time.Time {
	from, to = from.UTC(), to.UTC()
	current := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	if current.Before(from) {
		current = current.AddDate(0, 1, 0)
	}

	var dates []time.Time
	for !current.After(to) {
		dates = append(dates, current)
		current = current.AddDate(0, 1, 0)
	}
	return dates
}

// intBetween returns a uniform int in [lo, hi].
func intBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
