package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// Month returns the first day of the given month at UTC midnight.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// MetricRecordBuilder provides a fluent interface for creating test metric records.
// Built records always satisfy the dataset invariants: vacancies, occupancy and
// total arrears are derived from the other fields.
//
// Example usage:
//
//	// Simple creation with defaults
//	rec := testutil.NewMetricRecord().Build()
//
//	// Customized record
//	rec := testutil.NewMetricRecord().
//	    WithManager("Sarah Chen").
//	    WithDate(testutil.Month(2024, time.March)).
//	    WithProperties(100, 90).
//	    Build()
type MetricRecordBuilder struct {
	rec      model.MetricRecord
	arrears  [4]float64
	explicit bool
}

// NewMetricRecord creates a MetricRecordBuilder with sensible defaults.
func NewMetricRecord() *MetricRecordBuilder {
	return &MetricRecordBuilder{
		rec: model.MetricRecord{
			Date:                  Month(2024, time.January),
			Agency:                "Commercial CBD",
			PortfolioManager:      "Jamie Mills",
			Landlords:             40,
			Properties:            100,
			Leases:                90,
			ManagementFees:        90000,
			LeasingFees:           20000,
			OtherFees:             10000,
			RentRoll:              300000,
			AvgFeePerTenancy:      1000,
			RentReviewsUpcoming:   12,
			LeaseExpiriesUpcoming: 10,
			OverdueDiaryItems:     10,
			CompletedDiaryItems:   40,
		},
		arrears: [4]float64{4000, 3000, 2000, 1000},
	}
}

// WithDate sets the record date.
func (b *MetricRecordBuilder) WithDate(d time.Time) *MetricRecordBuilder {
	b.rec.Date = d
	return b
}

// WithAgency sets the agency.
func (b *MetricRecordBuilder) WithAgency(agency string) *MetricRecordBuilder {
	b.rec.Agency = agency
	return b
}

// WithManager sets the portfolio manager.
func (b *MetricRecordBuilder) WithManager(pm string) *MetricRecordBuilder {
	b.rec.PortfolioManager = pm
	return b
}

// WithLandlords sets the landlord count.
func (b *MetricRecordBuilder) WithLandlords(n int) *MetricRecordBuilder {
	b.rec.Landlords = n
	return b
}

// WithProperties sets properties and leases; vacancies are derived.
func (b *MetricRecordBuilder) WithProperties(properties, leases int) *MetricRecordBuilder {
	b.rec.Properties = properties
	b.rec.Leases = leases
	return b
}

// WithFees sets management, leasing and other fees; total revenue is derived.
func (b *MetricRecordBuilder) WithFees(management, leasing, other float64) *MetricRecordBuilder {
	b.rec.ManagementFees = management
	b.rec.LeasingFees = leasing
	b.rec.OtherFees = other
	return b
}

// WithRentRoll sets the rent roll.
func (b *MetricRecordBuilder) WithRentRoll(v float64) *MetricRecordBuilder {
	b.rec.RentRoll = v
	return b
}

// WithArrears sets the four ageing buckets; total arrears is derived.
func (b *MetricRecordBuilder) WithArrears(a0, a31, a61, a90 float64) *MetricRecordBuilder {
	b.arrears = [4]float64{a0, a31, a61, a90}
	return b
}

// WithAvgFeePerTenancy sets the average fee per tenancy.
func (b *MetricRecordBuilder) WithAvgFeePerTenancy(v float64) *MetricRecordBuilder {
	b.rec.AvgFeePerTenancy = v
	return b
}

// WithCriticalDates sets the upcoming rent reviews and lease expiries.
func (b *MetricRecordBuilder) WithCriticalDates(reviews, expiries int) *MetricRecordBuilder {
	b.rec.RentReviewsUpcoming = reviews
	b.rec.LeaseExpiriesUpcoming = expiries
	return b
}

// WithDiary sets overdue and completed diary items.
func (b *MetricRecordBuilder) WithDiary(overdue, completed int) *MetricRecordBuilder {
	b.rec.OverdueDiaryItems = overdue
	b.rec.CompletedDiaryItems = completed
	return b
}

// Build returns the record with derived fields filled in.
func (b *MetricRecordBuilder) Build() model.MetricRecord {
	r := b.rec
	r.Vacancies = r.Properties - r.Leases
	r.OccupancyRate = 0
	if r.Properties > 0 {
		r.OccupancyRate = float64(r.Leases) / float64(r.Properties) * 100
	}
	r.TotalRevenue = r.ManagementFees + r.LeasingFees + r.OtherFees
	r.Arrears0To30, r.Arrears31To60, r.Arrears61To90, r.Arrears90Plus = b.arrears[0], b.arrears[1], b.arrears[2], b.arrears[3]
	r.TotalArrears = b.arrears[0] + b.arrears[1] + b.arrears[2] + b.arrears[3]
	return r
}

// NewDataset wraps records in a dataset with a fresh version.
func NewDataset(records ...model.MetricRecord) *model.Dataset {
	return &model.Dataset{
		Version:     uuid.New().String(),
		GeneratedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:        1,
		Months:      len(records),
		Records:     records,
	}
}

// SampleDataset returns a small fixed dataset: two agencies, three managers,
// three months (January to March 2024). Values grow each month so every
// comparison has a non-zero delta.
//
//	Commercial CBD:   Jamie Mills, Sarah Chen
//	Commercial North: Nash Eli
func SampleDataset() *model.Dataset {
	owners := []struct{ agency, pm string }{
		{"Commercial CBD", "Jamie Mills"},
		{"Commercial CBD", "Sarah Chen"},
		{"Commercial North", "Nash Eli"},
	}

	var records []model.MetricRecord
	for i, month := range []time.Month{time.January, time.February, time.March} {
		for j, o := range owners {
			scale := float64((i + 1) * (j + 1))
			records = append(records, NewMetricRecord().
				WithDate(Month(2024, month)).
				WithAgency(o.agency).
				WithManager(o.pm).
				WithLandlords(10*(j+1)+i).
				WithProperties(100*(j+1)+10*i, 90*(j+1)+10*i).
				WithFees(1000*scale, 500*scale, 250*scale).
				WithRentRoll(10000*scale).
				WithArrears(400*scale, 300*scale, 200*scale, 100*scale).
				WithDiary(5+i, 20+i).
				Build())
		}
	}
	return NewDataset(records...)
}

// MakeID returns a fresh UUID string for tests that need an unknown id.
func MakeID() string {
	return uuid.New().String()
}
