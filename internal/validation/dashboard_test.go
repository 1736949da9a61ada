package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// TestValidateDashboardQuery tests the conversion of raw query parameters to a FilterState.
//
// WHY: Every dashboard endpoint starts here. Omitted parameters must produce the
// default view, and each bad parameter must be reported under its own name.
func TestValidateDashboardQuery(t *testing.T) {
	t.Run("empty query yields defaults", func(t *testing.T) {
		fs, err := ValidateDashboardQuery(request.DashboardQuery{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if fs.Calendar != model.CalendarGregorian || fs.PeriodType != model.PeriodMonth {
			t.Errorf("Unexpected defaults %+v", fs)
		}
		if !fs.CompareEnabled {
			t.Error("Expected comparison enabled by default")
		}
		if fs.Current.Index != nil || fs.Current.Label != "" || fs.Current.Date != nil {
			t.Errorf("Expected an empty current request, got %+v", fs.Current)
		}
	})

	t.Run("labels and indexes are carried over", func(t *testing.T) {
		fs, err := ValidateDashboardQuery(request.DashboardQuery{
			Agency:          "Commercial CBD",
			Manager:         "Jamie Mills",
			Calendar:        "financial_au",
			PeriodType:      "quarter",
			Current:         "Q3 FY 2024/2025",
			ComparisonIndex: "-4",
			Compare:         "false",
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if fs.Agency != "Commercial CBD" || fs.PortfolioManager != "Jamie Mills" {
			t.Errorf("Unexpected owners %+v", fs)
		}
		if fs.Current.Label != "Q3 FY 2024/2025" {
			t.Errorf("Expected current label, got %+v", fs.Current)
		}
		if fs.Comparison.Index == nil || *fs.Comparison.Index != -4 {
			t.Errorf("Expected comparison index -4, got %+v", fs.Comparison)
		}
		if fs.CompareEnabled {
			t.Error("Expected comparison disabled")
		}
	})

	t.Run("custom periods take dates", func(t *testing.T) {
		fs, err := ValidateDashboardQuery(request.DashboardQuery{PeriodType: "custom", Current: "2024-02-15"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		if fs.Current.Date == nil || !fs.Current.Date.Equal(want) {
			t.Errorf("Expected %v, got %+v", want, fs.Current)
		}
	})

	t.Run("every invalid field is reported", func(t *testing.T) {
		_, err := ValidateDashboardQuery(request.DashboardQuery{
			Calendar:     "lunar",
			PeriodType:   "custom",
			Current:      "yesterday",
			CurrentIndex: "first",
			Compare:      "maybe",
		})

		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected *Error, got %v", err)
		}
		for _, field := range []string{"calendar", "current", "compare"} {
			if _, ok := verr.Fields[field]; !ok {
				t.Errorf("Expected field %q in %v", field, verr.Fields)
			}
		}
	})

	t.Run("unknown period type", func(t *testing.T) {
		_, err := ValidateDashboardQuery(request.DashboardQuery{PeriodType: "fortnight"})

		var verr *Error
		if !errors.As(err, &verr) || verr.Fields["period_type"] == "" {
			t.Errorf("Expected a period_type error, got %v", err)
		}
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"date only", "2024-03-31", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 truncated to the UTC day", "2024-03-31T23:30:00-02:00", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "31/03/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidDate) {
					t.Errorf("Expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateMetric(t *testing.T) {
	if m, err := ValidateMetric("rent_roll"); err != nil || m != model.MetricRentRoll {
		t.Errorf("Expected rent_roll, got %q (%v)", m, err)
	}
	if _, err := ValidateMetric("profit"); !errors.Is(err, apperrors.ErrUnknownMetric) {
		t.Errorf("Expected ErrUnknownMetric, got %v", err)
	}
}

func TestValidateUUID(t *testing.T) {
	if err := ValidateUUID("550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("Expected valid UUID, got %v", err)
	}
	if err := ValidateUUID("nope"); !errors.Is(err, apperrors.ErrInvalidUUID) {
		t.Errorf("Expected ErrInvalidUUID, got %v", err)
	}
}
