package period

import (
	"fmt"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// DefaultCurrentIndex is the index of the most recent option, or -1 when there are none.
func DefaultCurrentIndex(n int) int {
	if n <= 0 {
		return -1
	}
	return n - 1
}

// DefaultComparisonIndex is the index of the option before the most recent one,
// or the most recent one when only a single option exists. -1 when there are none.
func DefaultComparisonIndex(n int) int {
	if n <= 0 {
		return -1
	}
	return max(0, n-2)
}

// ClampIndex pins i into [0, n-1]. n must be positive.
func ClampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

// Select picks an option by request. A label must match exactly; an index is
// clamped into range; an empty request returns the option at defaultIndex.
// Returns ErrUnknownPeriod for unknown labels and ErrEmptyDataset when opts is empty.
func Select(opts []model.PeriodOption, req model.PeriodRequest, defaultIndex int) (model.PeriodOption, error) {
	if len(opts) == 0 {
		return model.PeriodOption{}, apperrors.ErrEmptyDataset
	}

	if req.Label != "" {
		for _, opt := range opts {
			if opt.Label == req.Label {
				return opt, nil
			}
		}
		return model.PeriodOption{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownPeriod, req.Label)
	}

	if req.Index != nil {
		return opts[ClampIndex(*req.Index, len(opts))], nil
	}

	return opts[ClampIndex(defaultIndex, len(opts))], nil
}

// ClampDate pins d into [minDate, maxDate].
func ClampDate(d, minDate, maxDate time.Time) time.Time {
	d = day(d)
	if d.Before(day(minDate)) {
		return day(minDate)
	}
	if d.After(day(maxDate)) {
		return day(maxDate)
	}
	return d
}

// CustomOption builds the option for a custom date, clamped into [minDate, maxDate].
// A nil date falls back to fallback.
func CustomOption(d *time.Time, fallback, minDate, maxDate time.Time) model.PeriodOption {
	target := fallback
	if d != nil {
		target = *d
	}
	target = ClampDate(target, minDate, maxDate)
	return model.PeriodOption{Label: target.Format("2006-01-02"), Boundary: target}
}

// DefaultCustomComparison is the default comparison date for custom periods:
// thirty days before maxDate, but never before minDate.
func DefaultCustomComparison(minDate, maxDate time.Time) time.Time {
	return ClampDate(maxDate.Add(-CustomComparisonOffset), minDate, maxDate)
}
