package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
)

// Resolve returns the latest date in dates that is on or before requested.
// dates does not need to be sorted.
//
// Returns ErrEmptyDataset when dates is empty and ErrNoDataBeforeDate when
// every date is after requested.
func Resolve(dates []time.Time, requested time.Time) (time.Time, error) {
	if len(dates) == 0 {
		return time.Time{}, apperrors.ErrEmptyDataset
	}

	var best time.Time
	found := false
	for _, d := range dates {
		if d.After(requested) {
			continue
		}
		if !found || d.After(best) {
			best = d
			found = true
		}
	}

	if !found {
		return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrNoDataBeforeDate, requested.Format("2006-01-02"))
	}
	return best, nil
}

// ResolveOrEarliest resolves requested like Resolve, but when requested predates
// all data it returns the earliest date with clamped set to true.
func ResolveOrEarliest(dates []time.Time, requested time.Time) (resolved time.Time, clamped bool, err error) {
	resolved, err = Resolve(dates, requested)
	if err == nil {
		return resolved, false, nil
	}
	if !errors.Is(err, apperrors.ErrNoDataBeforeDate) {
		return time.Time{}, false, err
	}

	earliest := dates[0]
	for _, d := range dates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	return earliest, true, nil
}
