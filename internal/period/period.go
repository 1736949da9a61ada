// Package period enumerates selectable reporting periods over a dataset's date span
// and resolves period boundaries to the dates actually present in the data.
//
// All dates are treated as calendar days in UTC. Callers pass the earliest and
// latest dataset dates; every enumerator returns options in ascending boundary order.
package period

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// CustomComparisonOffset is how far before the latest date the default custom comparison date sits.
const CustomComparisonOffset = 30 * 24 * time.Hour

// Iterate returns a restartable sequence of period options covering [minDate, maxDate].
// Each call to the returned sequence starts the enumeration from the beginning.
//
// Custom periods have no enumeration and yield nothing. Unknown period types also yield nothing;
// use Options to get a validation error for those.
func Iterate(minDate, maxDate time.Time, pt model.PeriodType, cal model.CalendarType) iter.Seq[model.PeriodOption] {
	minDate, maxDate = day(minDate), day(maxDate)
	if maxDate.Before(minDate) {
		minDate, maxDate = maxDate, minDate
	}

	switch pt {
	case model.PeriodWeek:
		return weeks(minDate, maxDate)
	case model.PeriodMonth:
		return months(minDate, maxDate)
	case model.PeriodQuarter:
		return quarters(minDate, maxDate)
	case model.PeriodYear:
		if cal == model.CalendarFinancialAU {
			return financialYears(minDate, maxDate)
		}
		return calendarYears(minDate, maxDate)
	}
	return func(func(model.PeriodOption) bool) {}
}

// Options collects the period options for the given type and calendar.
// Returns ErrInvalidPeriodType or ErrInvalidCalendar for unsupported values.
// Custom periods return an empty, non-nil slice.
func Options(minDate, maxDate time.Time, pt model.PeriodType, cal model.CalendarType) ([]model.PeriodOption, error) {
	if err := ValidatePeriodType(pt); err != nil {
		return nil, err
	}
	if err := ValidateCalendar(cal); err != nil {
		return nil, err
	}
	opts := slices.Collect(Iterate(minDate, maxDate, pt, cal))
	if opts == nil {
		opts = []model.PeriodOption{}
	}
	return opts, nil
}

// ValidatePeriodType checks pt against the supported period types.
func ValidatePeriodType(pt model.PeriodType) error {
	switch pt {
	case model.PeriodWeek, model.PeriodMonth, model.PeriodQuarter, model.PeriodYear, model.PeriodCustom:
		return nil
	}
	return fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriodType, pt)
}

// ValidateCalendar checks cal against the supported calendars.
func ValidateCalendar(cal model.CalendarType) error {
	switch cal {
	case model.CalendarGregorian, model.CalendarFinancialAU:
		return nil
	}
	return fmt.Errorf("%w: %q", apperrors.ErrInvalidCalendar, cal)
}

// weeks yields Monday-to-Sunday buckets starting at the Monday on or before minDate.
// The week counter restarts at 1 when a bucket's start date lands in a new year.
func weeks(minDate, maxDate time.Time) iter.Seq[model.PeriodOption] {
	return func(yield func(model.PeriodOption) bool) {
		offset := (int(minDate.Weekday()) + 6) % 7
		start := minDate.AddDate(0, 0, -offset)
		year := minDate.Year()
		n := 1

		for !start.After(maxDate) {
			if start.Year() != year {
				year = start.Year()
				n = 1
			}
			end := start.AddDate(0, 0, 6)
			if !yield(model.PeriodOption{Label: fmt.Sprintf("Week %d %d", n, year), Boundary: end}) {
				return
			}
			start = end.AddDate(0, 0, 1)
			n++
		}
	}
}

func months(minDate, maxDate time.Time) iter.Seq[model.PeriodOption] {
	return func(yield func(model.PeriodOption) bool) {
		current := time.Date(minDate.Year(), minDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := time.Date(maxDate.Year(), maxDate.Month(), 1, 0, 0, 0, 0, time.UTC)

		for !current.After(last) {
			if !yield(model.PeriodOption{Label: current.Format("January 2006"), Boundary: monthEnd(current)}) {
				return
			}
			current = current.AddDate(0, 1, 0)
		}
	}
}

// quarters yields calendar quarter ends that fall inside [minDate, maxDate].
// A range too short to contain any quarter end yields the quarter containing maxDate.
func quarters(minDate, maxDate time.Time) iter.Seq[model.PeriodOption] {
	return func(yield func(model.PeriodOption) bool) {
		found := false
		for year := minDate.Year(); year <= maxDate.Year(); year++ {
			for q := 1; q <= 4; q++ {
				end := quarterEnd(year, q)
				if end.Before(minDate) || end.After(maxDate) {
					continue
				}
				found = true
				if !yield(model.PeriodOption{Label: quarterLabel(year, q), Boundary: end}) {
					return
				}
			}
		}
		if !found {
			q := (int(maxDate.Month())-1)/3 + 1
			yield(model.PeriodOption{Label: quarterLabel(maxDate.Year(), q), Boundary: quarterEnd(maxDate.Year(), q)})
		}
	}
}

func calendarYears(minDate, maxDate time.Time) iter.Seq[model.PeriodOption] {
	return func(yield func(model.PeriodOption) bool) {
		for year := minDate.Year(); year <= maxDate.Year(); year++ {
			end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
			if !yield(model.PeriodOption{Label: fmt.Sprintf("%d", year), Boundary: end}) {
				return
			}
		}
	}
}

// financialYears yields Australian financial years (1 July to 30 June) named by their
// starting year. The range runs one year past maxDate so the in-progress year is selectable.
func financialYears(minDate, maxDate time.Time) iter.Seq[model.PeriodOption] {
	return func(yield func(model.PeriodOption) bool) {
		for year := minDate.Year(); year <= maxDate.Year()+1; year++ {
			if !yield(FinancialYear(year)) {
				return
			}
		}
	}
}

// FinancialYear returns the option for the Australian financial year starting 1 July of year.
func FinancialYear(year int) model.PeriodOption {
	return model.PeriodOption{
		Label:    fmt.Sprintf("FY %d/%d", year, year+1),
		Boundary: time.Date(year+1, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

func quarterLabel(year, q int) string {
	return fmt.Sprintf("Q%d %d", q, year)
}

func quarterEnd(year, q int) time.Time {
	return monthEnd(time.Date(year, time.Month(q*3), 1, 0, 0, 0, 0, time.UTC))
}

// monthEnd returns the last calendar day of t's month.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// day truncates t to midnight UTC of its calendar day.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
