package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/period"
)

// Defaults applied to omitted dashboard parameters.
const (
	DefaultPeriodType = model.PeriodMonth
	DefaultCalendar   = model.CalendarGregorian
)

// ValidateDashboardQuery converts a raw dashboard query into a FilterState.
//
// Rules:
//   - calendar: gregorian or financial_au (default gregorian)
//   - period_type: week, month, quarter, year or custom (default month)
//   - current/comparison: a period label, or a YYYY-MM-DD date for custom periods
//   - current_index/comparison_index: integers; out-of-range values are clamped later
//   - compare: a boolean (default true)
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateDashboardQuery(q request.DashboardQuery) (model.FilterState, error) {
	errors := make(map[string]string)

	fs := model.FilterState{
		Agency:           q.Agency,
		PortfolioManager: q.Manager,
		Calendar:         DefaultCalendar,
		PeriodType:       DefaultPeriodType,
		CompareEnabled:   true,
	}

	if q.Calendar != "" {
		fs.Calendar = model.CalendarType(q.Calendar)
		if err := period.ValidateCalendar(fs.Calendar); err != nil {
			errors["calendar"] = err.Error()
		}
	}

	if q.PeriodType != "" {
		fs.PeriodType = model.PeriodType(q.PeriodType)
		if err := period.ValidatePeriodType(fs.PeriodType); err != nil {
			errors["period_type"] = err.Error()
		}
	}

	var err error
	if fs.Current, err = periodRequest(fs.PeriodType, q.Current, q.CurrentIndex); err != nil {
		errors["current"] = err.Error()
	}
	if fs.Comparison, err = periodRequest(fs.PeriodType, q.Comparison, q.ComparisonIndex); err != nil {
		errors["comparison"] = err.Error()
	}

	if q.Compare != "" {
		enabled, err := strconv.ParseBool(q.Compare)
		if err != nil {
			errors["compare"] = fmt.Sprintf("invalid compare: %s", q.Compare)
		}
		fs.CompareEnabled = enabled
	}

	if len(errors) > 0 {
		return model.FilterState{}, &Error{Fields: errors}
	}
	return fs, nil
}

func periodRequest(pt model.PeriodType, value, index string) (model.PeriodRequest, error) {
	var req model.PeriodRequest

	if index != "" {
		i, err := strconv.Atoi(index)
		if err != nil {
			return req, fmt.Errorf("invalid index: %s", index)
		}
		req.Index = &i
	}

	if value == "" {
		return req, nil
	}

	if pt == model.PeriodCustom {
		d, err := ParseDate(value)
		if err != nil {
			return req, err
		}
		req.Date = &d
		return req, nil
	}

	req.Label = value
	return req, nil
}

// ParseDate parses YYYY-MM-DD or RFC3339 and returns the UTC calendar day.
func ParseDate(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, str); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", apperrors.ErrInvalidDate, str)
}
