package model

import "time"

// Filter sentinels that select every agency or every portfolio manager.
const (
	AllAgencies = "Whole Agency"
	AllManagers = "All Managers"
	AllValues   = "all"
)

// PeriodType is the granularity used to enumerate selectable periods.
type PeriodType string

const (
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
	PeriodCustom  PeriodType = "custom"
)

// CalendarType selects between calendar years and the Australian July-June financial year.
type CalendarType string

const (
	CalendarGregorian   CalendarType = "gregorian"
	CalendarFinancialAU CalendarType = "financial_au"
)

// PeriodOption is one selectable period: a display label and the last day it covers.
type PeriodOption struct {
	Label    string    `json:"label"`
	Boundary time.Time `json:"boundary"`
}

// PeriodOptions is the enumerated period list for one period type and calendar,
// with the indexes selected when the caller does not pick a period.
// DefaultCurrent and DefaultComparison are -1 when Options is empty.
type PeriodOptions struct {
	PeriodType        PeriodType     `json:"period_type"`
	Calendar          CalendarType   `json:"calendar"`
	Options           []PeriodOption `json:"options"`
	DefaultCurrent    int            `json:"default_current"`
	DefaultComparison int            `json:"default_comparison"`
}

// PeriodSelection is a period boundary resolved against the dataset.
// Resolved is the latest dataset date on or before Requested. Clamped is set
// when Requested predates all data and Resolved fell back to the earliest date.
type PeriodSelection struct {
	Label     string    `json:"label"`
	Requested time.Time `json:"requested"`
	Resolved  time.Time `json:"resolved"`
	Clamped   bool      `json:"clamped"`
}

// PeriodRequest is an unresolved period choice: a label, an index into the
// enumerated options, or (for custom periods) an explicit date. The zero value
// selects the default entry.
type PeriodRequest struct {
	Label string
	Index *int
	Date  *time.Time
}

// FilterState is the full set of dashboard selections for one request.
type FilterState struct {
	Agency           string
	PortfolioManager string
	Calendar         CalendarType
	PeriodType       PeriodType
	Current          PeriodRequest
	Comparison       PeriodRequest
	CompareEnabled   bool
}

// Favourability classifies a delta for display, taking the metric direction into account.
type Favourability string

const (
	FavourabilityPositive Favourability = "positive"
	FavourabilityNegative Favourability = "negative"
	FavourabilityNeutral  Favourability = "neutral"
)

// DeltaKind distinguishes a relative percent change from a percentage-point difference.
type DeltaKind string

const (
	DeltaPercent DeltaKind = "percent"
	DeltaPoint   DeltaKind = "point"
)

// KPICard is a ready-to-render KPI value with its comparison delta.
type KPICard struct {
	Key             string        `json:"key"`
	Label           string        `json:"label"`
	Section         string        `json:"section"`
	Value           float64       `json:"value"`
	Display         string        `json:"display"`
	ComparisonValue float64       `json:"comparison_value"`
	Delta           float64       `json:"delta"`
	DeltaKind       DeltaKind     `json:"delta_kind"`
	DeltaDisplay    string        `json:"delta_display"`
	Inverse         bool          `json:"inverse"`
	Favourability   Favourability `json:"favourability"`
}

// KPIReport is the KPI card set for one filter state. Comparison is nil when
// comparison is disabled or the comparison period has no rows.
type KPIReport struct {
	Current             PeriodSelection  `json:"current_period"`
	ComparisonPeriod    *PeriodSelection `json:"comparison_period"`
	HasData             bool             `json:"has_data"`
	ComparisonAvailable bool             `json:"comparison_available"`
	Snapshot            MetricSnapshot   `json:"snapshot"`
	Comparison          *MetricSnapshot  `json:"comparison"`
	Cards               []KPICard        `json:"cards"`
}

// BreakdownRow is one portfolio manager's current and comparison values for a metric.
type BreakdownRow struct {
	Rank             int     `json:"rank"`
	PortfolioManager string  `json:"portfolio_manager"`
	Current          float64 `json:"current"`
	Comparison       float64 `json:"comparison"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
}

// Breakdown is a per-manager table for one metric, sorted by current value descending.
type Breakdown struct {
	Metric           Metric           `json:"metric"`
	Label            string           `json:"label"`
	Current          PeriodSelection  `json:"current_period"`
	ComparisonPeriod *PeriodSelection `json:"comparison_period"`
	Rows             []BreakdownRow   `json:"rows"`
}

// RatioRow is one portfolio manager's arrears ratio, rounded to one decimal.
type RatioRow struct {
	PortfolioManager string  `json:"portfolio_manager"`
	Arrears          float64 `json:"arrears"`
	RentRoll         float64 `json:"rent_roll"`
	Ratio            float64 `json:"ratio"`
}

// TrendPoint is one date in a metric series.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Trend is a metric series over every dataset date in scope.
// ByManager is only populated for metrics where a per-manager series is requested.
type Trend struct {
	Metric     Metric                  `json:"metric"`
	Label      string                  `json:"label"`
	Reduction  string                  `json:"reduction"`
	Points     []TrendPoint            `json:"points"`
	GrowthRate float64                 `json:"growth_rate"`
	ByManager  map[string][]TrendPoint `json:"by_manager,omitempty"`
	ByAgency   map[string][]TrendPoint `json:"by_agency,omitempty"`
}

// ArrearsBucket is one ageing bucket with its share of total arrears.
type ArrearsBucket struct {
	Bucket     string  `json:"bucket"`
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// RevenueLine is revenue attributed to one account code.
type RevenueLine struct {
	AccountCode string  `json:"account_code"`
	Amount      float64 `json:"amount"`
}

// FilterOptions lists the values the dashboard filters can take.
type FilterOptions struct {
	Agencies          []string  `json:"agencies"`
	PortfolioManagers []string  `json:"portfolio_managers"`
	MinDate           time.Time `json:"min_date"`
	MaxDate           time.Time `json:"max_date"`
}
