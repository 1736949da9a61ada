package service

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/period"
)

// RevenueAccountCodes lists the account codes revenue is reported under, in display order.
// The last five share other_fees equally.
var RevenueAccountCodes = []string{
	"Management Fees",
	"Leasing Fees",
	"Letting Fees",
	"Property Administration",
	"Marketing Fees",
	"Inspection Fees",
	"Other Fees",
}

// DashboardService computes dashboard views from a session's dataset.
// Every method is a pure function of the dataset and the filter state.
type DashboardService struct {
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(logger *zap.Logger) *DashboardService {
	return &DashboardService{logger: logger}
}

// periodScope is the result of filtering a dataset and resolving both periods.
type periodScope struct {
	filtered       []model.MetricRecord
	current        model.PeriodSelection
	comparison     *model.PeriodSelection
	currentRows    []model.MetricRecord
	comparisonRows []model.MetricRecord
}

// comparisonOrCurrent returns the comparison rows, or the current rows when
// there is nothing to compare against.
func (p *periodScope) comparisonOrCurrent() ([]model.MetricRecord, bool) {
	if p.comparison == nil || len(p.comparisonRows) == 0 {
		return p.currentRows, false
	}
	return p.comparisonRows, true
}

// FilterOptions lists every agency in the dataset, the portfolio managers of
// the given agency (or every manager for the agency sentinel) and the date span.
func (s *DashboardService) FilterOptions(ds *model.Dataset, agency string) model.FilterOptions {
	agencies := make(map[string]struct{})
	managers := make(map[string]struct{})
	allAgencies := IsAllAgencies(agency)

	for _, r := range ds.Records {
		agencies[r.Agency] = struct{}{}
		if allAgencies || r.Agency == agency {
			managers[r.PortfolioManager] = struct{}{}
		}
	}

	opts := model.FilterOptions{
		Agencies:          slices.Sorted(maps.Keys(agencies)),
		PortfolioManagers: slices.Sorted(maps.Keys(managers)),
	}
	opts.MinDate, opts.MaxDate, _ = ds.Span()
	return opts
}

// PeriodOptions enumerates the selectable periods for the dataset's date span.
// Custom periods have no enumerated options.
func (s *DashboardService) PeriodOptions(
	ds *model.Dataset,
	pt model.PeriodType,
	cal model.CalendarType,
) (model.PeriodOptions, error) {
	minDate, maxDate, ok := ds.Span()
	if !ok {
		return model.PeriodOptions{}, apperrors.ErrEmptyDataset
	}

	opts, err := period.Options(minDate, maxDate, pt, cal)
	if err != nil {
		return model.PeriodOptions{}, err
	}

	return model.PeriodOptions{
		PeriodType:        pt,
		Calendar:          cal,
		Options:           opts,
		DefaultCurrent:    period.DefaultCurrentIndex(len(opts)),
		DefaultComparison: period.DefaultComparisonIndex(len(opts)),
	}, nil
}

// scope filters the dataset and resolves the current and comparison periods.
//
// Period options span the whole dataset; resolution runs against the dates that
// survive the filter. An empty filter result yields empty row sets rather than an error.
func (s *DashboardService) scope(ds *model.Dataset, fs model.FilterState) (*periodScope, error) {
	minDate, maxDate, ok := ds.Span()
	if !ok {
		return nil, apperrors.ErrEmptyDataset
	}

	curOpt, cmpOpt, err := selectOptions(minDate, maxDate, fs)
	if err != nil {
		return nil, err
	}

	sc := &periodScope{
		filtered: FilterRecords(ds.Records, fs.Agency, fs.PortfolioManager),
		current:  model.PeriodSelection{Label: curOpt.Label, Requested: curOpt.Boundary},
	}
	if fs.CompareEnabled {
		sc.comparison = &model.PeriodSelection{Label: cmpOpt.Label, Requested: cmpOpt.Boundary}
	}

	dates := RecordDates(sc.filtered)
	if len(dates) == 0 {
		return sc, nil
	}

	if sc.current.Resolved, sc.current.Clamped, err = period.ResolveOrEarliest(dates, curOpt.Boundary); err != nil {
		return nil, err
	}
	sc.currentRows = RecordsOnDate(sc.filtered, sc.current.Resolved)

	if sc.comparison != nil {
		if sc.comparison.Resolved, sc.comparison.Clamped, err = period.ResolveOrEarliest(dates, cmpOpt.Boundary); err != nil {
			return nil, err
		}
		sc.comparisonRows = RecordsOnDate(sc.filtered, sc.comparison.Resolved)
	}
	return sc, nil
}

func selectOptions(minDate, maxDate time.Time, fs model.FilterState) (model.PeriodOption, model.PeriodOption, error) {
	if fs.PeriodType == model.PeriodCustom {
		cur := period.CustomOption(fs.Current.Date, maxDate, minDate, maxDate)
		prev := period.CustomOption(fs.Comparison.Date, period.DefaultCustomComparison(minDate, maxDate), minDate, maxDate)
		return cur, prev, nil
	}

	opts, err := period.Options(minDate, maxDate, fs.PeriodType, fs.Calendar)
	if err != nil {
		return model.PeriodOption{}, model.PeriodOption{}, err
	}

	cur, err := period.Select(opts, fs.Current, period.DefaultCurrentIndex(len(opts)))
	if err != nil {
		return model.PeriodOption{}, model.PeriodOption{}, fmt.Errorf("current period: %w", err)
	}
	prev, err := period.Select(opts, fs.Comparison, period.DefaultComparisonIndex(len(opts)))
	if err != nil {
		return model.PeriodOption{}, model.PeriodOption{}, fmt.Errorf("comparison period: %w", err)
	}
	return cur, prev, nil
}

// KPIs builds the KPI card set for fs.
//
// When comparison is disabled or the comparison period has no rows, Comparison is
// nil, ComparisonAvailable is false and every card compares against the current
// snapshot, giving a zero delta.
func (s *DashboardService) KPIs(ds *model.Dataset, fs model.FilterState) (*model.KPIReport, error) {
	sc, err := s.scope(ds, fs)
	if err != nil {
		return nil, err
	}

	report := &model.KPIReport{
		Current:          sc.current,
		ComparisonPeriod: sc.comparison,
		HasData:          len(sc.currentRows) > 0,
		Snapshot:         Aggregate(sc.currentRows),
	}

	base := report.Snapshot
	if rows, ok := sc.comparisonOrCurrent(); ok {
		cmpSnap := Aggregate(rows)
		report.Comparison = &cmpSnap
		report.ComparisonAvailable = true
		base = cmpSnap
	}

	report.Cards = BuildCards(report.Snapshot, base)

	s.logger.Debug("kpis computed",
		zap.String("current", sc.current.Label),
		zap.Int("rows", report.Snapshot.Rows),
		zap.Bool("comparison_available", report.ComparisonAvailable),
	)
	return report, nil
}

// Breakdown compares metric m per portfolio manager between the two periods.
//
// Managers present in only one period are zero-filled on the other side. Rows are
// ranked by current value descending, ties broken by name.
func (s *DashboardService) Breakdown(ds *model.Dataset, fs model.FilterState, m model.Metric) (*model.Breakdown, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownMetric, m)
	}

	sc, err := s.scope(ds, fs)
	if err != nil {
		return nil, err
	}

	cmpRows, _ := sc.comparisonOrCurrent()
	current := AggregateBy(sc.currentRows, ByPortfolioManager)
	comparison := AggregateBy(cmpRows, ByPortfolioManager)

	names := make(map[string]struct{}, len(current)+len(comparison))
	for k := range current {
		names[k] = struct{}{}
	}
	for k := range comparison {
		names[k] = struct{}{}
	}

	rows := make([]model.BreakdownRow, 0, len(names))
	for name := range names {
		cur := current[name].Value(m)
		prev := comparison[name].Value(m)
		rows = append(rows, model.BreakdownRow{
			PortfolioManager: name,
			Current:          round(cur),
			Comparison:       round(prev),
			Change:           round(cur - prev),
			ChangePercent:    roundTo(PercentChange(cur, prev), 1),
		})
	}

	slices.SortFunc(rows, func(a, b model.BreakdownRow) int {
		if c := cmp.Compare(b.Current, a.Current); c != 0 {
			return c
		}
		return cmp.Compare(a.PortfolioManager, b.PortfolioManager)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return &model.Breakdown{
		Metric:           m,
		Label:            m.Policy().Label,
		Current:          sc.current,
		ComparisonPeriod: sc.comparison,
		Rows:             rows,
	}, nil
}

// ArrearsRatio returns each portfolio manager's arrears as a percentage of rent
// roll for the current period, highest ratio first.
func (s *DashboardService) ArrearsRatio(ds *model.Dataset, fs model.FilterState) ([]model.RatioRow, error) {
	sc, err := s.scope(ds, fs)
	if err != nil {
		return nil, err
	}

	groups := AggregateBy(sc.currentRows, ByPortfolioManager)
	rows := make([]model.RatioRow, 0, len(groups))
	for _, name := range SortedKeys(groups) {
		snap := groups[name]
		rows = append(rows, model.RatioRow{
			PortfolioManager: name,
			Arrears:          round(snap.TotalArrears),
			RentRoll:         round(snap.RentRoll),
			Ratio:            roundTo(ArrearsPercentage(snap.TotalArrears, snap.RentRoll), 1),
		})
	}

	slices.SortStableFunc(rows, func(a, b model.RatioRow) int {
		return cmp.Compare(b.Ratio, a.Ratio)
	})
	return rows, nil
}

// TrendSplit selects the extra per-group series a trend carries.
type TrendSplit struct {
	ByManager bool
	ByAgency  bool
}

// Trend returns metric m per date over every filtered record, ignoring the
// period selection. split adds a series per portfolio manager and/or per agency.
func (s *DashboardService) Trend(ds *model.Dataset, fs model.FilterState, m model.Metric, split TrendSplit) (*model.Trend, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownMetric, m)
	}

	filtered := FilterRecords(ds.Records, fs.Agency, fs.PortfolioManager)
	points := roundPoints(SeriesByDate(filtered, m))

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	tr := &model.Trend{
		Metric:     m,
		Label:      m.Policy().Label,
		Reduction:  m.Policy().Reduction.String(),
		Points:     points,
		GrowthRate: roundTo(GrowthRate(values), 1),
	}

	if split.ByManager {
		tr.ByManager = seriesPerGroup(filtered, ByPortfolioManager, m)
	}
	if split.ByAgency {
		tr.ByAgency = seriesPerGroup(filtered, ByAgency, m)
	}
	return tr, nil
}

func seriesPerGroup(rows []model.MetricRecord, key KeyFunc, m model.Metric) map[string][]model.TrendPoint {
	groups := make(map[string][]model.MetricRecord)
	for _, r := range rows {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	out := make(map[string][]model.TrendPoint, len(groups))
	for k, g := range groups {
		out[k] = roundPoints(SeriesByDate(g, m))
	}
	return out
}

// ArrearsBuckets splits current-period arrears into ageing buckets with each
// bucket's share of the total.
func (s *DashboardService) ArrearsBuckets(ds *model.Dataset, fs model.FilterState) ([]model.ArrearsBucket, error) {
	sc, err := s.scope(ds, fs)
	if err != nil {
		return nil, err
	}

	snap := Aggregate(sc.currentRows)
	buckets := []struct {
		bucket, label string
		amount        float64
	}{
		{"0-30", "0-30 days", snap.Arrears0To30},
		{"31-60", "31-60 days", snap.Arrears31To60},
		{"61-90", "61-90 days", snap.Arrears61To90},
		{"90+", "90+ days", snap.Arrears90Plus},
	}

	total := 0.0
	for _, b := range buckets {
		total += b.amount
	}

	out := make([]model.ArrearsBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, model.ArrearsBucket{
			Bucket:     b.bucket,
			Label:      b.label,
			Amount:     round(b.amount),
			Percentage: roundTo(ratio(b.amount, total)*100, 1),
		})
	}
	return out, nil
}

// Revenue splits current-period revenue by account code.
func (s *DashboardService) Revenue(ds *model.Dataset, fs model.FilterState) ([]model.RevenueLine, error) {
	sc, err := s.scope(ds, fs)
	if err != nil {
		return nil, err
	}

	snap := Aggregate(sc.currentRows)
	shared := snap.OtherFees / float64(len(RevenueAccountCodes)-2)

	lines := make([]model.RevenueLine, 0, len(RevenueAccountCodes))
	for i, code := range RevenueAccountCodes {
		amount := shared
		switch i {
		case 0:
			amount = snap.ManagementFees
		case 1:
			amount = snap.LeasingFees
		}
		lines = append(lines, model.RevenueLine{AccountCode: code, Amount: round(amount)})
	}
	return lines, nil
}

func roundPoints(points []model.TrendPoint) []model.TrendPoint {
	for i := range points {
		points[i].Value = round(points[i].Value)
	}
	return points
}
