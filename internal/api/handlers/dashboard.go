package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/export"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/validation"
)

// Export views.
const (
	ViewBreakdown = "breakdown"
	ViewTrend     = "trend"
)

// DashboardHandler handles dashboard HTTP requests. Every endpoint works on the
// dataset of the session resolved by SessionMiddleware.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Filters lists agencies, portfolio managers and the dataset date span.
// The manager list is narrowed to the agency given in the agency parameter.
//
// Endpoint: GET /api/dashboard/filters?agency=...
// Response: 200 OK with model.FilterOptions
func (h *DashboardHandler) Filters(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, h.dashboardService.FilterOptions(ds, r.URL.Query().Get("agency")))
}

// Periods enumerates the selectable periods for a period type and calendar.
//
// Endpoint: GET /api/dashboard/periods?period_type=month&calendar=gregorian
// Response: 200 OK with model.PeriodOptions
// Error: 400 Bad Request for an invalid period type or calendar
func (h *DashboardHandler) Periods(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	opts, err := h.dashboardService.PeriodOptions(ds, fs.PeriodType, fs.Calendar)
	if err != nil {
		respondServiceError(w, "failed to enumerate periods", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, opts)
}

// KPIs returns the KPI card set for the current filter state.
//
// Endpoint: GET /api/dashboard/kpis
// Query: agency, manager, calendar, period_type, current, comparison, current_index, comparison_index, compare
// Response: 200 OK with model.KPIReport
// Error: 400 Bad Request for invalid filters or unknown periods
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	report, err := h.dashboardService.KPIs(ds, fs)
	if err != nil {
		respondServiceError(w, "failed to build KPIs", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}

// Breakdown compares one metric per portfolio manager.
//
// Endpoint: GET /api/dashboard/breakdown/{metric}
// Response: 200 OK with model.Breakdown
// Error: 400 Bad Request for an unknown metric or invalid filters
func (h *DashboardHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	metric, err := validation.ValidateMetric(chi.URLParam(r, "metric"))
	if err != nil {
		respondServiceError(w, "invalid metric", err)
		return
	}

	b, err := h.dashboardService.Breakdown(ds, fs, metric)
	if err != nil {
		respondServiceError(w, "failed to build breakdown", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, b)
}

// ArrearsRatio returns arrears as a share of rent roll per portfolio manager.
//
// Endpoint: GET /api/dashboard/arrears-ratio
// Response: 200 OK with []model.RatioRow
func (h *DashboardHandler) ArrearsRatio(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	rows, err := h.dashboardService.ArrearsRatio(ds, fs)
	if err != nil {
		respondServiceError(w, "failed to build arrears ratio", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, rows)
}

// Trend returns a metric series over every date in the filtered dataset.
//
// Endpoint: GET /api/dashboard/trend/{metric}?by_manager=true&by_agency=true
// Response: 200 OK with model.Trend
// Error: 400 Bad Request for an unknown metric, invalid filters or a malformed split flag
func (h *DashboardHandler) Trend(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}
	var split service.TrendSplit
	if split.ByManager, err = parseBoolParam(r, "by_manager"); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid by_manager parameter", err.Error())
		return
	}
	if split.ByAgency, err = parseBoolParam(r, "by_agency"); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid by_agency parameter", err.Error())
		return
	}

	metric, err := validation.ValidateMetric(chi.URLParam(r, "metric"))
	if err != nil {
		respondServiceError(w, "invalid metric", err)
		return
	}

	tr, err := h.dashboardService.Trend(ds, fs, metric, split)
	if err != nil {
		respondServiceError(w, "failed to build trend", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, tr)
}

// Arrears returns the arrears ageing buckets for the current period.
//
// Endpoint: GET /api/dashboard/arrears
// Response: 200 OK with []model.ArrearsBucket
func (h *DashboardHandler) Arrears(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	buckets, err := h.dashboardService.ArrearsBuckets(ds, fs)
	if err != nil {
		respondServiceError(w, "failed to build arrears buckets", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, buckets)
}

// Revenue returns revenue per account code for the current period.
//
// Endpoint: GET /api/dashboard/revenue
// Response: 200 OK with []model.RevenueLine
func (h *DashboardHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}

	lines, err := h.dashboardService.Revenue(ds, fs)
	if err != nil {
		respondServiceError(w, "failed to build revenue", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, lines)
}

// Export downloads a breakdown or trend table as CSV or Excel.
//
// Endpoint: GET /api/dashboard/export/{metric}?format=csv|xlsx&view=breakdown|trend
// Response: 200 OK with the file as an attachment
// Error: 400 Bad Request for an unknown format, view or metric
// Error: 500 Internal Server Error if the file cannot be written
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	ds, ok := sessionDataset(w, r)
	if !ok {
		return
	}
	fs, err := filterState(r)
	if err != nil {
		respondServiceError(w, "invalid dashboard query", err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, "invalid export format", err)
		return
	}

	metric, err := validation.ValidateMetric(chi.URLParam(r, "metric"))
	if err != nil {
		respondServiceError(w, "invalid metric", err)
		return
	}

	var table export.Table
	switch view := r.URL.Query().Get("view"); view {
	case "", ViewBreakdown:
		b, err := h.dashboardService.Breakdown(ds, fs, metric)
		if err != nil {
			respondServiceError(w, "failed to build breakdown", err)
			return
		}
		table = export.BreakdownTable(b)
	case ViewTrend:
		tr, err := h.dashboardService.Trend(ds, fs, metric, service.TrendSplit{})
		if err != nil {
			respondServiceError(w, "failed to build trend", err)
			return
		}
		table = export.TrendTable(tr)
	default:
		response.RespondError(w, http.StatusBadRequest, "invalid export view",
			fmt.Sprintf("view must be %q or %q", ViewBreakdown, ViewTrend))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		h.logger.Error("export failed", zap.String("metric", string(metric)), zap.Error(err))
		response.RespondError(w, http.StatusInternalServerError, "failed to export", err.Error())
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", table.Name, time.Now().UTC().Format("20060102"), format)
	response.RespondFile(w, format.ContentType(), filename, buf.Bytes())
}

func parseBoolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
