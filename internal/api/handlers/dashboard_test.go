package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/handlers"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/testutil"
)

func newDashboardHandler(t *testing.T) *handlers.DashboardHandler {
	t.Helper()
	return handlers.NewDashboardHandler(testutil.NewTestDashboardService(t), zap.NewNop())
}

// dashboardRequest builds a request as SessionMiddleware would hand it over,
// carrying the sample dataset in the session context.
func dashboardRequest(target string, params map[string]string) *http.Request {
	return withSampleSession(testutil.NewRequestWithURLParams(http.MethodGet, target, params))
}

func withSampleSession(req *http.Request) *http.Request {
	sc := service.SessionContext{
		ID:      testutil.MakeID(),
		Default: true,
		Dataset: testutil.SampleDataset(),
	}
	return req.WithContext(middleware.WithSession(req.Context(), sc))
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestDashboardHandler_Filters(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("narrows managers to the agency", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Filters(w, dashboardRequest("/api/dashboard/filters?agency=Commercial+CBD", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var opts model.FilterOptions
		decodeJSON(t, w, &opts)
		if len(opts.Agencies) != 2 || len(opts.PortfolioManagers) != 2 {
			t.Errorf("Unexpected filter options %+v", opts)
		}
	})
}

func TestDashboardHandler_Periods(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("enumerates month options", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Periods(w, dashboardRequest("/api/dashboard/periods?period_type=month", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var opts model.PeriodOptions
		decodeJSON(t, w, &opts)
		if opts.PeriodType != model.PeriodMonth || len(opts.Options) != 3 {
			t.Errorf("Expected 3 month options, got %+v", opts)
		}
	})

	t.Run("enumerates financial quarters", func(t *testing.T) {
		req := withSampleSession(testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/periods", map[string]string{
			"period_type": "quarter",
			"calendar":    "financial_au",
		}))
		w := httptest.NewRecorder()
		handler.Periods(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var opts model.PeriodOptions
		decodeJSON(t, w, &opts)
		if opts.Calendar != model.CalendarFinancialAU || len(opts.Options) == 0 {
			t.Errorf("Expected financial quarter options, got %+v", opts)
		}
	})

	t.Run("rejects an unknown period type", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Periods(w, dashboardRequest("/api/dashboard/periods?period_type=fortnight", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestDashboardHandler_KPIs tests the GET /api/dashboard/kpis endpoint.
//
// WHY: The KPI report is the landing view. Default selections must resolve to
// the latest period, and a bad period label must be a client error rather than
// an empty report.
func TestDashboardHandler_KPIs(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("defaults to the latest month", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.KPIs(w, dashboardRequest("/api/dashboard/kpis", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var report model.KPIReport
		decodeJSON(t, w, &report)
		if !report.HasData || len(report.Cards) == 0 {
			t.Errorf("Expected a populated report, got %+v", report)
		}
		if !report.Current.Resolved.Equal(testutil.Month(2024, time.March)) {
			t.Errorf("Expected March 2024, got %v", report.Current.Resolved)
		}
	})

	t.Run("rejects an unknown period label", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.KPIs(w, dashboardRequest("/api/dashboard/kpis?current=Smarch+2024", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an invalid calendar", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.KPIs(w, dashboardRequest("/api/dashboard/kpis?calendar=lunar", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestDashboardHandler_Breakdown(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("ranks managers for the metric", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Breakdown(w, dashboardRequest("/api/dashboard/breakdown/rent_roll", map[string]string{"metric": "rent_roll"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var b model.Breakdown
		decodeJSON(t, w, &b)
		if len(b.Rows) != 3 || b.Rows[0].PortfolioManager != "Nash Eli" || b.Rows[0].Current != 90000 {
			t.Errorf("Unexpected breakdown %+v", b.Rows)
		}
	})

	t.Run("returns 400 for an unknown metric", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Breakdown(w, dashboardRequest("/api/dashboard/breakdown/nonsense", map[string]string{"metric": "nonsense"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestDashboardHandler_Trend(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("includes per-manager series on request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Trend(w, dashboardRequest("/api/dashboard/trend/rent_roll?by_manager=true", map[string]string{"metric": "rent_roll"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var tr model.Trend
		decodeJSON(t, w, &tr)
		if len(tr.Points) != 3 || len(tr.ByManager) != 3 {
			t.Errorf("Expected 3 points and 3 managers, got %d and %d", len(tr.Points), len(tr.ByManager))
		}
	})

	t.Run("includes per-agency series on request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Trend(w, dashboardRequest("/api/dashboard/trend/rent_roll?by_agency=1", map[string]string{"metric": "rent_roll"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var tr model.Trend
		decodeJSON(t, w, &tr)
		if len(tr.ByAgency) != 2 || tr.ByManager != nil {
			t.Errorf("Expected 2 agencies and no managers, got %d and %d", len(tr.ByAgency), len(tr.ByManager))
		}
	})

	t.Run("rejects a malformed by_manager flag", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Trend(w, dashboardRequest("/api/dashboard/trend/rent_roll?by_manager=maybe", map[string]string{"metric": "rent_roll"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestDashboardHandler_Tables(t *testing.T) {
	handler := newDashboardHandler(t)

	t.Run("arrears ratio", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ArrearsRatio(w, dashboardRequest("/api/dashboard/arrears-ratio", nil))

		var rows []model.RatioRow
		decodeJSON(t, w, &rows)
		if w.Code != http.StatusOK || len(rows) != 3 {
			t.Errorf("Expected 3 ratio rows, got %d (status %d)", len(rows), w.Code)
		}
	})

	t.Run("arrears buckets", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Arrears(w, dashboardRequest("/api/dashboard/arrears", nil))

		var buckets []model.ArrearsBucket
		decodeJSON(t, w, &buckets)
		if w.Code != http.StatusOK || len(buckets) != 4 {
			t.Errorf("Expected 4 buckets, got %d (status %d)", len(buckets), w.Code)
		}
	})

	t.Run("revenue by account code", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Revenue(w, dashboardRequest("/api/dashboard/revenue", nil))

		var lines []model.RevenueLine
		decodeJSON(t, w, &lines)
		if w.Code != http.StatusOK || len(lines) != len(service.RevenueAccountCodes) {
			t.Errorf("Expected %d revenue lines, got %d (status %d)", len(service.RevenueAccountCodes), len(lines), w.Code)
		}
	})
}

// TestDashboardHandler_Export tests the GET /api/dashboard/export/{metric} endpoint.
//
// WHY: Exports are downloaded by browsers. The content type and attachment
// header decide whether the file opens in the right application.
func TestDashboardHandler_Export(t *testing.T) {
	handler := newDashboardHandler(t)
	params := map[string]string{"metric": "rent_roll"}

	t.Run("breakdown as CSV", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Export(w, dashboardRequest("/api/dashboard/export/rent_roll?format=csv", params))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Expected text/csv, got %s", ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "rent_roll_") {
			t.Errorf("Unexpected Content-Disposition %q", cd)
		}
		header, _, _ := strings.Cut(w.Body.String(), "\n")
		if header != "Rank,Portfolio Manager,Current,Comparison,Change,Change %" {
			t.Errorf("Unexpected CSV header %q", header)
		}
	})

	t.Run("trend as Excel", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Export(w, dashboardRequest("/api/dashboard/export/rent_roll?format=xlsx&view=trend", params))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
			t.Error("Expected a zip container")
		}
	})

	t.Run("rejects an unknown format", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Export(w, dashboardRequest("/api/dashboard/export/rent_roll?format=pdf", params))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("rejects an unknown view", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Export(w, dashboardRequest("/api/dashboard/export/rent_roll?view=pie", params))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
