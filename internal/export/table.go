// Package export serializes finished dashboard tables to CSV and Excel.
package export

import (
	"fmt"
	"io"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/model"
)

// SheetName is the worksheet name used for Excel exports.
const SheetName = "Dashboard Export"

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidExportFormat, s)
}

// ContentType is the HTTP content type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table is a rectangular result ready to be written out. Cells hold strings,
// ints or float64s.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Write serializes t to w in format f.
func Write(w io.Writer, f Format, t Table) error {
	write := WriteCSV
	if f == FormatXLSX {
		write = WriteXLSX
	}
	if err := write(w, t); err != nil {
		return fmt.Errorf("%w %s: %w", apperrors.ErrFailedToExport, t.Name, err)
	}
	return nil
}

// BreakdownTable turns a per-manager breakdown into an exportable table.
func BreakdownTable(b *model.Breakdown) Table {
	t := Table{
		Name:    string(b.Metric),
		Columns: []string{"Rank", "Portfolio Manager", "Current", "Comparison", "Change", "Change %"},
		Rows:    make([][]any, 0, len(b.Rows)),
	}
	for _, r := range b.Rows {
		t.Rows = append(t.Rows, []any{r.Rank, r.PortfolioManager, r.Current, r.Comparison, r.Change, r.ChangePercent})
	}
	return t
}

// TrendTable turns a metric series into an exportable table.
func TrendTable(tr *model.Trend) Table {
	t := Table{
		Name:    string(tr.Metric) + "_trend",
		Columns: []string{"Date", tr.Label},
		Rows:    make([][]any, 0, len(tr.Points)),
	}
	for _, p := range tr.Points {
		t.Rows = append(t.Rows, []any{p.Date.Format("2006-01-02"), p.Value})
	}
	return t
}
