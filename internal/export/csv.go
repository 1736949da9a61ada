package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes t as CSV with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = cellString(row[j])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}
