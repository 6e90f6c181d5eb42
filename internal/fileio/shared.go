package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"sosmate-service/internal/convert/model"
)

// Table is a header-addressed view of a master material sheet.
type Table struct {
	Headers []string
	Records []map[string]string
}

// ReadGrid picks a vendor parser by extension and returns the sheet as a
// positional grid with the first skipRows rows dropped. Vendor RAB files
// arrive as .xlsx or legacy .xls.
func ReadGrid(r io.Reader, filename, sheet string, skipRows int) (model.Grid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return gridXLSX(r, sheet, skipRows)
	case ".xls":
		return gridXLS(r, sheet, skipRows)
	default:
		return model.Grid{}, fmt.Errorf("unsupported vendor file: %s", filename)
	}
}

// ReadTable picks a master parser by extension. The first row is the
// header row.
func ReadTable(r io.Reader, filename string) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return tableXLSX(r)
	case ".csv":
		return tableCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported master file: %s", filename)
	}
}

// SheetNames lists the selectable sheets of a vendor workbook: visible
// sheets for .xlsx, every sheet for .xls (the legacy format carries no
// usable visibility flag).
func SheetNames(r io.Reader, filename string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return sheetsXLSX(r)
	case ".xls":
		return sheetsXLS(r)
	default:
		return nil, fmt.Errorf("unsupported vendor file: %s", filename)
	}
}

// toGrid pads raw rows to a rectangle and applies skipRows.
func toGrid(rows [][]string, skipRows int) model.Grid {
	if skipRows > 0 {
		if skipRows >= len(rows) {
			return model.Grid{}
		}
		rows = rows[skipRows:]
	}
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, cols)
		copy(row, r)
		out[i] = row
	}
	return model.Grid{Rows: out, Cols: cols}
}

// headersFrom takes the first row as headers, substituting Column N for
// blanks.
func headersFrom(rows [][]string) []string {
	h := rows[0]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// recordsFrom converts the data rows to maps keyed by header, skipping
// fully empty rows.
func recordsFrom(rows [][]string, headers []string) []map[string]string {
	var out []map[string]string
	for _, rec := range rows {
		m := map[string]string{}
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
