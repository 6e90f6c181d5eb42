// Legacy .xls parser: the format lies about its width on sparse sheets,
// so we probe the real width ourselves and read every cell up to it.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	xls "github.com/extrame/xls"

	"sosmate-service/internal/convert/model"
)

func openXLS(r io.Reader) (*xls.WorkBook, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// vendor exports are usually UTF-8, older ones windows-1252
	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"utf-8", "windows-1252"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), ch)
		if lastErr == nil && wb != nil {
			return wb, nil
		}
	}
	if lastErr == nil {
		lastErr = errors.New("xls: failed to open workbook")
	}
	return nil, lastErr
}

func findSheet(wb *xls.WorkBook, name string) *xls.WorkSheet {
	if name == "" {
		return wb.GetSheet(0)
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == name {
			return s
		}
	}
	return nil
}

// probeWidth scans every row for the right-most populated cell; we do
// not rely on Row.LastCol, which under-reports on sparse sheets.
func probeWidth(sheet *xls.WorkSheet) int {
	const probeMax = 256
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if strings.TrimSpace(r.Col(j)) != "" && j+1 > width {
				width = j + 1
			}
		}
	}
	if width == 0 {
		width = 1
	}
	return width
}

func gridXLS(r io.Reader, sheet string, skipRows int) (model.Grid, error) {
	wb, err := openXLS(r)
	if err != nil {
		return model.Grid{}, err
	}
	s := findSheet(wb, sheet)
	if s == nil {
		return model.Grid{}, fmt.Errorf("sheet %q not found", sheet)
	}

	maxCols := probeWidth(s)
	rows := make([][]string, 0, int(s.MaxRow)+1)
	for i := 0; i <= int(s.MaxRow); i++ {
		row := s.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = strings.TrimSpace(row.Col(j)) // missing cells read as ""
			}
		}
		rows = append(rows, cols)
	}
	return toGrid(rows, skipRows), nil
}

func sheetsXLS(r io.Reader) ([]string, error) {
	wb, err := openXLS(r)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			out = append(out, s.Name)
		}
	}
	return out, nil
}
