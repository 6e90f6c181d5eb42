package fileio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"sosmate-service/internal/convert/model"
)

// master workbooks name their catalog sheet like this; fall back to the
// first sheet when it is absent
const masterSheetName = "MASTER MATERIAL"

func openXLSX(r io.Reader) (*excelize.File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return excelize.OpenReader(bytes.NewReader(b))
}

func gridXLSX(r io.Reader, sheet string, skipRows int) (model.Grid, error) {
	f, err := openXLSX(r)
	if err != nil {
		return model.Grid{}, err
	}
	defer f.Close()

	if sheet == "" {
		visible, err := visibleSheets(f)
		if err != nil {
			return model.Grid{}, err
		}
		if len(visible) == 0 {
			return model.Grid{}, errors.New("workbook has no visible sheets")
		}
		sheet = visible[0]
	}
	// raw values, not the styled rendering: a number format like
	// #,##0.00 would otherwise turn 2500000 into "2,500,000.00" and
	// corrupt the quantity columns
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Grid{}, err
	}
	return toGrid(rows, skipRows), nil
}

func sheetsXLSX(r io.Reader) ([]string, error) {
	f, err := openXLSX(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return visibleSheets(f)
}

func visibleSheets(f *excelize.File) ([]string, error) {
	var out []string
	for _, name := range f.GetSheetList() {
		vis, err := f.GetSheetVisible(name)
		if err != nil {
			return nil, err
		}
		if vis {
			out = append(out, name)
		}
	}
	return out, nil
}

func tableXLSX(r io.Reader) (Table, error) {
	f, err := openXLSX(r)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, masterSheetName) {
			sheet = name
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	h := headersFrom(rows)
	return Table{Headers: h, Records: recordsFrom(rows[1:], h)}, nil
}
