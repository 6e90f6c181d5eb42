package fileio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	excelize "github.com/xuri/excelize/v2"

	"sosmate-service/internal/convert/model"
)

// ResultColumns is the SOSYS PK template header, in template order.
// Downstream spreadsheet tooling keys on these exact names.
var ResultColumns = []string{
	"Kode Material",
	"Nama Material",
	"Tipe Material",
	"Referensi Jumlah",
	"Jumlah Material Gudang (PLN)",
	"Jumlah Material Dipesan (Tunai)",
	"Jumlah Pasang",
	"Jumlah Bongkar",
}

// WriteResultXLSX renders the result table as an xlsx workbook.
func WriteResultXLSX(rows []model.ResultRow, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := exportSheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, err
	}

	for i, h := range ResultColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(name, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(name, cell, value)
		}
		set(1, row.Kode)
		set(2, row.Nama)
		set(3, row.Tipe)
		set(4, row.Referensi)
		set(5, row.GudangPLN)
		set(6, row.DipesanTunai)
		set(7, row.Pasang)
		set(8, row.Bongkar)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteResultCSV renders the result table as comma-separated UTF-8.
func WriteResultCSV(rows []model.ResultRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ResultColumns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		rec := []string{
			row.Kode,
			row.Nama,
			row.Tipe,
			strconv.Itoa(row.Referensi),
			formatQty(row.GudangPLN),
			formatQty(row.DipesanTunai),
			formatQty(row.Pasang),
			formatQty(row.Bongkar),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportFilename follows the SOSYS_<name>_<timestamp> download contract.
func ExportFilename(name, ext string, now time.Time) string {
	if name == "" {
		name = "processed_data"
	}
	return fmt.Sprintf("SOSYS_%s_%s.%s", name, now.Format("20060102_150405"), ext)
}

// exportSheetName truncates to the 31-char xlsx sheet name limit.
func exportSheetName(s string) string {
	if s == "" {
		return "SOSYS"
	}
	r := []rune(s)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
