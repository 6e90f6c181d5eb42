package service

import (
	"strings"

	"github.com/rs/zerolog"

	"sosmate-service/internal/convert/model"
	"sosmate-service/internal/utils"
)

// Engine converts vendor RAB grids into SOSYS result rows against a
// built catalog.
type Engine struct {
	log zerolog.Logger
}

func NewEngine(log zerolog.Logger) Engine {
	return Engine{log: log}
}

// Transform runs the whole conversion: project the mapped columns,
// filter out non-item rows, resolve every material and split its
// quantity by funding source. It never panics or returns an error;
// validation failures and internal faults produce an empty table plus
// an error log record.
func (e Engine) Transform(grid model.Grid, cat *Catalog, m model.Mapping, threshold float64) (rows []model.ResultRow) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error().Interface("panic", rec).Msg("transform failed")
			rows = nil
		}
	}()

	if err := ValidateMapping(m, grid.Cols); err != nil {
		e.log.Error().Err(err).Msg("column mapping rejected")
		return nil
	}

	kept := make([]model.WorkingRow, 0, len(grid.Rows))
	for i := range grid.Rows {
		w := projectRow(grid, i, m)
		if keepRow(w) {
			kept = append(kept, w)
		}
	}
	e.log.Info().Int("kept", len(kept)).Int("rows", len(grid.Rows)).Msg("vendor rows filtered")
	if len(kept) == 0 {
		return nil
	}

	rows = make([]model.ResultRow, 0, len(kept))
	for _, w := range kept {
		res := cat.Resolve(w.Nama, threshold)
		row := model.ResultRow{
			Kode:        res.Kode,
			Nama:        w.Nama,
			Tipe:        res.Tipe,
			Referensi:   1,
			Pasang:      w.VolPsg,
			Bongkar:     w.VolBkr,
			MatchScore:  res.Score,
			MatchedWith: res.MatchedWith,
		}
		// PLN materials come from the warehouse, everything else is bought
		if w.Satuan == "PLN" {
			row.GudangPLN = w.VolMat
		} else {
			row.DipesanTunai = w.VolMat
		}
		rows = append(rows, row)
	}

	s := Summarize(rows)
	e.log.Info().
		Int("items", s.TotalItems).
		Int("exact", s.ExactMatched).
		Int("fuzzy", s.FuzzyMatched).
		Int("unmatched", s.Unmatched).
		Msg("conversion done")
	return rows
}

// projectRow pulls the six mapped cells of one grid row into typed
// fields. Quantities parse fail-soft to zero, the way empty cells do.
func projectRow(g model.Grid, row int, m model.Mapping) model.WorkingRow {
	mat, _ := utils.ParseFloatID(g.Cell(row, m.Mat))
	psg, _ := utils.ParseFloatID(g.Cell(row, m.Psg))
	bkr, _ := utils.ParseFloatID(g.Cell(row, m.Bkr))
	total, _ := utils.ParseFloatID(g.Cell(row, m.Total))
	return model.WorkingRow{
		Nama:   strings.TrimSpace(g.Cell(row, m.Uraian)),
		VolMat: mat,
		VolPsg: psg,
		VolBkr: bkr,
		Satuan: strings.ToUpper(strings.TrimSpace(g.Cell(row, m.Satuan))),
		Total:  total,
	}
}

// keepRow keeps actual line items: priced rows whose name is not a
// missing-value marker and not one of the TOTAL/subtotal lines vendors
// embed between sections.
func keepRow(w model.WorkingRow) bool {
	if w.Total <= 0 {
		return false
	}
	if w.Nama == "" || strings.EqualFold(w.Nama, "nan") {
		return false
	}
	if strings.Contains(strings.ToUpper(w.Nama), "TOTAL") {
		return false
	}
	return true
}

// Reconcile re-derives Kode/Tipe for every row, picking up names the
// user edited after conversion, via the same exact-then-fuzzy lookup.
// Rows whose name trims to "" or "nan" are left untouched. Reports
// whether any Kode/Tipe pair actually changed; running it again
// without edits reports false.
func (e Engine) Reconcile(rows []model.ResultRow, cat *Catalog, threshold float64) ([]model.ResultRow, bool) {
	changed := false
	for i := range rows {
		nama := strings.TrimSpace(rows[i].Nama)
		if nama == "" || strings.EqualFold(nama, "nan") {
			continue
		}
		res := cat.Resolve(nama, threshold)
		if rows[i].Kode != res.Kode || rows[i].Tipe != res.Tipe {
			rows[i].Kode = res.Kode
			rows[i].Tipe = res.Tipe
			rows[i].MatchScore = res.Score
			rows[i].MatchedWith = res.MatchedWith
			changed = true
		}
	}
	if changed {
		e.log.Info().Int("rows", len(rows)).Msg("material codes reconciled")
	}
	return rows, changed
}

// Summarize derives the aggregate counters from a result table alone,
// so it works on freshly converted and on reconciled rows alike.
func Summarize(rows []model.ResultRow) model.Summary {
	s := model.Summary{TotalItems: len(rows)}
	for _, r := range rows {
		if r.Kode != "-" {
			s.Matched++
		} else {
			s.Unmatched++
		}
		if r.MatchScore != nil {
			s.FuzzyMatched++
		}
		if r.GudangPLN > 0 {
			s.PLNItems++
		}
		if r.DipesanTunai > 0 {
			s.TunaiItems++
		}
		s.TotalVolMat += r.GudangPLN + r.DipesanTunai
		s.TotalPasang += r.Pasang
		s.TotalBongkar += r.Bongkar
	}
	s.ExactMatched = s.Matched - s.FuzzyMatched
	return s
}
