package service

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"sosmate-service/internal/convert/model"
)

// vendor grid columns in test order: uraian, mat, psg, bkr, satuan, total
var testMapping = model.Mapping{Uraian: 0, Mat: 1, Psg: 2, Bkr: 3, Satuan: 4, Total: 5}

func mkGrid(rows ...[]string) model.Grid {
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

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	return BuildCatalog([]model.MasterRecord{
		{Nama: "KABEL NYY 2x2.5", Kode: "C001", Tipe: "TYPE-A"},
		{Nama: "TIANG BETON 9m", Kode: "B100", Tipe: "T-B"},
		{Nama: "ISOLATOR TUMPU 20kV", Kode: "I200", Tipe: "T-I"},
	}, NewScorer())
}

func TestTransformFiltersNonItems(t *testing.T) {
	grid := mkGrid(
		[]string{"KABEL NYY 2x2.5", "10", "10", "0", "PLN", "0"},
		[]string{"TIANG BETON 9m", "2", "2", "0", "PLN", "5"},
		[]string{"nan", "1", "1", "0", "PLN", "-1"},
		[]string{"SUB TOTAL PEKERJAAN", "0", "0", "0", "", "99"},
		[]string{"", "3", "3", "0", "BTL", "7"},
		[]string{"ISOLATOR TUMPU 20kV", "4", "4", "1", "BTL", "10"},
	)
	rows := NewEngine(zerolog.Nop()).Transform(grid, testCatalog(t), testMapping, 0.8)

	if len(rows) != 2 {
		t.Fatalf("kept %d rows, want 2: %+v", len(rows), rows)
	}
	if rows[0].Nama != "TIANG BETON 9m" || rows[1].Nama != "ISOLATOR TUMPU 20kV" {
		t.Fatalf("input order not preserved: %+v", rows)
	}
	for _, r := range rows {
		if r.Referensi != 1 {
			t.Fatalf("referensi must be 1: %+v", r)
		}
	}
}

func TestTransformSplitsByFundingSource(t *testing.T) {
	grid := mkGrid(
		[]string{"KABEL NYY 2x2.5", "12,5", "12,5", "0", "pln", "100"},
		[]string{"ISOLATOR TUMPU 20kV", "4", "4", "2", "BTL", "50"},
	)
	rows := NewEngine(zerolog.Nop()).Transform(grid, testCatalog(t), testMapping, 0.8)

	if len(rows) != 2 {
		t.Fatalf("kept %d rows, want 2", len(rows))
	}
	pln := rows[0]
	if pln.GudangPLN != 12.5 || pln.DipesanTunai != 0 {
		t.Fatalf("PLN row split wrong: %+v", pln)
	}
	tunai := rows[1]
	if tunai.GudangPLN != 0 || tunai.DipesanTunai != 4 {
		t.Fatalf("non-PLN row split wrong: %+v", tunai)
	}
	if tunai.Pasang != 4 || tunai.Bongkar != 2 {
		t.Fatalf("pasang/bongkar volumes: %+v", tunai)
	}
}

func TestTransformResolvesExactFuzzyAndMiss(t *testing.T) {
	grid := mkGrid(
		[]string{"KABEL NYY 2x2.5", "1", "1", "0", "PLN", "10"},
		[]string{"KABEL NYY 2x2,5", "1", "1", "0", "PLN", "10"},
		[]string{"BARANG YANG TIDAK ADA", "1", "1", "0", "BTL", "10"},
	)
	rows := NewEngine(zerolog.Nop()).Transform(grid, testCatalog(t), testMapping, 0.8)
	if len(rows) != 3 {
		t.Fatalf("kept %d rows, want 3", len(rows))
	}

	exact := rows[0]
	if exact.Kode != "C001" || exact.Tipe != "TYPE-A" || exact.MatchScore != nil {
		t.Fatalf("exact row: %+v", exact)
	}

	fuzzy := rows[1]
	if fuzzy.Kode != "C001" || fuzzy.MatchScore == nil || fuzzy.MatchedWith == nil {
		t.Fatalf("fuzzy row: %+v", fuzzy)
	}
	if want := 1 - 2.0/30.0; math.Abs(*fuzzy.MatchScore-want) > 1e-9 {
		t.Fatalf("fuzzy score = %v, want %v", *fuzzy.MatchScore, want)
	}
	if *fuzzy.MatchedWith != "KABEL NYY 2x2.5" {
		t.Fatalf("matched with %q", *fuzzy.MatchedWith)
	}

	miss := rows[2]
	if miss.Kode != "-" || miss.Tipe != "-" || miss.MatchScore != nil {
		t.Fatalf("miss row: %+v", miss)
	}
}

func TestTransformBadMappingYieldsEmpty(t *testing.T) {
	grid := mkGrid([]string{"KABEL NYY 2x2.5", "1", "1", "0", "PLN", "10"})
	bad := testMapping
	bad.Total = 99
	rows := NewEngine(zerolog.Nop()).Transform(grid, testCatalog(t), bad, 0.8)
	if len(rows) != 0 {
		t.Fatalf("out-of-bounds mapping must yield an empty table, got %d rows", len(rows))
	}
}

func TestTransformEmptyGridYieldsEmpty(t *testing.T) {
	rows := NewEngine(zerolog.Nop()).Transform(model.Grid{}, testCatalog(t), testMapping, 0.8)
	if len(rows) != 0 {
		t.Fatalf("empty grid must yield an empty table, got %d rows", len(rows))
	}
}

func TestReconcileUpdatesEditedNames(t *testing.T) {
	cat := testCatalog(t)
	engine := NewEngine(zerolog.Nop())

	grid := mkGrid([]string{"BARANG YANG TIDAK ADA", "1", "1", "0", "PLN", "10"})
	rows := engine.Transform(grid, cat, testMapping, 0.8)
	if rows[0].Kode != "-" {
		t.Fatalf("precondition: row should start unmatched, got %+v", rows[0])
	}

	// user fixes the name in place, the code follows on reconcile
	rows[0].Nama = "TIANG BETON 9m"
	rows, changed := engine.Reconcile(rows, cat, 0.8)
	if !changed {
		t.Fatalf("edit must be reported as a change")
	}
	if rows[0].Kode != "B100" || rows[0].Tipe != "T-B" || rows[0].MatchScore != nil {
		t.Fatalf("reconciled row: %+v", rows[0])
	}

	if _, changed = engine.Reconcile(rows, cat, 0.8); changed {
		t.Fatalf("second pass without edits must report no change")
	}
}

func TestReconcileSkipsBlankNames(t *testing.T) {
	rows := []model.ResultRow{
		{Kode: "C001", Nama: "", Tipe: "TYPE-A", Referensi: 1},
		{Kode: "B100", Nama: "nan", Tipe: "T-B", Referensi: 1},
	}
	got, changed := NewEngine(zerolog.Nop()).Reconcile(rows, testCatalog(t), 0.8)
	if changed {
		t.Fatalf("blank names must be left alone")
	}
	if got[0].Kode != "C001" || got[1].Kode != "B100" {
		t.Fatalf("rows mutated: %+v", got)
	}
}

func TestReconcileRefreshesProvenance(t *testing.T) {
	cat := testCatalog(t)
	engine := NewEngine(zerolog.Nop())

	rows := []model.ResultRow{{Kode: "-", Nama: "KABEL NYY 2x2,5", Tipe: "-", Referensi: 1}}
	rows, changed := engine.Reconcile(rows, cat, 0.8)
	if !changed || rows[0].Kode != "C001" {
		t.Fatalf("fuzzy reconcile: changed=%v %+v", changed, rows[0])
	}
	if rows[0].MatchScore == nil || rows[0].MatchedWith == nil {
		t.Fatalf("provenance must be refreshed on change: %+v", rows[0])
	}
}

func TestSummarize(t *testing.T) {
	score := 0.9
	with := "KABEL NYY 2x2.5"
	rows := []model.ResultRow{
		{Kode: "C001", Nama: "a", Referensi: 1, GudangPLN: 10, Pasang: 10},
		{Kode: "C001", Nama: "b", Referensi: 1, DipesanTunai: 4, Pasang: 4, Bongkar: 2, MatchScore: &score, MatchedWith: &with},
		{Kode: "-", Nama: "c", Referensi: 1, DipesanTunai: 1, Pasang: 1},
	}
	s := Summarize(rows)

	if s.TotalItems != 3 || s.Matched != 2 || s.Unmatched != 1 {
		t.Fatalf("match counters: %+v", s)
	}
	if s.ExactMatched != 1 || s.FuzzyMatched != 1 {
		t.Fatalf("tier counters: %+v", s)
	}
	if s.PLNItems != 1 || s.TunaiItems != 2 {
		t.Fatalf("funding counters: %+v", s)
	}
	if s.TotalVolMat != 15 || s.TotalPasang != 15 || s.TotalBongkar != 2 {
		t.Fatalf("volume totals: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalItems != 0 || s.Matched != 0 || s.TotalVolMat != 0 {
		t.Fatalf("empty summary: %+v", s)
	}
}
