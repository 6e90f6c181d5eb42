package model

// Mapping holds zero-based column offsets into the raw vendor grid,
// decoded from the spreadsheet letters the user picked (C, H, AA, ...).
type Mapping struct {
	Uraian int `json:"uraian"` // material name / description
	Mat    int `json:"mat"`    // material volume (MAT)
	Psg    int `json:"psg"`    // installation volume (PSG)
	Bkr    int `json:"bkr"`    // removal volume (BKR)
	Satuan int `json:"satuan"` // unit label, distinguishes PLN vs TUNAI
	Total  int `json:"total"`  // total price, used as the row filter
}

// Grid is a rectangular view over a vendor sheet: every row padded to
// Cols cells, no header interpretation, cells addressed positionally.
type Grid struct {
	Rows [][]string
	Cols int
}

// Cell returns the cell at (row, col) or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) {
		return ""
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// MasterRecord is one row of the master material table after the
// Nama/Kode/Tipe headers have been resolved by the caller.
type MasterRecord struct {
	Nama string
	Kode string
	Tipe string
}

// Entry is the catalog value stored per material name.
type Entry struct {
	Kode string
	Tipe string
}

// WorkingRow is a vendor row after projection through the Mapping and
// before filtering. Numeric fields are coerced fail-soft: anything that
// does not parse becomes 0.
type WorkingRow struct {
	Nama   string
	VolMat float64
	VolPsg float64
	VolBkr float64
	Satuan string // trimmed and upper-cased
	Total  float64
}

// ResultRow is one line of the converted SOSYS table. Kode/Tipe carry "-"
// when the material was not found in the master catalog. MatchScore and
// MatchedWith are set only for fuzzy matches; an exact hit has neither.
type ResultRow struct {
	Kode         string   `json:"kode"`
	Nama         string   `json:"nama"`
	Tipe         string   `json:"tipe"`
	Referensi    int      `json:"referensi"` // always 1 in the SOSYS template
	GudangPLN    float64  `json:"gudangPln"`
	DipesanTunai float64  `json:"dipesanTunai"`
	Pasang       float64  `json:"pasang"`
	Bongkar      float64  `json:"bongkar"`
	MatchScore   *float64 `json:"matchScore,omitempty"`
	MatchedWith  *string  `json:"matchedWith,omitempty"`
}

// Summary aggregates a result table. Derivable from the rows alone.
type Summary struct {
	TotalItems   int     `json:"totalItems"`
	Matched      int     `json:"matched"`
	ExactMatched int     `json:"exactMatched"`
	FuzzyMatched int     `json:"fuzzyMatched"`
	Unmatched    int     `json:"unmatched"`
	PLNItems     int     `json:"plnItems"`
	TunaiItems   int     `json:"tunaiItems"`
	TotalVolMat  float64 `json:"totalVolMat"`
	TotalPasang  float64 `json:"totalPasang"`
	TotalBongkar float64 `json:"totalBongkar"`
}

// Result is the convert response payload.
type Result struct {
	Rows    []ResultRow `json:"rows"`
	Summary Summary     `json:"summary"`
}
