package service

import (
	"fmt"
	"strings"

	"sosmate-service/internal/convert/model"
)

// LetterIndex converts a spreadsheet column label to its zero-based
// offset: A=0, Z=25, AA=26, AZ=51. Case-insensitive, trimmed. Labels
// longer than "XFD", the xlsx column ceiling, are invalid; the cap also
// keeps the base-26 accumulation below any overflow.
func LetterIndex(letters string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(letters))
	if s == "" {
		return 0, fmt.Errorf("empty column letter")
	}
	if len(s) > 3 {
		return 0, fmt.Errorf("invalid column letter %q", letters)
	}
	n := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", letters)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n - 1, nil
}

// ValidateMapping checks every mapped offset against the grid width
// before any cell is read. The error names the offending field and the
// bound so the caller can surface it as-is.
func ValidateMapping(m model.Mapping, cols int) error {
	fields := []struct {
		name string
		idx  int
	}{
		{"uraian", m.Uraian},
		{"mat", m.Mat},
		{"psg", m.Psg},
		{"bkr", m.Bkr},
		{"satuan", m.Satuan},
		{"total", m.Total},
	}
	for _, f := range fields {
		if f.idx < 0 {
			return fmt.Errorf("column %s has negative index %d", f.name, f.idx)
		}
		if f.idx >= cols {
			return fmt.Errorf("column %s (index %d) is outside the sheet, which has %d columns", f.name, f.idx, cols)
		}
	}
	return nil
}
