package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rxThousandDots   = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
	rxThousandCommas = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
)

// ParseFloatID parses quantities the way they appear in Indonesian RAB
// sheets: "1.234,56", "2.500" (dot-grouped thousands), "1,5" (decimal
// comma), plain "10.5", US-grouped "1,250.00", with NBSP or thin-space
// digit grouping. Anything that still has non-numeric content is
// rejected rather than guessed at, so "2x2.5" reports false instead of
// a bogus quantity.
func ParseFloatID(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "")
	s = repl.Replace(s)

	switch {
	case rxThousandDots.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case rxThousandCommas.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// mixed separators: whichever appears last is the decimal mark,
		// so both "1.234.567,89" and "1,234,567.89" come out right
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
