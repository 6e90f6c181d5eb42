package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// tableCSV reads a master CSV, auto-detecting the encoding and
// converting to UTF-8. Exports from Excel on Indonesian locales come as
// cp1252 or latin1 with ';' as the separator; plain UTF-8 with ','
// works too.
func tableCSV(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	switch cs := detectCharset(peek); {
	case cs == "windows-1252" || cs == "cp1252":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	case strings.HasPrefix(cs, "iso-8859-") || cs == "latin1":
		dec = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	case len(peek) > 0 && !validUTF8(peek):
		// detector picked a label we do not map but the bytes are not
		// UTF-8 either; Excel exports are cp1252 in practice
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.Comma = sniffDelimiter(peek)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	h := headersFrom(rows)
	return Table{Headers: h, Records: recordsFrom(rows[1:], h)}, nil
}

func detectCharset(peek []byte) string {
	if len(peek) == 0 {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

// validUTF8 reports whether peek holds valid UTF-8, tolerating a rune
// the peek window may have cut at its end.
func validUTF8(peek []byte) bool {
	for i := 0; i < 4 && len(peek) > 0; i++ {
		if utf8.Valid(peek) {
			return true
		}
		peek = peek[:len(peek)-1]
	}
	return false
}

// sniffDelimiter prefers ';' when the header line carries one.
func sniffDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.ContainsRune(line, ';') {
		return ';'
	}
	return ','
}
