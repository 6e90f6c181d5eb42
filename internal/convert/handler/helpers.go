package handler

import (
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"sosmate-service/internal/convert/model"
	convSvc "sosmate-service/internal/convert/service"
	"sosmate-service/internal/fileio"
)

// default vendor column letters, matching the usual RAB layout
const (
	defaultUraian = "C"
	defaultMat    = "H"
	defaultPsg    = "I"
	defaultBkr    = "J"
	defaultSatuan = "L"
	defaultTotal  = "R"
)

func formFile(r *http.Request, key string, maxMB int) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(int64(maxMB) << 20); err != nil {
		return nil, nil, fmt.Errorf("bad multipart form: %v", err)
	}
	f, h, err := r.FormFile(key)
	if err != nil {
		return nil, nil, fmt.Errorf("missing %s: %v", key, err)
	}
	return f, h, nil
}

func formValue(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// parseMapping decodes the six column letters from the form, falling
// back to the usual RAB layout (C/H/I/J/L/R).
func parseMapping(r *http.Request) (model.Mapping, error) {
	var m model.Mapping
	fields := []struct {
		key string
		def string
		dst *int
	}{
		{"uraian", defaultUraian, &m.Uraian},
		{"mat", defaultMat, &m.Mat},
		{"psg", defaultPsg, &m.Psg},
		{"bkr", defaultBkr, &m.Bkr},
		{"satuan", defaultSatuan, &m.Satuan},
		{"total", defaultTotal, &m.Total},
	}
	for _, f := range fields {
		idx, err := convSvc.LetterIndex(formValue(r, f.key, f.def))
		if err != nil {
			return model.Mapping{}, fmt.Errorf("column %s: %v", f.key, err)
		}
		*f.dst = idx
	}
	return m, nil
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey canonicalizes a header cell for matching: lower-case,
// punctuation and exotic spaces collapsed.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumn finds the actual header carrying a required logical
// field. Master exports vary ("Nama Material", "NAMA", "nama_material"),
// so a case-insensitive substring test picks the first hit.
func resolveColumn(headers []string, want string) (string, bool) {
	nw := normHeaderKey(want)
	for _, h := range headers {
		if strings.Contains(normHeaderKey(h), nw) {
			return h, true
		}
	}
	return "", false
}

// masterRecords projects a raw master table onto Nama/Kode/Tipe.
// The second return lists the logical fields that could not be resolved.
func masterRecords(t fileio.Table) ([]model.MasterRecord, []string) {
	keys := map[string]string{}
	var missing []string
	for _, want := range []string{"Nama", "Kode", "Tipe"} {
		h, ok := resolveColumn(t.Headers, want)
		if !ok {
			missing = append(missing, want)
			continue
		}
		keys[want] = h
	}
	if len(missing) > 0 {
		return nil, missing
	}

	out := make([]model.MasterRecord, 0, len(t.Records))
	for _, rec := range t.Records {
		out = append(out, model.MasterRecord{
			Nama: rec[keys["Nama"]],
			Kode: rec[keys["Kode"]],
			Tipe: rec[keys["Tipe"]],
		})
	}
	return out, nil
}
