package service

import (
	"strings"

	"sosmate-service/internal/convert/model"
)

// Catalog maps master material names to their Kode/Tipe attributes and
// answers exact and best-approximate lookups. Immutable once built; the
// scorer it carries owns the memoization.
type Catalog struct {
	entries map[string]model.Entry
	names   []string // first-occurrence order, fixes tie-breaking
	norms   []string // names normalized once at build time
	scorer  *Scorer
}

// BuildCatalog indexes master records by their trimmed Nama. Records
// whose name trims to "" or "nan" are dropped (missing-value markers
// from the upstream table). Duplicate names keep the position of the
// first occurrence and the attributes of the last. Kode or Tipe that
// trim to "" or "nan" become "-".
func BuildCatalog(records []model.MasterRecord, scorer *Scorer) *Catalog {
	c := &Catalog{
		entries: make(map[string]model.Entry, len(records)),
		scorer:  scorer,
	}
	for _, r := range records {
		nama := strings.TrimSpace(r.Nama)
		if nama == "" || strings.EqualFold(nama, "nan") {
			continue
		}
		if _, seen := c.entries[nama]; !seen {
			c.names = append(c.names, nama)
			c.norms = append(c.norms, normalizeText(nama))
		}
		c.entries[nama] = model.Entry{Kode: orDash(r.Kode), Tipe: orDash(r.Tipe)}
	}
	return c
}

func orDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") {
		return "-"
	}
	return v
}

func (c *Catalog) Len() int { return len(c.entries) }

// Exact looks nama up exactly as stored: case-sensitive, no
// normalization beyond the trim the caller already did.
func (c *Catalog) Exact(nama string) (model.Entry, bool) {
	e, ok := c.entries[nama]
	return e, ok
}

// BestMatch scans every catalog name and returns the best-scoring one,
// provided it reaches threshold. Ties keep the earliest name in build
// order. Cost is O(catalog) per call; the per-name normalization was
// prepaid at build time.
func (c *Catalog) BestMatch(nama string, threshold float64) (string, model.Entry, float64, bool) {
	qn := c.scorer.Normalize(nama)
	if qn == "" || len(c.names) == 0 {
		return "", model.Entry{}, 0, false
	}

	bestIdx := -1
	best := 0.0
	for i, name := range c.names {
		s := c.scorer.scoreNormalized(nama, name, qn, c.norms[i])
		if s > best {
			best = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || best < threshold {
		return "", model.Entry{}, 0, false
	}
	name := c.names[bestIdx]
	return name, c.entries[name], best, true
}

// Resolution is the outcome of one material lookup.
type Resolution struct {
	Kode        string
	Tipe        string
	Score       *float64 // set on fuzzy hits only
	MatchedWith *string  // set on fuzzy hits only
}

// Resolve applies the two-tier lookup policy: exact hit on the stored
// name first, fuzzy best-match only on a miss. Exact hits never carry
// score provenance, even when a fuzzy scan would also land on 1.0.
// No hit at either tier yields the "-"/"-" placeholder pair.
func (c *Catalog) Resolve(nama string, threshold float64) Resolution {
	if e, ok := c.Exact(nama); ok {
		return Resolution{Kode: e.Kode, Tipe: e.Tipe}
	}
	if name, e, score, ok := c.BestMatch(nama, threshold); ok {
		return Resolution{Kode: e.Kode, Tipe: e.Tipe, Score: &score, MatchedWith: &name}
	}
	return Resolution{Kode: "-", Tipe: "-"}
}
