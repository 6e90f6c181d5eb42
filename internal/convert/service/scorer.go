package service

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	normCacheSize = 1024
	simCacheSize  = 2048
)

type pairKey struct {
	a, b string
}

// Scorer memoizes text normalization and similarity scoring behind
// bounded LRU caches. Both caches key on the raw inputs and must be
// dropped whenever the master catalog is replaced, which is what
// Reset is for. Safe for concurrent use.
type Scorer struct {
	norm *lru.Cache[string, string]
	sim  *lru.Cache[pairKey, float64]

	normHits   atomic.Uint64
	normMisses atomic.Uint64
	simHits    atomic.Uint64
	simMisses  atomic.Uint64
}

func NewScorer() *Scorer {
	norm, _ := lru.New[string, string](normCacheSize)
	sim, _ := lru.New[pairKey, float64](simCacheSize)
	return &Scorer{norm: norm, sim: sim}
}

// Normalize returns the canonical comparison form of text.
func (s *Scorer) Normalize(text string) string {
	if v, ok := s.norm.Get(text); ok {
		s.normHits.Add(1)
		return v
	}
	s.normMisses.Add(1)
	v := normalizeText(text)
	s.norm.Add(text, v)
	return v
}

// Score returns the similarity between a and b in [0..1]. Both inputs
// are normalized first; an empty normalized form scores 0 and equal
// forms score exactly 1 without touching the distance algorithm.
func (s *Scorer) Score(a, b string) float64 {
	return s.scoreNormalized(a, b, s.Normalize(a), s.Normalize(b))
}

// scoreNormalized is Score with the normalization already paid for, so
// bulk callers (catalog scans) normalize each string only once.
func (s *Scorer) scoreNormalized(rawA, rawB, na, nb string) float64 {
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	key := pairKey{rawA, rawB}
	if v, ok := s.sim.Get(key); ok {
		s.simHits.Add(1)
		return v
	}
	s.simMisses.Add(1)
	v := ratio(na, nb)
	s.sim.Add(key, v)
	return v
}

// Reset drops every memoized entry and zeroes the counters. Called on
// master catalog reload so the caches track the live catalog's
// working set.
func (s *Scorer) Reset() {
	s.norm.Purge()
	s.sim.Purge()
	s.normHits.Store(0)
	s.normMisses.Store(0)
	s.simHits.Store(0)
	s.simMisses.Store(0)
}

// CacheInfo is one cache's counters for the stats endpoint.
type CacheInfo struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
}

type CacheStats struct {
	Normalize  CacheInfo `json:"normalize"`
	Similarity CacheInfo `json:"similarity"`
}

func (s *Scorer) Stats() CacheStats {
	return CacheStats{
		Normalize: CacheInfo{
			Hits:     s.normHits.Load(),
			Misses:   s.normMisses.Load(),
			Size:     s.norm.Len(),
			Capacity: normCacheSize,
		},
		Similarity: CacheInfo{
			Hits:     s.simHits.Load(),
			Misses:   s.simMisses.Load(),
			Size:     s.sim.Len(),
			Capacity: simCacheSize,
		},
	}
}
