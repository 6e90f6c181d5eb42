package service

import (
	"math"
	"testing"
)

func TestScorerShortCircuits(t *testing.T) {
	s := NewScorer()

	if got := s.Score("KABEL  NYY", "kabel nyy"); got != 1 {
		t.Fatalf("equal after normalization: got %v want 1", got)
	}
	if got := s.Score("", "kabel nyy"); got != 0 {
		t.Fatalf("empty input: got %v want 0", got)
	}
	if got := s.Score("   ", "kabel nyy"); got != 0 {
		t.Fatalf("blank input: got %v want 0", got)
	}
}

func TestScorerMemoizes(t *testing.T) {
	s := NewScorer()

	first := s.Score("kabel nyy 2x2,5", "KABEL NYY 2x2.5")
	stats := s.Stats()
	if stats.Similarity.Misses != 1 || stats.Similarity.Hits != 0 {
		t.Fatalf("after first call: %+v", stats.Similarity)
	}

	second := s.Score("kabel nyy 2x2,5", "KABEL NYY 2x2.5")
	if math.Abs(first-second) > 1e-12 {
		t.Fatalf("cached value drifted: %v vs %v", first, second)
	}
	stats = s.Stats()
	if stats.Similarity.Hits != 1 {
		t.Fatalf("expected a cache hit: %+v", stats.Similarity)
	}
	if stats.Normalize.Size == 0 {
		t.Fatalf("normalize cache should hold entries: %+v", stats.Normalize)
	}
}

func TestScorerReset(t *testing.T) {
	s := NewScorer()
	s.Score("kabel nyy", "kabel nya")
	s.Score("kabel nyy", "kabel nya")

	s.Reset()

	stats := s.Stats()
	if stats.Similarity.Size != 0 || stats.Normalize.Size != 0 {
		t.Fatalf("caches not purged: %+v", stats)
	}
	if stats.Similarity.Hits != 0 || stats.Similarity.Misses != 0 {
		t.Fatalf("counters not zeroed: %+v", stats.Similarity)
	}
}
