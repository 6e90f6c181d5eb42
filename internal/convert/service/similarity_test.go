package service

import (
	"math"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower and trim", input: "  KABEL  NYY  ", want: "kabel nyy"},
		{name: "tabs and newlines", input: "Kabel\tNYY\n2x2,5", want: "kabel nyy 2x2,5"},
		{name: "already normal", input: "kabel nyy", want: "kabel nyy"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeText(tc.input)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
			if again := normalizeText(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "kabel nyy 2x2.5", b: "kabel nyy 2x2.5", want: 1},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "one char off", a: "kabel nyy 2x2,5", b: "kabel nyy 2x2.5", want: 1 - 2.0/30.0},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "", b: "abc", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ratio(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			if back := ratio(tc.b, tc.a); math.Abs(back-got) > 1e-9 {
				t.Fatalf("not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestIndelDistanceSubstitutionCostsTwo(t *testing.T) {
	if d := indelDistance("kopi", "kops"); d != 2 {
		t.Fatalf("got %d want 2", d)
	}
	if d := indelDistance("kopi", "kopin"); d != 1 {
		t.Fatalf("got %d want 1", d)
	}
}
