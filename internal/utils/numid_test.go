package utils

import "testing"

func TestParseFloatID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain integer", input: "10", want: 10, ok: true},
		{name: "decimal dot", input: "10.5", want: 10.5, ok: true},
		{name: "decimal comma", input: "1,5", want: 1.5, ok: true},
		{name: "thousand dots", input: "1.234", want: 1234, ok: true},
		{name: "thousand commas", input: "1,234", want: 1234, ok: true},
		{name: "mixed id format", input: "1.234.567,89", want: 1234567.89, ok: true},
		{name: "mixed us format", input: "1,234,567.89", want: 1234567.89, ok: true},
		{name: "us styled cell", input: "1,250.00", want: 1250, ok: true},
		{name: "us styled millions", input: "2,500,000.00", want: 2500000, ok: true},
		{name: "id styled cell", input: "1.250,00", want: 1250, ok: true},
		{name: "space grouping", input: "2 500", want: 2500, ok: true},
		{name: "negative", input: "-1", want: -1, ok: true},
		{name: "padded", input: "  42  ", want: 42, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "text", input: "abc", ok: false},
		{name: "dimension", input: "2x2.5", ok: false},
		{name: "currency prefix", input: "Rp 1.500", ok: false},
		{name: "double dots", input: "1.2.3", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseFloatID(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}
