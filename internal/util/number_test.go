package util

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "decimal dot", input: "-23.5505", want: -23.5505},
		{name: "decimal comma", input: "-46,6333", want: -46.6333},
		{name: "surrounding space", input: "  12.5 ", want: 12.5},
		{name: "non breaking space", input: "\u00a07", want: 7},
		{name: "thousands dots", input: "1.234.567", want: 1234567},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := ParseNumber(tc.input)
			if parsed == nil {
				t.Fatalf("value is nil")
			}
			if *parsed != tc.want {
				t.Fatalf("got %v want %v", *parsed, tc.want)
			}
		})
	}
}

func TestParseNumberMissing(t *testing.T) {
	for _, input := range []string{"", "  ", "n/a", "NaN", "inf"} {
		if got := ParseNumber(input); got != nil {
			t.Fatalf("%q: got %v want nil", input, *got)
		}
	}
}

func TestParseYear(t *testing.T) {
	if y := ParseYear("2019"); y == nil || *y != 2019 {
		t.Fatalf("plain year: %v", y)
	}
	if y := ParseYear("2021.0"); y == nil || *y != 2021 {
		t.Fatalf("float year: %v", y)
	}
	for _, input := range []string{"", "s.d.", "2019.5"} {
		if y := ParseYear(input); y != nil {
			t.Fatalf("%q: got %d want nil", input, *y)
		}
	}
}
