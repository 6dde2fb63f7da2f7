package record

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Record
	}{
		{"plain", "2024-01-01 12:00:00 obs 7 x y 10.5 20.25", Record{Block: 7, P1: 10.5, P2: 20.25}},
		{"tabs and extra tokens", "a\tb\tc\t0\td\te\t-1\t2e3\textra tokens here", Record{Block: 0, P1: -1, P2: 2000}},
		{"leading spaces", "   a b c 12 d e 1 2\n", Record{Block: 12, P1: 1, P2: 2}},
	}
	for _, c := range cases {
		got, err := Parse(c.line)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %+v want %+v", c.name, got, c.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too few tokens", "a b c 1 d e 2"},
		{"block not integer", "a b c 1.5 d e 2 3"},
		{"negative block", "a b c -4 d e 2 3"},
		{"p1 not float", "a b c 1 d e x 3"},
		{"p2 not float", "a b c 1 d e 2 y"},
		{"p1 NaN", "a b c 1 d e NaN 3"},
		{"p2 infinite", "a b c 1 d e 2 -Inf"},
		{"p1 overflows", "a b c 1 d e 1e400 3"},
	}
	for _, c := range cases {
		_, err := Parse(c.line)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: error %v does not wrap ErrFormat", c.name, err)
		}
	}
}

func TestFormat_ParsesBack(t *testing.T) {
	r := Record{Block: 3, P1: 100, P2: 200.5}
	got, err := Parse(Format(r))
	if err != nil {
		t.Fatalf("parse formatted: %v", err)
	}
	if got != r {
		t.Fatalf("got %+v want %+v", got, r)
	}
}
