package analysis

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractPoints_SparsityFiltering(t *testing.T) {
	s := NewStore(20, 100, 0)
	fill := map[int]Accumulator{
		0:  {SumP1: 4, SumP2: 8, CountP1: 2, CountP2: 2, Finalized: true},
		2:  {SumP1: 3, SumP2: 3, CountP1: 1, CountP2: 1, Finalized: true},
		7:  {SumP1: 9, SumP2: 12, CountP1: 3, CountP2: 3, Finalized: true},
		15: {SumP1: 1, SumP2: 1, CountP1: 1, CountP2: 1, Finalized: true},
	}
	for b, acc := range fill {
		*s.At(b) = acc
	}
	got := ExtractPoints(s, 10)
	want := []Point{{X: 0, Y1: 2, Y2: 4}, {X: 2, Y1: 3, Y2: 3}, {X: 7, Y1: 3, Y2: 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		if got[i].X <= got[i-1].X {
			t.Fatalf("points not ascending at %d: %+v", i, got)
		}
	}
}

func TestExtractPoints_EdgeCases(t *testing.T) {
	if pts := ExtractPoints(nil, 5); pts != nil {
		t.Fatalf("nil store should give no points, got %+v", pts)
	}
	s := NewStore(3, 100, 0)
	if pts := ExtractPoints(s, -1); pts != nil {
		t.Fatalf("no blocks observed should give no points, got %+v", pts)
	}
	// unfinalized data is not a point yet
	*s.At(1) = Accumulator{SumP1: 1, SumP2: 1, CountP1: 1, CountP2: 1}
	if pts := ExtractPoints(s, 2); len(pts) != 0 {
		t.Fatalf("open block leaked into points: %+v", pts)
	}
	// maxBlock beyond capacity is clamped
	s.At(1).Finalized = true
	if pts := ExtractPoints(s, 99); len(pts) != 1 || pts[0].X != 1 {
		t.Fatalf("clamped extraction got %+v", pts)
	}
}

func TestYBounds(t *testing.T) {
	cases := []struct {
		name       string
		points     []Point
		wantMin    float64
		wantMax    float64
		wantRanged bool
	}{
		{"none", nil, 0, 0, false},
		{"single point equal channels", []Point{{X: 0, Y1: 5, Y2: 5}}, 4, 6, true},
		{"all equal", []Point{{X: 0, Y1: -2, Y2: -2}, {X: 4, Y1: -2, Y2: -2}}, -3, -1, true},
		{"NaN ignored", []Point{{X: 0, Y1: math.NaN(), Y2: 4}, {X: 1, Y1: 2, Y2: math.Inf(1)}}, 2, 4, true},
		{"nothing finite", []Point{{X: 0, Y1: math.NaN(), Y2: math.Inf(-1)}}, 0, 0, false},
		{"spread across channels", []Point{{X: 0, Y1: 15, Y2: 25}, {X: 1, Y1: 5, Y2: 5}, {X: 3, Y1: 100, Y2: 200}}, 5, 200, true},
	}
	for _, c := range cases {
		lo, hi, ok := YBounds(c.points)
		if ok != c.wantRanged || lo != c.wantMin || hi != c.wantMax {
			t.Fatalf("%s: got (%v,%v,%v) want (%v,%v,%v)", c.name, lo, hi, ok, c.wantMin, c.wantMax, c.wantRanged)
		}
	}
}
