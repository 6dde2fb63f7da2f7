package analysis

import (
	"errors"
	"math"
	"testing"
)

func TestStoreEnsure_GrowsWithHeadroomAndZeroes(t *testing.T) {
	s := NewStore(10, 100, 0)
	for b := 0; b < s.Cap(); b++ {
		acc := s.At(b)
		acc.SumP1, acc.CountP1 = 1, 1
	}
	old := s.Cap()
	if err := s.Ensure(10); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if s.Cap() != 110 {
		t.Fatalf("cap=%d want 110", s.Cap())
	}
	for b := old; b < s.Cap(); b++ {
		if got := *s.At(b); got != (Accumulator{}) {
			t.Fatalf("slot %d not zeroed: %+v", b, got)
		}
	}
	// existing data survives growth
	if s.At(3).CountP1 != 1 {
		t.Fatalf("slot 3 lost its data after growth")
	}
	if s.Grows() != 1 {
		t.Fatalf("grows=%d want 1", s.Grows())
	}
}

func TestStoreEnsure_Properties(t *testing.T) {
	cases := []struct {
		initial, headroom int
		blocks            []int
	}{
		{0, 100, []int{0, 1, 99, 100, 101, 5000}},
		{1400, 100, []int{1399, 1400, 12}},
		{5, 1, []int{5, 6, 7, 3, 50}},
	}
	for _, c := range cases {
		s := NewStore(c.initial, c.headroom, 0)
		maxSeen := -1
		for _, b := range c.blocks {
			before := s.Cap()
			if err := s.Ensure(b); err != nil {
				t.Fatalf("ensure %d: %v", b, err)
			}
			if b > maxSeen {
				maxSeen = b
			}
			if s.Cap() < before {
				t.Fatalf("capacity shrank from %d to %d", before, s.Cap())
			}
			if s.Cap() <= maxSeen {
				t.Fatalf("cap %d not above max block %d", s.Cap(), maxSeen)
			}
			if b >= before && s.Cap() != b+c.headroom {
				t.Fatalf("grow for %d: cap=%d want %d", b, s.Cap(), b+c.headroom)
			}
		}
	}
}

func TestStoreEnsure_Limit(t *testing.T) {
	s := NewStore(0, 100, 50)
	if err := s.Ensure(10); err != nil {
		t.Fatalf("ensure under limit: %v", err)
	}
	if s.Cap() != 50 {
		t.Fatalf("growth should clamp to limit, cap=%d", s.Cap())
	}
	err := s.Ensure(50)
	if !errors.Is(err, ErrStoreLimit) {
		t.Fatalf("expected ErrStoreLimit, got %v", err)
	}
	if err := s.Ensure(-1); err == nil {
		t.Fatalf("expected error for negative block")
	}
}

func TestStoreEnsure_Ceiling(t *testing.T) {
	for _, limit := range []int{0, -1, math.MaxInt} {
		s := NewStore(0, 100, limit)
		for _, b := range []int{MaxBlocksCeiling, math.MaxInt - 50, math.MaxInt} {
			if err := s.Ensure(b); !errors.Is(err, ErrStoreLimit) {
				t.Fatalf("limit %d block %d: expected ErrStoreLimit, got %v", limit, b, err)
			}
		}
		if s.Cap() != 0 {
			t.Fatalf("limit %d: failed ensure grew the store to %d", limit, s.Cap())
		}
	}
	// headroom past the limit is cut at the limit
	s := NewStore(0, 100, 1000)
	if err := s.Ensure(950); err != nil || s.Cap() != 1000 {
		t.Fatalf("ensure 950: cap=%d err=%v", s.Cap(), err)
	}
}

func TestAccumulatorMean(t *testing.T) {
	if _, _, ok := (Accumulator{}).Mean(); ok {
		t.Fatalf("empty accumulator must not produce a mean")
	}
	p1, p2, ok := Accumulator{SumP1: 30, SumP2: 50, CountP1: 2, CountP2: 2}.Mean()
	if !ok || p1 != 15 || p2 != 25 {
		t.Fatalf("mean got %v %v %v", p1, p2, ok)
	}
}
