package analysis

import "math"

// Point is one plotted block: x is the block index, y1/y2 the channel means.
type Point struct {
	X  int
	Y1 float64
	Y2 float64
}

// ExtractPoints returns a point for every finalized block in [0, maxBlock] that holds
// data, in ascending block order. Empty blocks are omitted.
func ExtractPoints(s *Store, maxBlock int) []Point {
	if s == nil || maxBlock < 0 {
		return nil
	}
	if maxBlock >= s.Cap() {
		maxBlock = s.Cap() - 1
	}
	out := make([]Point, 0, maxBlock+1)
	for b := 0; b <= maxBlock; b++ {
		acc := s.At(b)
		if acc.CountP1 <= 0 || !acc.Finalized {
			continue
		}
		p1, p2, ok := acc.Mean()
		if !ok {
			continue
		}
		out = append(out, Point{X: b, Y1: p1, Y2: p2})
	}
	return out
}

// YBounds returns the minimum and maximum over both channels of all points.
// NaN and infinite values are ignored. Equal bounds are widened by one on each side
// so the range always has height. ok is false when no value is finite.
func YBounds(points []Point) (ymin, ymax float64, ok bool) {
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		for _, v := range [2]float64{p.Y1, p.Y2} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			ymin = math.Min(ymin, v)
			ymax = math.Max(ymax, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	if ymin == ymax {
		ymin--
		ymax++
	}
	return ymin, ymax, true
}
