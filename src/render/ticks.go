package render

import (
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
)

// NiceTicks returns tick positions covering [min,max] in steps of 1, 2, 2.5 or 5 times a power of ten,
// choosing the step whose tick count is closest to n.
func NiceTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*bestStep
		if v > end+bestStep*0.5 || i > 4*n {
			break
		}
		// snap to the step grid to drop accumulated float noise
		out = append(out, math.Round(v/bestStep)*bestStep)
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// FormatTick keeps labels short: integers for large values, more decimals as values shrink.
func FormatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
}

// inRange keeps the ticks of NiceTicks that fall inside [min,max].
func inRange(min, max float64, n int) []float64 {
	var out []float64
	for _, v := range NiceTicks(min, max, n) {
		if v >= min && v <= max {
			out = append(out, v)
		}
	}
	return out
}

// plotTicker feeds NiceTicks to gonum/plot axes and falls back to gonum's own ticker on
// spans too narrow for two labelled ticks.
type plotTicker struct{ n int }

func (t plotTicker) Ticks(min, max float64) []plot.Tick {
	vals := inRange(min, max, t.n)
	if len(vals) < 2 {
		return plot.DefaultTicks{}.Ticks(min, max)
	}
	ticks := make([]plot.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = plot.Tick{Value: v, Label: FormatTick(v)}
	}
	return ticks
}

// chartTicks is the go-chart counterpart of plotTicker; it always includes the range ends.
func chartTicks(min, max float64, n int) []chart.Tick {
	vals := inRange(min, max, n)
	if len(vals) < 2 {
		vals = []float64{min, max}
	}
	ticks := make([]chart.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = chart.Tick{Value: v, Label: FormatTick(v)}
	}
	return ticks
}
