package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

func chartColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// newChart lays out a go-chart for vp. go-chart does not clip series, so points are limited to
// the x range and y values are clamped to the range edges.
func newChart(points []analysis.Point, vp viewport.Viewport, title string, w, h int, st Style) chart.Chart {
	vis := visible(points, vp)
	xs := make([]float64, len(vis))
	y1 := make([]float64, len(vis))
	y2 := make([]float64, len(vis))
	for i, p := range vis {
		xs[i] = float64(p.X)
		y1[i] = clamp(p.Y1, vp.YMin, vp.YMax)
		y2[i] = clamp(p.Y2, vp.YMin, vp.YMax)
	}
	// go-chart refuses to render without a visible series, so a transparent one spans the viewport
	series := []chart.Series{chart.ContinuousSeries{
		Name:    "extent",
		Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
		XValues: []float64{vp.XMin, vp.XMax},
		YValues: []float64{vp.YMin, vp.YMax},
	}}
	if len(vis) > 0 {
		line := func(c color.RGBA) chart.Style {
			return chart.Style{StrokeColor: chartColor(c), StrokeWidth: st.LineWidth}
		}
		series = append(series,
			chart.ContinuousSeries{Name: P1Label, XValues: xs, YValues: y1, Style: line(st.P1)},
			chart.ContinuousSeries{Name: P2Label, XValues: xs, YValues: y2, Style: line(st.P2)},
		)
	}
	bg := chartColor(st.Background)
	return chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{FillColor: bg, Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 28}},
		Canvas:     chart.Style{FillColor: bg},
		XAxis: chart.XAxis{
			Name:  XLabel,
			Range: &chart.ContinuousRange{Min: vp.XMin, Max: vp.XMax},
			Ticks: chartTicks(vp.XMin, vp.XMax, 8),
		},
		YAxis: chart.YAxis{
			Name:  YLabel,
			Range: &chart.ContinuousRange{Min: vp.YMin, Max: vp.YMax},
			Ticks: chartTicks(vp.YMin, vp.YMax, 6),
		},
		Series: series,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChartPNG renders a go-chart PNG of points over vp to out.
func ChartPNG(out io.Writer, points []analysis.Point, vp viewport.Viewport, title string, w, h int, st Style) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("chart %dx%d: %w", w, h, ErrImageSize)
	}
	if !vp.Valid() {
		return fmt.Errorf("chart %s: %w", vp, viewport.ErrInvalidRange)
	}
	ch := newChart(points, vp, title, w, h, st)
	if err := ch.Render(chart.PNG, out); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Chart is ChartPNG decoded into an image.
func Chart(points []analysis.Point, vp viewport.Viewport, title string, w, h int, st Style) (image.Image, error) {
	var buf bytes.Buffer
	if err := ChartPNG(&buf, points, vp, title, w, h, st); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}
