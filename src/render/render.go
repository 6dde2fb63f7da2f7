// Package render draws block means into images and maps pixels back to data coordinates.
//
// Two engines are available: gonum/plot (Plot, Save), which reports the exact data-area geometry
// of the image it produced, and go-chart (Chart, ChartPNG) for quick PNG snapshots.
package render

import (
	"image/color"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

// Axis and legend labels shared by both engines.
const (
	XLabel  = "Time Block"
	YLabel  = "Mean Intensity"
	P1Label = "Polarisation 1"
	P2Label = "Polarisation 2"
)

// Style selects colors and stroke width.
type Style struct {
	P1         color.RGBA
	P2         color.RGBA
	Background color.RGBA
	LineWidth  float64 // points
	Grid       bool
}

// DefaultStyle draws P1 black and P2 magenta on white.
func DefaultStyle() Style {
	return Style{
		P1:         color.RGBA{A: 0xff},
		P2:         color.RGBA{R: 0xff, B: 0xff, A: 0xff},
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		LineWidth:  1,
		Grid:       true,
	}
}

// visible returns the points whose block lies inside vp's x range.
func visible(points []analysis.Point, vp viewport.Viewport) []analysis.Point {
	out := make([]analysis.Point, 0, len(points))
	for _, p := range points {
		x := float64(p.X)
		if x < vp.XMin || x > vp.XMax {
			continue
		}
		out = append(out, p)
	}
	return out
}
