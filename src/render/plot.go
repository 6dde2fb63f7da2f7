package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

// ErrImageSize is returned for non-positive output dimensions.
var ErrImageSize = errors.New("image size must be positive")

// pixelDPI makes one vg point one image pixel.
const pixelDPI = int(vg.Inch)

// newCanvas returns a w x h pixel raster canvas.
func newCanvas(w, h int) *vgimg.Canvas {
	return vgimg.NewWith(vgimg.UseWH(vg.Length(w), vg.Length(h)), vgimg.UseDPI(pixelDPI))
}

// newPlot builds the two mean-intensity lines over vp. Lines are clipped to the data area.
func newPlot(points []analysis.Point, vp viewport.Viewport, title string, st Style) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.BackgroundColor = st.Background
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.X.Tick.Marker = plotTicker{n: 8}
	p.Y.Tick.Marker = plotTicker{n: 6}

	if st.Grid {
		grid := plotter.NewGrid()
		grid.Horizontal.Color = color.Gray{Y: 210}
		grid.Vertical.Color = color.Gray{Y: 225}
		p.Add(grid)
	}

	if len(points) > 0 {
		p1 := make(plotter.XYs, len(points))
		p2 := make(plotter.XYs, len(points))
		for i, pt := range points {
			p1[i] = plotter.XY{X: float64(pt.X), Y: pt.Y1}
			p2[i] = plotter.XY{X: float64(pt.X), Y: pt.Y2}
		}
		width := vg.Points(st.LineWidth)
		l1, err := plotter.NewLine(p1)
		if err != nil {
			return nil, fmt.Errorf("p1 line: %w", err)
		}
		l1.Color = st.P1
		l1.Width = width
		l2, err := plotter.NewLine(p2)
		if err != nil {
			return nil, fmt.Errorf("p2 line: %w", err)
		}
		l2.Color = st.P2
		l2.Width = width
		p.Add(l1, l2)
		p.Legend.Add(P1Label, l1)
		p.Legend.Add(P2Label, l2)
		p.Legend.Top = true
	}

	// explicit range after Add, which widens the axes to the data
	p.X.Min, p.X.Max = vp.XMin, vp.XMax
	p.Y.Min, p.Y.Max = vp.YMin, vp.YMax
	return p, nil
}

// Plot rasterizes points over vp into a w x h image and returns the geometry of its data area
// in image pixels.
func Plot(points []analysis.Point, vp viewport.Viewport, title string, w, h int, st Style) (image.Image, Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, Frame{}, fmt.Errorf("plot %dx%d: %w", w, h, ErrImageSize)
	}
	p, err := newPlot(points, vp, title, st)
	if err != nil {
		return nil, Frame{}, err
	}
	c := newCanvas(w, h)
	dc := draw.New(c)
	p.Draw(dc)
	da := p.DataCanvas(dc)

	img := c.Image()
	b := img.Bounds()
	H := float64(b.Dy())
	dpi := c.DPI()
	f := Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Left:   da.Min.X.Dots(dpi),
		Right:  da.Max.X.Dots(dpi),
		Top:    H - da.Max.Y.Dots(dpi),
		Bottom: H - da.Min.Y.Dots(dpi),
		// gonum widens degenerate ranges while drawing; report what was drawn
		View: viewport.Viewport{XMin: p.X.Min, XMax: p.X.Max, YMin: p.Y.Min, YMax: p.Y.Max},
	}
	return img, f, nil
}

// Save writes the plot to path. The format follows the extension: .png, .svg, .pdf, .eps, .jpg or .tif.
// Raster formats are w x h pixels, vector formats w x h points.
func Save(path string, points []analysis.Point, vp viewport.Viewport, title string, w, h int, st Style) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("save %dx%d: %w", w, h, ErrImageSize)
	}
	p, err := newPlot(points, vp, title, st)
	if err != nil {
		return err
	}
	var raster io.WriterTo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		c := newCanvas(w, h)
		p.Draw(draw.New(c))
		raster = vgimg.PngCanvas{Canvas: c}
	case ".jpg", ".jpeg":
		c := newCanvas(w, h)
		p.Draw(draw.New(c))
		raster = vgimg.JpegCanvas{Canvas: c}
	case ".tif", ".tiff":
		c := newCanvas(w, h)
		p.Draw(draw.New(c))
		raster = vgimg.TiffCanvas{Canvas: c}
	default:
		if err := p.Save(vg.Length(w), vg.Length(h), path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if _, err := raster.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
