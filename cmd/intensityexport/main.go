// Command intensityexport renders block means to image files without a window.
//
//	intensityexport -out plot.png [-viewport xmin,xmax,ymin,ymax] [-engine plot|chart] <input_file>
//	intensityexport -out frame.svg -script gestures.txt <input_file>
//
// With -script the gesture file is replayed through the zoom state machine and every
// rendered view is written as frame-001.svg, frame-002.svg and so on.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/config"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

const (
	enginePlot  = "plot"
	engineChart = "chart"
)

type options struct {
	configPath string
	out        string
	view       string
	engine     string
	script     string
	title      string
	logLevel   string
	width      int
	height     int
	input      string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fl := flag.NewFlagSet("intensityexport", flag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVar(&o.configPath, "config", "", "Optional YAML config file")
	fl.StringVar(&o.out, "out", "", "Output file; the extension selects the format (.png, .svg, .pdf)")
	fl.StringVar(&o.view, "viewport", "", "Rectangle xmin,xmax,ymin,ymax (default: full extent)")
	fl.StringVar(&o.engine, "engine", enginePlot, "Renderer: plot (gonum, any format) or chart (go-chart, png only)")
	fl.StringVar(&o.script, "script", "", "Gesture script to replay; one output file per rendered view")
	fl.StringVar(&o.title, "title", "", "Title template; {file} expands to the input path")
	fl.StringVar(&o.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fl.IntVar(&o.width, "width", 0, "Image width (default from config)")
	fl.IntVar(&o.height, "height", 0, "Image height (default from config)")
	fl.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s -out <file> [flags] <input_file>\n", fl.Name())
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return o, err
	}
	if fl.NArg() != 1 || o.out == "" {
		fl.Usage()
		return o, errors.New("an input file and -out are required")
	}
	o.input = fl.Arg(0)
	return o, nil
}

// parseViewport reads "xmin,xmax,ymin,ymax".
func parseViewport(s string) (viewport.Viewport, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return viewport.Viewport{}, fmt.Errorf("viewport %q: want xmin,xmax,ymin,ymax", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return viewport.Viewport{}, fmt.Errorf("viewport %q: %w", s, err)
		}
		v[i] = f
	}
	vp := viewport.Viewport{XMin: v[0], XMax: v[1], YMin: v[2], YMax: v[3]}
	if !vp.Valid() {
		return vp, fmt.Errorf("viewport %s: %w", vp, viewport.ErrInvalidRange)
	}
	return vp, nil
}

// framePath numbers out for the n-th rendered view: plot.png -> plot-003.png.
func framePath(out string, n int) string {
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(out, ext), n, ext)
}

// exporter writes one view to a file with the selected engine.
type exporter struct {
	engine string
	width  int
	height int
	hints  bool
	style  render.Style
}

func (e exporter) write(path string, points []analysis.Point, vp viewport.Viewport, title string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if e.engine == engineChart && ext != ".png" {
		return fmt.Errorf("engine %s writes png only, got %q", engineChart, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	if ext == ".png" && (e.hints || e.engine == engineChart) {
		return e.writePNG(path, points, vp, title)
	}
	return render.Save(path, points, vp, title, e.width, e.height, e.style)
}

func (e exporter) writePNG(path string, points []analysis.Point, vp viewport.Viewport, title string) error {
	var (
		img image.Image
		err error
	)
	if e.engine == engineChart {
		img, err = render.Chart(points, vp, title, e.width, e.height, e.style)
	} else {
		img, _, err = render.Plot(points, vp, title, e.width, e.height, e.style)
	}
	if err != nil {
		return err
	}
	if e.hints {
		img = render.DrawHint(img, "view "+vp.String())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode %s: %w", path, err)
	}
	return f.Close()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return 1
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warnf(".env: %v", err)
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.title != "" {
		cfg.Title = o.title
	}
	if o.width > 0 {
		cfg.Export.Width = o.width
	}
	if o.height > 0 {
		cfg.Export.Height = o.height
	}
	logging.SetLogLevel(cfg.LogLevel)
	if o.engine != enginePlot && o.engine != engineChart {
		fmt.Fprintf(stderr, "unknown engine %q\n", o.engine)
		return 1
	}

	sum, err := analysis.AnalyzeFile(o.input, analysis.Options{MaxLineBytes: cfg.Ingest.MaxLineBytes, Aggregator: cfg.AggregatorOptions()})
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return 1
	}
	logging.Infof("%s: %s blocks from %s lines (%s skipped)", o.input,
		humanize.Comma(int64(sum.Stats.Finalized)), humanize.Comma(int64(sum.Stats.Lines)), humanize.Comma(int64(sum.Stats.Skipped)))

	full := viewport.FullExtent(sum.MaxBlock, sum.YMin, sum.YMax)
	title := render.Title(cfg.Title, o.input, cfg.MaxTitle)
	exp := exporter{engine: o.engine, width: cfg.Export.Width, height: cfg.Export.Height, hints: cfg.Hints, style: cfg.Style()}

	if o.script != "" {
		n, err := replay(ctx, o.script, o.out, exp, sum.Points, full, title)
		if err != nil {
			fmt.Fprintf(stderr, "script: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %d views\n", n)
		return 0
	}

	vp := full
	if o.view != "" {
		if vp, err = parseViewport(o.view); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	} else if !vp.Valid() {
		fmt.Fprintf(stderr, "nothing to plot: %v\n", viewport.ErrInvalidRange)
		return 1
	}
	if err := exp.write(o.out, sum.Points, vp, title); err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", o.out)
	return 0
}

// replay drives a scripted session and writes every rendered view. It returns the number of files written.
func replay(ctx context.Context, script, out string, exp exporter, points []analysis.Point, full viewport.Viewport, title string) (int, error) {
	f, err := os.Open(script)
	if err != nil {
		return 0, err
	}
	gestures, err := viewport.ParseScript(f)
	f.Close()
	if err != nil {
		return 0, err
	}
	var written int
	var failed error
	dev := viewport.NewScriptDevice(gestures, func(pts []analysis.Point, vp viewport.Viewport, t string) error {
		path := framePath(out, written+1)
		if err := exp.write(path, pts, vp, t); err != nil {
			failed = err
			return err
		}
		written++
		logging.Debugf("wrote %s (%s)", path, vp)
		return nil
	})
	if _, err := viewport.Session(ctx, dev, "script", points, full, title); err != nil {
		return written, err
	}
	return written, failed
}
