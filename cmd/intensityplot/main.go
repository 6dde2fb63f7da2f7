package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/config"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/viewport"
)

// Lines printed to stdout; scripts wrapping the tool match on them.
const (
	msgStart       = "Program start."
	msgLoaded      = "File loaded successfully."
	msgOpenFailed  = "Error: Unable to open input file."
	msgBadLine     = "Error: Line format incorrect or incomplete."
	msgAllocFailed = "Error: Memory allocation failed."
	msgDevice      = "Error: plot device could not be opened or plot range invalid."
	msgDone        = "Program completed successfully."
)

// device is a viewport.Device that also owns the goroutine layout of a session.
type device interface {
	viewport.Device
	// Run calls session and returns its error. A window device keeps the calling
	// goroutine for its UI loop and runs session elsewhere.
	Run(ctx context.Context, session func(context.Context) error) error
}

type options struct {
	configPath string
	logLevel   string
	device     string
	title      string
	input      string
	set        map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, func(cfg config.Config, st render.Style) device {
		return newWindowDevice(cfg, st)
	})
	stop()
	os.Exit(code)
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fl := flag.NewFlagSet("intensityplot", flag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVar(&o.configPath, "config", "", "Optional YAML config file")
	fl.StringVar(&o.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	fl.StringVar(&o.device, "device", "", "Plot device: window|none")
	fl.StringVar(&o.title, "title", "", "Plot title template; {file} expands to the input path")
	fl.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <input_file>\n", fl.Name())
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return o, err
	}
	if fl.NArg() != 1 {
		fl.Usage()
		return o, errors.New("exactly one input file required")
	}
	o.input = fl.Arg(0)
	o.set = map[string]bool{}
	fl.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func loadConfig(o options) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warnf(".env: %v", err)
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	if o.set["device"] {
		cfg.Device = o.device
	}
	if o.set["title"] {
		cfg.Title = o.title
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newDevice func(config.Config, render.Style) device) int {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return 1
	}
	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logging.SetLogLevel(cfg.LogLevel)

	fmt.Fprintln(stdout, msgStart)
	f, err := os.Open(o.input)
	if err != nil {
		logging.Debugf("open %s: %v", o.input, err)
		fmt.Fprintln(stdout, msgOpenFailed)
		return 1
	}
	defer f.Close()
	fmt.Fprintln(stdout, msgLoaded)

	aggOpts := append(cfg.AggregatorOptions(),
		analysis.WithFinalizeHook(func(r analysis.BlockResult) { fmt.Fprintln(stdout, r) }),
		analysis.WithDiagnosticHook(func(line int, err error) {
			logging.Debugf("line %d: %v", line, err)
			fmt.Fprintln(stdout, msgBadLine)
		}),
	)
	sum, err := analysis.AnalyzeReader(f, analysis.Options{MaxLineBytes: cfg.Ingest.MaxLineBytes, Aggregator: aggOpts})
	if err != nil {
		logging.Errorf("%v", err)
		if errors.Is(err, analysis.ErrStoreLimit) {
			fmt.Fprintln(stdout, msgAllocFailed)
		}
		return 1
	}
	logStats(sum)

	full := viewport.FullExtent(sum.MaxBlock, sum.YMin, sum.YMax)
	title := render.Title(cfg.Title, o.input, cfg.MaxTitle)
	dev := newDevice(cfg, cfg.Style())
	if err := viewport.OpenDevice(dev, cfg.Device, full); err != nil {
		logging.Warnf("%v", err)
		fmt.Fprintln(stdout, msgDevice)
		fmt.Fprintln(stdout, msgDone)
		return 0
	}
	err = dev.Run(ctx, func(ctx context.Context) error {
		return runSession(ctx, dev, sum.Points, full, title)
	})
	if err != nil {
		logging.Warnf("session: %v", err)
	}
	fmt.Fprintln(stdout, msgDone)
	return 0
}

// runSession drives a controller on an opened device. The device is closed exactly once:
// by the controller when it reaches Closed, here otherwise.
func runSession(ctx context.Context, dev viewport.Device, points []analysis.Point, full viewport.Viewport, title string) error {
	c := viewport.NewController(dev, points, full, title)
	err := c.Run(ctx)
	if c.State() != viewport.Closed {
		if cerr := dev.Close(); cerr != nil {
			logging.Warnf("close device: %v", cerr)
		}
	}
	return err
}

func logStats(sum *analysis.Summary) {
	s := sum.Stats
	logging.Infof("read %s lines: %s records, %s skipped, %s blocks (%s reopened), store grew %s times",
		humanize.Comma(int64(s.Lines)), humanize.Comma(int64(s.Records)), humanize.Comma(int64(s.Skipped)),
		humanize.Comma(int64(s.Finalized)), humanize.Comma(int64(s.Reopened)), humanize.Comma(int64(s.Grows)))
	if sum.Diagnostics != nil {
		logging.Debugf("skipped lines:\n%v", sum.Diagnostics)
	}
	if !sum.HaveRange {
		logging.Warnf("no block carried data; nothing to plot")
	}
}
