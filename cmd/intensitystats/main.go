// Command intensitystats summarizes a measurement log without plotting it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/config"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
)

// report is the yaml view of an analysis summary.
type report struct {
	File     string        `yaml:"file"`
	Lines    int           `yaml:"lines"`
	Records  int           `yaml:"records"`
	Skipped  int           `yaml:"skipped"`
	Blocks   int           `yaml:"blocks"`
	Reopened int           `yaml:"reopened"`
	Grows    int           `yaml:"store_grows"`
	MaxBlock int           `yaml:"max_block"`
	YMin     *float64      `yaml:"y_min,omitempty"`
	YMax     *float64      `yaml:"y_max,omitempty"`
	Means    []blockReport `yaml:"means,omitempty"`
	Problems []string      `yaml:"problems,omitempty"`
}

type blockReport struct {
	Block int     `yaml:"block"`
	P1    float64 `yaml:"p1"`
	P2    float64 `yaml:"p2"`
	Count int     `yaml:"count"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		cfgPath string
		format  string
		blocks  bool
		verbose bool
	)
	fl := flag.NewFlagSet("intensitystats", flag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVar(&cfgPath, "config", "", "Optional YAML config file")
	fl.StringVar(&format, "format", "text", "Output format: text|yaml")
	fl.BoolVar(&blocks, "blocks", false, "Include every block mean")
	fl.BoolVar(&verbose, "v", false, "List skipped lines")
	fl.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <input_file>\n", fl.Name())
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return 1
	}
	if fl.NArg() != 1 {
		fl.Usage()
		return 1
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logging.SetLogLevel(cfg.LogLevel)
	file := fl.Arg(0)
	sum, err := analysis.AnalyzeFile(file, analysis.Options{MaxLineBytes: cfg.Ingest.MaxLineBytes, Aggregator: cfg.AggregatorOptions()})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	rep := buildReport(file, sum, blocks, verbose)
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		_ = enc.Close()
	case "text":
		printText(stdout, rep)
	default:
		fmt.Fprintf(stderr, "unknown format %q\n", format)
		return 1
	}
	return 0
}

func buildReport(file string, sum *analysis.Summary, blocks, verbose bool) report {
	s := sum.Stats
	rep := report{
		File: file, Lines: s.Lines, Records: s.Records, Skipped: s.Skipped,
		Blocks: s.Finalized, Reopened: s.Reopened, Grows: s.Grows, MaxBlock: sum.MaxBlock,
	}
	if sum.HaveRange {
		ymin, ymax := sum.YMin, sum.YMax
		rep.YMin, rep.YMax = &ymin, &ymax
	}
	if blocks {
		for _, r := range sum.Results {
			rep.Means = append(rep.Means, blockReport{Block: r.Block, P1: r.MeanP1, P2: r.MeanP2, Count: r.Count})
		}
	}
	if verbose && sum.Diagnostics != nil {
		var merr *multierror.Error
		if errors.As(sum.Diagnostics, &merr) {
			for _, e := range merr.Errors {
				rep.Problems = append(rep.Problems, e.Error())
			}
		} else {
			rep.Problems = []string{sum.Diagnostics.Error()}
		}
	}
	return rep
}

func printText(w io.Writer, rep report) {
	fmt.Fprintf(w, "File: %s\n", rep.File)
	fmt.Fprintf(w, "Lines: %s (records %s, skipped %s)\n", humanize.Comma(int64(rep.Lines)), humanize.Comma(int64(rep.Records)), humanize.Comma(int64(rep.Skipped)))
	fmt.Fprintf(w, "Blocks: %s (reopened %d, max index %d)\n", humanize.Comma(int64(rep.Blocks)), rep.Reopened, rep.MaxBlock)
	if rep.YMin != nil {
		fmt.Fprintf(w, "Mean intensity range: %.3f .. %.3f\n", *rep.YMin, *rep.YMax)
	} else {
		fmt.Fprintln(w, "Mean intensity range: (no data)")
	}
	for _, b := range rep.Means {
		fmt.Fprintln(w, analysis.BlockResult{Block: b.Block, MeanP1: b.P1, MeanP2: b.P2, Count: b.Count})
	}
	for _, p := range rep.Problems {
		fmt.Fprintf(w, "skipped %s\n", p)
	}
}
