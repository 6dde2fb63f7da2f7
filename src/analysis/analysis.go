// Package analysis turns a measurement log into per-block mean intensities.
//
// Reading is line oriented and bounded: a line longer than MaxLineBytes is skipped like any
// other malformed line instead of being split or truncated. Lines go to an Aggregator, which
// keeps a dense block-indexed accumulator store and finalizes each block when the input moves
// on to the next one. After the stream ends the finalized store is turned into plot points.
package analysis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
)

// MaxLineBytes is the default upper bound for one input line, newline included.
const MaxLineBytes = 64 << 10

// ErrLineTooLong marks a line skipped because it exceeded the configured limit.
var ErrLineTooLong = errors.New("line too long")

// Options controls AnalyzeReader and AnalyzeFile.
type Options struct {
	// MaxLineBytes overrides the line limit when > 0.
	MaxLineBytes int
	// Aggregator options (store sizing, hooks).
	Aggregator []Option
}

// Summary is everything the viewer needs after ingestion.
type Summary struct {
	Results  []BlockResult
	Points   []Point
	MaxBlock int
	YMin     float64
	YMax     float64
	// HaveRange is false when no block had data.
	HaveRange   bool
	Stats       Stats
	Diagnostics error
}

// AnalyzeFile opens path and runs AnalyzeReader over it.
func AnalyzeFile(path string, opts Options) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return AnalyzeReader(f, opts)
}

// AnalyzeReader ingests every line of r, flushes the last block and extracts points.
// The returned error is non-nil only for read failures and ErrStoreLimit.
func AnalyzeReader(r io.Reader, opts Options) (*Summary, error) {
	defer logging.TimeTrack(time.Now(), "analysis")
	agg := NewAggregator(opts.Aggregator...)
	if err := Feed(r, agg, opts.MaxLineBytes); err != nil {
		return nil, err
	}
	agg.Flush()
	return Summarize(agg), nil
}

// Summarize extracts points and y bounds from a flushed Aggregator.
func Summarize(agg *Aggregator) *Summary {
	pts := ExtractPoints(agg.Store(), agg.MaxBlock())
	ymin, ymax, ok := YBounds(pts)
	return &Summary{
		Results:     agg.Results(),
		Points:      pts,
		MaxBlock:    agg.MaxBlock(),
		YMin:        ymin,
		YMax:        ymax,
		HaveRange:   ok,
		Stats:       agg.Stats(),
		Diagnostics: agg.Diagnostics(),
	}
}

// Feed streams r into agg line by line without flushing.
func Feed(r io.Reader, agg *Aggregator, maxLineBytes int) error {
	if maxLineBytes <= 0 {
		maxLineBytes = MaxLineBytes
	}
	reader := bufio.NewReader(r)
	for {
		line, tooLong, rerr := readLine(reader, maxLineBytes)
		switch {
		case tooLong:
			agg.Reject(fmt.Errorf("%w: exceeds %d bytes", ErrLineTooLong, maxLineBytes))
		case len(line) > 0:
			if err := agg.Ingest(string(line)); err != nil {
				return err
			}
		}
		if rerr == nil {
			continue
		}
		if errors.Is(rerr, io.EOF) {
			return nil
		}
		return fmt.Errorf("read input: %w", rerr)
	}
}

// readLine accumulates one logical line across internal buffer fills. Once the limit is
// crossed the rest of the line is consumed and discarded.
func readLine(reader *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		part, rerr := reader.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(part) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, part...)
			}
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, rerr
	}
}
