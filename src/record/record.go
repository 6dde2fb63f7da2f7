// Package record extracts the fields the aggregator needs from one measurement log line.
//
// A line is split on whitespace. The 4th token is the integer time block, the 7th and 8th
// tokens are the P1 and P2 intensities. All other tokens are ignored.
package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Token positions (zero based).
const (
	blockToken = 3
	p1Token    = 6
	p2Token    = 7
	minTokens  = p2Token + 1
)

// ErrFormat is returned for lines that do not yield a block index and both intensities.
var ErrFormat = errors.New("line format incorrect or incomplete")

// Record is one parsed measurement.
type Record struct {
	Block int
	P1    float64
	P2    float64
}

// Parse extracts a Record from a line. Every failure wraps ErrFormat.
func Parse(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < minTokens {
		return Record{}, fmt.Errorf("%w: %d tokens, need %d", ErrFormat, len(fields), minTokens)
	}
	block, err := strconv.Atoi(fields[blockToken])
	if err != nil {
		return Record{}, fmt.Errorf("%w: block %q: %v", ErrFormat, fields[blockToken], err)
	}
	if block < 0 {
		return Record{}, fmt.Errorf("%w: negative block %d", ErrFormat, block)
	}
	p1, err := strconv.ParseFloat(fields[p1Token], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: intensity P1 %q: %v", ErrFormat, fields[p1Token], err)
	}
	p2, err := strconv.ParseFloat(fields[p2Token], 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: intensity P2 %q: %v", ErrFormat, fields[p2Token], err)
	}
	if !finite(p1) || !finite(p2) {
		return Record{}, fmt.Errorf("%w: non-finite intensity %g %g", ErrFormat, p1, p2)
	}
	return Record{Block: block, P1: p1, P2: p2}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Format renders a Record as a line Parse accepts. Placeholder tokens fill the ignored positions.
func Format(r Record) string {
	return fmt.Sprintf("- - - %d - - %g %g", r.Block, r.P1, r.P2)
}
