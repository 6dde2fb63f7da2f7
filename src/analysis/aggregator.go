package analysis

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/logging"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/record"
)

const noBlock = -1

// BlockResult is the mean intensity of one finalized block.
type BlockResult struct {
	Block  int
	MeanP1 float64
	MeanP2 float64
	Count  int
}

// String renders the result line printed for every finalized block.
func (r BlockResult) String() string {
	return fmt.Sprintf("Time Block: %d  Mean Intensity P1: %.3f  Mean Intensity P2: %.3f", r.Block, r.MeanP1, r.MeanP2)
}

// Stats counts what happened during ingestion.
type Stats struct {
	Lines     int
	Records   int
	Skipped   int
	Finalized int
	Reopened  int
	Grows     int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithInitialBlocks sets the number of slots allocated up front.
func WithInitialBlocks(n int) Option { return func(a *Aggregator) { a.initial = n } }

// WithHeadroom sets how far past a new block index the store grows.
func WithHeadroom(n int) Option { return func(a *Aggregator) { a.headroom = n } }

// WithMaxBlocks bounds the store; 0 selects MaxBlocksCeiling.
func WithMaxBlocks(n int) Option { return func(a *Aggregator) { a.maxBlocks = n } }

// WithFinalizeHook is called for each block as it is finalized, in finalization order.
func WithFinalizeHook(fn func(BlockResult)) Option { return func(a *Aggregator) { a.onFinalize = fn } }

// WithDiagnosticHook is called for each skipped line with its 1-based line number.
func WithDiagnosticHook(fn func(line int, err error)) Option {
	return func(a *Aggregator) { a.onDiagnostic = fn }
}

// Aggregator groups records into time blocks and computes per-block means.
// Records of one block are expected on consecutive lines; a block is finalized when
// the next record belongs to a different block, or on Flush.
type Aggregator struct {
	initial   int
	headroom  int
	maxBlocks int

	store    *Store
	open     int
	maxBlock int
	results  []BlockResult
	diags    *multierror.Error
	stats    Stats

	onFinalize   func(BlockResult)
	onDiagnostic func(int, error)
}

// NewAggregator builds an Aggregator with an empty store.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		initial:   DefaultInitialBlocks,
		headroom:  DefaultHeadroom,
		maxBlocks: DefaultMaxBlocks,
		open:      noBlock,
		maxBlock:  noBlock,
	}
	for _, o := range opts {
		o(a)
	}
	a.store = NewStore(a.initial, a.headroom, a.maxBlocks)
	return a
}

// Ingest parses and accumulates one line. Unparseable lines are recorded as diagnostics
// and skipped; the only error returned is ErrStoreLimit, which is fatal.
func (a *Aggregator) Ingest(line string) error {
	a.stats.Lines++
	rec, err := record.Parse(line)
	if err != nil {
		a.diagnose(err)
		return nil
	}
	return a.add(rec)
}

// IngestRecord accumulates an already parsed record, counting it as one input line.
func (a *Aggregator) IngestRecord(rec record.Record) error {
	a.stats.Lines++
	return a.add(rec)
}

// Reject counts a line that never reached the parser (for example an oversized line).
func (a *Aggregator) Reject(err error) {
	a.stats.Lines++
	a.diagnose(err)
}

func (a *Aggregator) diagnose(err error) {
	a.stats.Skipped++
	a.diags = multierror.Append(a.diags, fmt.Errorf("line %d: %w", a.stats.Lines, err))
	if a.onDiagnostic != nil {
		a.onDiagnostic(a.stats.Lines, err)
	}
}

func (a *Aggregator) add(rec record.Record) error {
	if err := a.store.Ensure(rec.Block); err != nil {
		return fmt.Errorf("line %d: %w", a.stats.Lines, err)
	}
	if rec.Block != a.open && a.open != noBlock {
		a.finalize(a.open)
	}
	acc := a.store.At(rec.Block)
	if acc.Finalized {
		// Sums and counts survive finalization, so a revisited block merges.
		logging.Warnf("block %d reappeared at line %d after it was finalized; merging", rec.Block, a.stats.Lines)
		acc.Finalized = false
		a.stats.Reopened++
	}
	acc.SumP1 += rec.P1
	acc.SumP2 += rec.P2
	acc.CountP1++
	acc.CountP2++
	a.open = rec.Block
	if rec.Block > a.maxBlock {
		a.maxBlock = rec.Block
	}
	a.stats.Records++
	return nil
}

func (a *Aggregator) finalize(block int) {
	acc := a.store.At(block)
	p1, p2, ok := acc.Mean()
	if !ok {
		logging.Warnf("block %d has no records; not finalized", block)
		return
	}
	acc.Finalized = true
	res := BlockResult{Block: block, MeanP1: p1, MeanP2: p2, Count: acc.CountP1}
	a.results = append(a.results, res)
	a.stats.Finalized++
	if a.onFinalize != nil {
		a.onFinalize(res)
	}
}

// Flush finalizes the open block at end of stream. Calling it again is a no-op.
func (a *Aggregator) Flush() {
	if a.open == noBlock {
		return
	}
	a.finalize(a.open)
	a.open = noBlock
}

// Store exposes the accumulator store. Read it after Flush.
func (a *Aggregator) Store() *Store { return a.store }

// MaxBlock is the highest block index observed, or -1 before any record.
func (a *Aggregator) MaxBlock() int { return a.maxBlock }

// Results lists finalized blocks in finalization order.
func (a *Aggregator) Results() []BlockResult { return a.results }

// Diagnostics combines every skipped-line error, or nil.
func (a *Aggregator) Diagnostics() error { return a.diags.ErrorOrNil() }

// Stats returns ingestion counters.
func (a *Aggregator) Stats() Stats {
	s := a.stats
	s.Grows = a.store.Grows()
	return s
}
