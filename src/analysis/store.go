package analysis

import (
	"errors"
	"fmt"
)

// Defaults for the accumulator store.
const (
	DefaultInitialBlocks = 1400
	DefaultHeadroom      = 100
	DefaultMaxBlocks     = 1 << 24

	// MaxBlocksCeiling bounds every store, including one built without a limit.
	MaxBlocksCeiling = 1 << 26
)

// ErrStoreLimit is returned when a block index would grow the store past its configured limit.
var ErrStoreLimit = errors.New("accumulator store limit exceeded")

// Accumulator holds the running sums and counts of one time block.
// Means are only computed when the block is finalized.
type Accumulator struct {
	SumP1   float64
	SumP2   float64
	CountP1 int
	CountP2 int
	// Finalized is set once the block has been superseded or the stream ended.
	Finalized bool
}

// Mean returns the per-channel means. ok is false while either count is zero.
func (a Accumulator) Mean() (p1, p2 float64, ok bool) {
	if a.CountP1 <= 0 || a.CountP2 <= 0 {
		return 0, 0, false
	}
	return a.SumP1 / float64(a.CountP1), a.SumP2 / float64(a.CountP2), true
}

// Store is a dense, block-indexed accumulator array.
// Capacity only grows; every slot exposed by growth starts zeroed.
type Store struct {
	slots    []Accumulator
	headroom int
	limit    int
	grows    int
}

// NewStore allocates initial zeroed slots. headroom <= 0 selects DefaultHeadroom.
// limit <= 0, or a limit above MaxBlocksCeiling, selects MaxBlocksCeiling.
func NewStore(initial, headroom, limit int) *Store {
	if initial < 0 {
		initial = 0
	}
	if headroom <= 0 {
		headroom = DefaultHeadroom
	}
	if limit <= 0 || limit > MaxBlocksCeiling {
		limit = MaxBlocksCeiling
	}
	if initial > limit {
		initial = limit
	}
	return &Store{slots: make([]Accumulator, initial), headroom: headroom, limit: limit}
}

// Cap is the number of addressable slots.
func (s *Store) Cap() int { return len(s.slots) }

// Grows reports how many times the store was reallocated.
func (s *Store) Grows() int { return s.grows }

// Ensure makes block addressable, growing capacity to block+headroom when needed.
func (s *Store) Ensure(block int) error {
	if block < 0 {
		return fmt.Errorf("negative block index %d", block)
	}
	if block < len(s.slots) {
		return nil
	}
	if block >= s.limit {
		return fmt.Errorf("%w: block %d, limit %d", ErrStoreLimit, block, s.limit)
	}
	newCap := s.limit
	if block < s.limit-s.headroom {
		newCap = block + s.headroom
	}
	grown := make([]Accumulator, newCap)
	copy(grown, s.slots)
	s.slots = grown
	s.grows++
	return nil
}

// At returns the accumulator for block. The block must be addressable.
func (s *Store) At(block int) *Accumulator { return &s.slots[block] }

// Get returns a copy of the accumulator for block; ok is false outside capacity.
func (s *Store) Get(block int) (Accumulator, bool) {
	if block < 0 || block >= len(s.slots) {
		return Accumulator{}, false
	}
	return s.slots[block], true
}
