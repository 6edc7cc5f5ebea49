package routing

import "sync/atomic"

// BlockValidator decides whether a quote computed at a block may be used.
type BlockValidator interface {
	IsValidBlock(block uint64) bool
}

// BlockValidatorFunc adapts a function to BlockValidator.
type BlockValidatorFunc func(block uint64) bool

// IsValidBlock calls f.
func (f BlockValidatorFunc) IsValidBlock(block uint64) bool {
	return f(block)
}

// BlockWindow accepts quotes whose block is no older than the newest block
// observed, minus a tolerance. Block 0 is never valid. Before any block is
// observed every non-zero block is valid. It is safe for concurrent use.
type BlockWindow struct {
	latest    atomic.Uint64
	tolerance uint64
}

// NewBlockWindow creates a window that tolerates quotes up to tolerance
// blocks behind the newest observed block.
func NewBlockWindow(tolerance uint64) *BlockWindow {
	return &BlockWindow{tolerance: tolerance}
}

// Observe records block as seen. The window never moves backwards.
func (w *BlockWindow) Observe(block uint64) {
	for {
		current := w.latest.Load()
		if block <= current || w.latest.CompareAndSwap(current, block) {
			return
		}
	}
}

// Latest returns the newest observed block.
func (w *BlockWindow) Latest() uint64 {
	return w.latest.Load()
}

// IsValidBlock implements BlockValidator.
func (w *BlockWindow) IsValidBlock(block uint64) bool {
	if block == 0 {
		return false
	}
	return block+w.tolerance >= w.latest.Load()
}
