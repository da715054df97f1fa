package game

import "picreveal-quiz-service/internal/domain"

const (
	// MinGridSize and MaxGridSize bound the square grid dimension.
	MinGridSize = 2
	MaxGridSize = 5
)

// Grid tracks the reveal state of the cells covering the hidden picture.
// Reveals are monotonic: a cell goes hidden to revealed exactly once.
type Grid struct {
	size     int
	revealed []bool
	count    int
}

// NewGrid creates a grid of size*size hidden cells.
func NewGrid(size int) (*Grid, error) {
	if size < MinGridSize || size > MaxGridSize {
		return nil, domain.ErrInvalidSize
	}
	return &Grid{
		size:     size,
		revealed: make([]bool, size*size),
	}, nil
}

// Size returns the grid dimension.
func (g *Grid) Size() int {
	return g.size
}

// Cells returns the total number of cells.
func (g *Grid) Cells() int {
	return len(g.revealed)
}

// Reveal marks a cell revealed. Callers are expected to check IsRevealed
// first; revealing twice is an error, not a silent no-op.
func (g *Grid) Reveal(cell int) error {
	if cell < 0 || cell >= len(g.revealed) {
		return domain.ErrOutOfRange
	}
	if g.revealed[cell] {
		return domain.ErrAlreadyRevealed
	}
	g.revealed[cell] = true
	g.count++
	return nil
}

// IsRevealed reports whether a cell has been revealed. Out-of-range cells
// report false.
func (g *Grid) IsRevealed(cell int) bool {
	if cell < 0 || cell >= len(g.revealed) {
		return false
	}
	return g.revealed[cell]
}

// RevealedCount returns how many cells have been revealed.
func (g *Grid) RevealedCount() int {
	return g.count
}

// IsComplete reports whether every cell is revealed.
func (g *Grid) IsComplete() bool {
	return g.count == len(g.revealed)
}

// Snapshot copies the reveal states for queries.
func (g *Grid) Snapshot() []bool {
	out := make([]bool, len(g.revealed))
	copy(out, g.revealed)
	return out
}
