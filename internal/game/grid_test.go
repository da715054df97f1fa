package game

import (
	"errors"
	"testing"

	"picreveal-quiz-service/internal/domain"
)

func TestNewGridSizes(t *testing.T) {
	for size := MinGridSize; size <= MaxGridSize; size++ {
		grid, err := NewGrid(size)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if grid.Cells() != size*size {
			t.Fatalf("size %d: expected %d cells, got %d", size, size*size, grid.Cells())
		}
	}

	for _, size := range []int{-1, 0, 1, 6, 100} {
		if _, err := NewGrid(size); !errors.Is(err, domain.ErrInvalidSize) {
			t.Fatalf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestGridRevealMonotonic(t *testing.T) {
	grid, err := NewGrid(2)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}

	if err := grid.Reveal(0); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := grid.Reveal(0); !errors.Is(err, domain.ErrAlreadyRevealed) {
		t.Fatalf("expected ErrAlreadyRevealed, got %v", err)
	}
	if grid.RevealedCount() != 1 {
		t.Fatalf("double reveal must not bump the count, got %d", grid.RevealedCount())
	}

	if err := grid.Reveal(4); !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := grid.Reveal(-1); !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestGridCompleteness(t *testing.T) {
	grid, _ := NewGrid(2)
	for i := 0; i < 4; i++ {
		if grid.IsComplete() {
			t.Fatalf("grid complete after %d reveals", i)
		}
		if err := grid.Reveal(i); err != nil {
			t.Fatalf("reveal %d: %v", i, err)
		}
	}
	if !grid.IsComplete() {
		t.Fatalf("expected complete grid")
	}
	if grid.RevealedCount() != grid.Cells() {
		t.Fatalf("count mismatch: %d != %d", grid.RevealedCount(), grid.Cells())
	}
}

func TestGridSnapshotIsACopy(t *testing.T) {
	grid, _ := NewGrid(2)
	_ = grid.Reveal(1)

	snap := grid.Snapshot()
	if !snap[1] || snap[0] {
		t.Fatalf("unexpected snapshot %v", snap)
	}
	snap[0] = true
	if grid.IsRevealed(0) {
		t.Fatalf("mutating the snapshot must not touch the grid")
	}
}
