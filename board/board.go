// Package board implements the compact board the search engine works on.
// It is a dense grid of three-state cells with incrementally maintained
// piece counts, built to be cloned once per explored move.
package board

import (
	"fmt"
)

// MaxDimension bounds the rows and columns of any board built from
// outside input.
const MaxDimension = 64

// Cell is the state of a single square.
type Cell uint8

const (
	Empty Cell = iota
	SideA
	SideB
)

func (c Cell) String() string {
	switch c {
	case SideA:
		return "a"
	case SideB:
		return "b"
	}
	return "."
}

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return Empty
}

// Board is the compact board. The zero value is not usable; use New.
type Board struct {
	rows, cols int
	cells      []Cell
	countA     int
	countB     int

	// Memoized answers. Any write to the grid resets both computed flags.
	terminal             bool
	terminalComputed     bool
	moverCanMove         bool
	moverCanMoveComputed bool
}

// New returns an empty rows x cols board.
func New(rows, cols int) *Board {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("invalid board dimensions %dx%d", rows, cols))
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) idx(row, col int) int {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		panic(fmt.Sprintf("cell (%d,%d) out of range for %dx%d board",
			row, col, b.rows, b.cols))
	}
	return row*b.cols + col
}

// InBounds reports whether (row, col) is on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the state of the cell at (row, col).
func (b *Board) At(row, col int) Cell {
	return b.cells[b.idx(row, col)]
}

func (b *Board) invalidate() {
	b.terminalComputed = false
	b.moverCanMoveComputed = false
}

// Place writes a cell state unconditionally. It does not touch the piece
// counts; callers loading a position with Place must call SetCounts or
// Recount afterwards.
func (b *Board) Place(row, col int, c Cell) {
	b.cells[b.idx(row, col)] = c
	b.invalidate()
}

// Count returns the number of pieces of the given side.
func (b *Board) Count(side Cell) int {
	switch side {
	case SideA:
		return b.countA
	case SideB:
		return b.countB
	}
	panic("count asked for the empty side")
}

func (b *Board) CountA() int { return b.countA }
func (b *Board) CountB() int { return b.countB }

// SetCounts overrides the piece counts. Translators that load a position
// with Place hand the counts they already know.
func (b *Board) SetCounts(countA, countB int) {
	b.countA = countA
	b.countB = countB
}

// Recount recomputes both piece counts from the grid.
func (b *Board) Recount() {
	b.countA, b.countB = 0, 0
	for _, c := range b.cells {
		switch c {
		case SideA:
			b.countA++
		case SideB:
			b.countB++
		}
	}
}

// Empties returns the number of empty cells.
func (b *Board) Empties() int {
	n := 0
	for _, c := range b.cells {
		if c == Empty {
			n++
		}
	}
	return n
}

// CheckInvariants panics if the counts disagree with the grid. A mismatch
// is a programming error in whoever built the board.
func (b *Board) CheckInvariants() {
	a, bb := 0, 0
	for _, c := range b.cells {
		switch c {
		case SideA:
			a++
		case SideB:
			bb++
		}
	}
	if a != b.countA || bb != b.countB {
		panic(fmt.Sprintf("board counts out of sync: have a=%d b=%d, grid has a=%d b=%d",
			b.countA, b.countB, a, bb))
	}
}

func (b *Board) inc(side Cell, delta int) {
	switch side {
	case SideA:
		b.countA += delta
	case SideB:
		b.countB += delta
	}
}

// CloneMove places side at (row, col) and adds one to that side's count.
// The source piece stays where it is.
func (b *Board) CloneMove(row, col int, side Cell) {
	b.Place(row, col, side)
	b.inc(side, 1)
}

// RelocateMove moves a piece of side from one cell to another. Counts do
// not change.
func (b *Board) RelocateMove(fromRow, fromCol, toRow, toCol int, side Cell) {
	b.Place(toRow, toCol, side)
	b.Place(fromRow, fromCol, Empty)
}

// FlipNeighbors converts every occupied cell adjacent to (row, col) whose
// state differs from the centre to the centre's state. It returns the
// number of flipped pieces.
func (b *Board) FlipNeighbors(row, col int) int {
	c := b.At(row, col)
	rLim := min(row+2, b.rows)
	cLim := min(col+2, b.cols)
	flipped := 0
	for r := max(row-1, 0); r < rLim; r++ {
		for k := max(col-1, 0); k < cLim; k++ {
			i := r*b.cols + k
			cur := b.cells[i]
			if cur == Empty || cur == c {
				continue
			}
			b.cells[i] = c
			b.inc(cur, -1)
			b.inc(c, 1)
			flipped++
		}
	}
	b.invalidate()
	return flipped
}

// HasEmptyWithin2 reports whether any cell within Chebyshev distance 2 of
// (row, col) is empty.
func (b *Board) HasEmptyWithin2(row, col int) bool {
	rLim := min(row+3, b.rows)
	cLim := min(col+3, b.cols)
	for r := max(row-2, 0); r < rLim; r++ {
		for k := max(col-2, 0); k < cLim; k++ {
			if b.cells[r*b.cols+k] == Empty {
				return true
			}
		}
	}
	return false
}

// MoverCanMove reports whether SideA, the designated mover, has any piece
// with an empty cell inside its 5x5 neighbourhood. The answer is memoized
// until the next write.
func (b *Board) MoverCanMove() bool {
	if b.moverCanMoveComputed {
		return b.moverCanMove
	}
	b.moverCanMove = false
	for r := 0; r < b.rows && !b.moverCanMove; r++ {
		for k := 0; k < b.cols; k++ {
			if b.cells[r*b.cols+k] == SideA && b.HasEmptyWithin2(r, k) {
				b.moverCanMove = true
				break
			}
		}
	}
	b.moverCanMoveComputed = true
	return b.moverCanMove
}

// IsTerminal reports whether the designated mover (SideA) has no legal
// move left. Memoized until the next write.
func (b *Board) IsTerminal() bool {
	if b.terminalComputed {
		return b.terminal
	}
	b.terminal = !b.MoverCanMove()
	b.terminalComputed = true
	return b.terminal
}

// LeaderIs reports whether side has strictly more pieces than its
// opponent. A tie leads for nobody.
func (b *Board) LeaderIs(side Cell) bool {
	switch side {
	case SideA:
		return b.countA-b.countB > 0
	case SideB:
		return b.countB-b.countA > 0
	}
	return false
}

// LeaderIsSideA is LeaderIs(SideA).
func (b *Board) LeaderIsSideA() bool {
	return b.LeaderIs(SideA)
}

// Clone returns an independent deep copy. The memoized flags are not
// carried over.
func (b *Board) Clone() *Board {
	nb := &Board{
		rows:   b.rows,
		cols:   b.cols,
		cells:  make([]Cell, len(b.cells)),
		countA: b.countA,
		countB: b.countB,
	}
	copy(nb.cells, b.cells)
	return nb
}

// Equals compares dimensions, grid and counts.
func (b *Board) Equals(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols ||
		b.countA != o.countA || b.countB != o.countB {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
