package zobrist

import (
	"lukechampine.com/frand"

	"github.com/blobwars/blobwars/board"
)

const bignum = 1<<63 - 2

// Zobrist hashes compact board positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	// posTable[cell][side-1]
	posTable   [][2]uint64
	sideToMove uint64

	rows, cols int
}

func (z *Zobrist) Initialize(rows, cols int) {
	z.rows = rows
	z.cols = cols
	z.posTable = make([][2]uint64, rows*cols)
	for i := range z.posTable {
		for j := 0; j < 2; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.sideToMove = frand.Uint64n(bignum) + 1
}

func (z *Zobrist) Matches(b *board.Board) bool {
	return z.posTable != nil && z.rows == b.Rows() && z.cols == b.Cols()
}

// Hash returns the key of the position. sideBToMove folds in whose turn it
// is; pass false when the turn does not matter (e.g. static evaluation).
func (z *Zobrist) Hash(b *board.Board, sideBToMove bool) uint64 {
	key := uint64(0)
	for r := 0; r < z.rows; r++ {
		for c := 0; c < z.cols; c++ {
			cell := b.At(r, c)
			if cell == board.Empty {
				continue
			}
			key ^= z.posTable[r*z.cols+c][cell-1]
		}
	}
	if sideBToMove {
		key ^= z.sideToMove
	}
	return key
}

// Toggle adds or removes a piece of side at (row, col) from key.
func (z *Zobrist) Toggle(key uint64, row, col int, side board.Cell) uint64 {
	if side == board.Empty {
		return key
	}
	return key ^ z.posTable[row*z.cols+col][side-1]
}

// Update moves key from the position before to the position after by
// toggling every cell that differs, then flips the side to move.
func (z *Zobrist) Update(key uint64, before, after *board.Board) uint64 {
	for r := 0; r < z.rows; r++ {
		for c := 0; c < z.cols; c++ {
			x, y := before.At(r, c), after.At(r, c)
			if x == y {
				continue
			}
			key = z.Toggle(key, r, c, x)
			key = z.Toggle(key, r, c, y)
		}
	}
	return key ^ z.sideToMove
}
