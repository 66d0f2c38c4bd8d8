// Package rules applies moves to compact boards. It decides which
// (source, destination) pairs are legal and produces the resulting board:
// clone or relocate depending on distance, then capture of adjacent
// opposing pieces at the destination.
package rules

import (
	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/move"
)

// Applier produces the board that results from a move, or reports that
// the move does not apply. The input board is never modified.
type Applier interface {
	Apply(b *board.Board, side board.Cell, m move.Move) (*board.Board, bool)
}

// Standard is the stock ruleset.
type Standard struct{}

// Legal reports whether side may play m on b: the source holds a piece of
// side, the destination is on the board and empty, and the two are one or
// two cells apart.
func (Standard) Legal(b *board.Board, side board.Cell, m move.Move) bool {
	if !b.InBounds(m.FromRow, m.FromCol) || !b.InBounds(m.ToRow, m.ToCol) {
		return false
	}
	if b.At(m.FromRow, m.FromCol) != side {
		return false
	}
	if b.At(m.ToRow, m.ToCol) != board.Empty {
		return false
	}
	return m.Kind() != move.KindInvalid
}

func (s Standard) Apply(b *board.Board, side board.Cell, m move.Move) (*board.Board, bool) {
	if !s.Legal(b, side, m) {
		return nil, false
	}
	nb := b.Clone()
	switch m.Kind() {
	case move.KindClone:
		nb.CloneMove(m.ToRow, m.ToCol, side)
	case move.KindRelocate:
		nb.RelocateMove(m.FromRow, m.FromCol, m.ToRow, m.ToCol, side)
	}
	nb.FlipNeighbors(m.ToRow, m.ToCol)
	return nb, true
}

// ForEachPair calls fn for every (source, destination) pair of side in the
// canonical order: source row, source column, destination row, destination
// column, all ascending. Destinations are the 5x5 window around the source
// clipped to the board, the source itself included. fn returns false to
// stop early.
func ForEachPair(b *board.Board, side board.Cell, fn func(m move.Move) bool) {
	rows, cols := b.Rows(), b.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if b.At(i, j) != side {
				continue
			}
			iLim := min(i+3, rows)
			jLim := min(j+3, cols)
			for i1 := max(i-2, 0); i1 < iLim; i1++ {
				for j1 := max(j-2, 0); j1 < jLim; j1++ {
					if !fn(move.New(i, j, i1, j1)) {
						return
					}
				}
			}
		}
	}
}

// LegalMoves lists the legal moves of side in canonical order.
func LegalMoves(b *board.Board, side board.Cell) []move.Move {
	var moves []move.Move
	s := Standard{}
	ForEachPair(b, side, func(m move.Move) bool {
		if s.Legal(b, side, m) {
			moves = append(moves, m)
		}
		return true
	})
	return moves
}

// CanMove reports whether side has at least one legal move.
func CanMove(b *board.Board, side board.Cell) bool {
	rows, cols := b.Rows(), b.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if b.At(i, j) == side && b.HasEmptyWithin2(i, j) {
				return true
			}
		}
	}
	return false
}
