package rules

import (
	"testing"

	"github.com/matryer/is"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/move"
)

func TestApplyClone(t *testing.T) {
	is := is.New(t)
	b := board.MustParsePosition("a2/3/2b")
	nb, ok := Standard{}.Apply(b, board.SideA, move.New(0, 0, 1, 1))
	is.True(ok)
	is.Equal(nb.Position(), "a2/1a1/2a")
	is.Equal(nb.CountA(), 3)
	is.Equal(nb.CountB(), 0)
	// input untouched
	is.Equal(b.Position(), "a2/3/2b")
	nb.CheckInvariants()
}

func TestApplyRelocate(t *testing.T) {
	is := is.New(t)
	b := board.MustParsePosition("a3/4/3b/4")
	nb, ok := Standard{}.Apply(b, board.SideA, move.New(0, 0, 2, 2))
	is.True(ok)
	is.Equal(nb.Position(), "4/4/2aa/4")
	is.Equal(nb.CountA(), 2)
	is.Equal(nb.CountB(), 0)
	nb.CheckInvariants()
}

func TestApplyNotApplicable(t *testing.T) {
	is := is.New(t)
	b := board.MustParsePosition("ab2/4/4/3b")
	s := Standard{}
	for _, m := range []move.Move{
		move.New(0, 0, 0, 0), // same cell
		move.New(0, 0, 0, 1), // occupied
		move.New(0, 0, 3, 3), // too far
		move.New(0, 0, 0, 5), // off board
		move.New(1, 1, 1, 2), // no piece
		move.New(0, 1, 1, 1), // opponent's piece
	} {
		nb, ok := s.Apply(b, board.SideA, m)
		is.True(!ok)
		is.True(nb == nil)
	}
}

func TestLegalMovesOrder(t *testing.T) {
	is := is.New(t)
	b := board.MustParsePosition("a2/3/2b")
	moves := LegalMoves(b, board.SideA)
	is.Equal(len(moves), 7)
	is.Equal(moves[0], move.New(0, 0, 0, 1))
	is.Equal(moves[1], move.New(0, 0, 0, 2))
	is.Equal(moves[2], move.New(0, 0, 1, 0))
	is.Equal(moves[6], move.New(0, 0, 2, 1))
}

func TestForEachPairVisitsWholeWindow(t *testing.T) {
	is := is.New(t)
	b := board.MustParsePosition("5/5/2a2/5/5")
	n := 0
	ForEachPair(b, board.SideA, func(m move.Move) bool {
		n++
		return true
	})
	is.Equal(n, 25)

	n = 0
	ForEachPair(b, board.SideA, func(m move.Move) bool {
		n++
		return n < 3
	})
	is.Equal(n, 3)
}

func TestCanMove(t *testing.T) {
	is := is.New(t)
	is.True(CanMove(board.MustParsePosition("a2/3/2b"), board.SideA))
	is.True(!CanMove(board.MustParsePosition("ab/ba"), board.SideA))
	is.True(!CanMove(board.MustParsePosition("b2/3/3"), board.SideA))
}
