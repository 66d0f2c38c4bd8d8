package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func checkCountInvariant(is *is.I, b *Board) {
	is.Helper()
	is.Equal(b.CountA()+b.CountB()+b.Empties(), b.Rows()*b.Cols())
	b.CheckInvariants()
}

func TestCloneMove(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("a4/5/5/4b")
	before := b.Clone()

	b.CloneMove(0, 1, SideA)
	is.Equal(b.At(0, 1), SideA)
	is.Equal(b.At(0, 0), SideA)
	is.Equal(b.CountA(), before.CountA()+1)
	is.Equal(b.CountB(), before.CountB())
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if r == 0 && c == 1 {
				continue
			}
			is.Equal(b.At(r, c), before.At(r, c))
		}
	}
	checkCountInvariant(is, b)
}

func TestRelocateMove(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("a4/5/5/4b")
	b.RelocateMove(0, 0, 2, 2, SideA)
	is.Equal(b.At(0, 0), Empty)
	is.Equal(b.At(2, 2), SideA)
	is.Equal(b.CountA(), 1)
	is.Equal(b.CountB(), 1)
	checkCountInvariant(is, b)
}

func TestFlipNeighbors(t *testing.T) {
	is := is.New(t)
	// centre (2,2) is a; b pieces sit at distance 1 and 2.
	b := MustParsePosition("b3b/1b3/2ab1/.b.../b3b")
	beforeA, beforeB := b.CountA(), b.CountB()

	flipped := b.FlipNeighbors(2, 2)
	is.Equal(flipped, 3)
	is.Equal(b.At(1, 1), SideA)
	is.Equal(b.At(2, 3), SideA)
	is.Equal(b.At(3, 1), SideA)
	// distance 2 untouched
	is.Equal(b.At(0, 0), SideB)
	is.Equal(b.At(0, 4), SideB)
	is.Equal(b.At(4, 0), SideB)
	is.Equal(b.At(4, 4), SideB)
	// empty neighbours untouched
	is.Equal(b.At(1, 2), Empty)
	is.Equal(b.At(3, 3), Empty)

	is.Equal(b.CountA()-beforeA, 3)
	is.Equal(beforeB-b.CountB(), 3)
	checkCountInvariant(is, b)
}

func TestFlipNeighborsClipsAtEdges(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("ab/bb")
	is.Equal(b.FlipNeighbors(0, 0), 3)
	is.Equal(b.CountA(), 4)
	is.Equal(b.CountB(), 0)
	checkCountInvariant(is, b)
}

func TestTerminalMemoInvalidated(t *testing.T) {
	is := is.New(t)
	// a is completely surrounded by occupied cells inside a full 3x3.
	b := MustParsePosition("bbb/bab/bbb")
	is.True(b.IsTerminal())
	is.True(!b.MoverCanMove())

	b.Place(0, 0, Empty)
	b.Recount()
	is.True(!b.IsTerminal())
	is.True(b.MoverCanMove())

	b.CloneMove(0, 0, SideB)
	is.True(b.IsTerminal())
}

func TestTerminalLooksTwoCellsAway(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("abb./bbb./bbb./....")
	// nearest empty cell is at distance 3 from (0,0)
	is.True(b.IsTerminal())
	b.Place(2, 2, Empty)
	b.Recount()
	is.True(!b.IsTerminal())
}

func TestNoSideAPiecesIsTerminal(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("b2/3/3")
	is.True(b.IsTerminal())
}

func TestLeader(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("ab/..")
	is.True(!b.LeaderIsSideA())
	is.True(!b.LeaderIs(SideB))
	b.CloneMove(1, 0, SideA)
	is.True(b.LeaderIsSideA())
	is.True(!b.LeaderIs(SideB))
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("a2/3/2b")
	is.True(!b.IsTerminal())
	c := b.Clone()
	is.True(c.Equals(b))

	c.CloneMove(1, 1, SideA)
	is.Equal(b.At(1, 1), Empty)
	is.Equal(b.CountA(), 1)
	is.Equal(c.CountA(), 2)
	is.True(!c.Equals(b))
}

func TestCheckInvariantsPanics(t *testing.T) {
	is := is.New(t)
	b := New(2, 2)
	b.Place(0, 0, SideA)
	defer func() {
		is.True(recover() != nil)
	}()
	b.CheckInvariants()
}

func TestOutOfRangePanics(t *testing.T) {
	is := is.New(t)
	b := New(2, 2)
	defer func() {
		is.True(recover() != nil)
	}()
	b.At(2, 0)
}

func TestPositionRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, pos := range []string{
		"a6a/8/8/8/8/8/8/b6b",
		"ab/ba",
		"3/1a1/3",
		"10a/11",
	} {
		b, err := ParsePosition(pos)
		is.NoErr(err)
		is.Equal(b.Position(), pos)
	}
}

func TestParsePositionErrors(t *testing.T) {
	is := is.New(t)
	for _, pos := range []string{"", "ab/a", "axb", "a/"} {
		_, err := ParsePosition(pos)
		is.True(err != nil)
	}
}

func TestParsePositionRejectsOversizedBoards(t *testing.T) {
	is := is.New(t)
	for _, pos := range []string{
		"a200000000b",
		"a99999999999999999999999b",
		"a64",
		strings.Repeat("a", MaxDimension+1),
		strings.TrimSuffix(strings.Repeat("a/", MaxDimension+1), "/"),
	} {
		_, err := ParsePosition(pos)
		is.True(errors.Is(err, ErrBadPosition))
	}

	b, err := ParsePosition("a62b/64")
	is.NoErr(err)
	is.Equal(b.Cols(), MaxDimension)
}

func TestParsePositionCounts(t *testing.T) {
	is := is.New(t)
	b := MustParsePosition("a1b/.a./b2")
	is.Equal(b.Rows(), 3)
	is.Equal(b.Cols(), 3)
	is.Equal(b.CountA(), 2)
	is.Equal(b.CountB(), 2)
	is.Equal(b.Empties(), 5)
	is.Equal(b.String(), "a.b\n.a.\nb..\n")
}

func BenchmarkCloneAndFlip(b *testing.B) {
	bd := MustParsePosition("a6a/8/2bab3/2aba3/8/8/8/b6b")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := bd.Clone()
		c.CloneMove(2, 1, SideA)
		c.FlipNeighbors(2, 1)
	}
}
