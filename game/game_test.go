package game

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func depthSolver(depth int) *minimax.Solver {
	return minimax.NewSolver(minimax.Params{Restriction: depth, Prune: true}, nil, nil)
}

func TestDefaultGame(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	is.Equal(g.Rows(), 8)
	is.Equal(g.Cols(), 8)
	is.Equal(g.Onturn(), Human)
	is.Equal(g.Count(Human), 2)
	is.Equal(g.Count(Computer), 2)
	is.Equal(g.Position(), "a6a/8/8/8/8/8/8/b6b")
	is.True(g.Playing())
	is.Equal(g.Winner(), Nobody)
	is.Equal(len(g.ID()), 36)
}

func TestNewGameBadSize(t *testing.T) {
	is := is.New(t)
	_, err := NewGame(0, 4)
	is.Equal(err, ErrBadSize)
	_, err = NewGame(8, board.MaxDimension+1)
	is.Equal(err, ErrBadSize)
	_, err = NewCornersGame(200000000, 2)
	is.Equal(err, ErrBadSize)
}

func TestCompactTranslates(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()

	b := g.Compact(false)
	is.Equal(b.At(0, 0), board.SideA)
	is.Equal(b.At(7, 7), board.SideB)
	is.Equal(b.CountA(), 2)
	is.Equal(b.CountB(), 2)

	swapped := g.Compact(true)
	is.Equal(swapped.At(0, 0), board.SideB)
	is.Equal(swapped.At(7, 0), board.SideA)
	is.Equal(swapped.CountA(), 2)
	is.Equal(swapped.CountB(), 2)
}

func TestHumanPlaysClone(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	is.NoErr(g.PlayMove(move.New(7, 0, 6, 1)))
	is.Equal(g.Count(Human), 3)
	is.Equal(g.At(6, 1), Human)
	is.Equal(g.At(7, 0), Human)
	is.Equal(g.Onturn(), Computer)

	h := g.History()
	is.Equal(len(h), 1)
	is.Equal(h[0].Mover, Human)
	is.Equal(h[0].Flips, 0)
	is.Equal(h[0].HumanCount, 3)
	is.Equal(h[0].ComputerCount, 2)
}

func TestRelocateLeavesSource(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	is.NoErr(g.PlayMove(move.New(7, 0, 5, 0)))
	is.Equal(g.At(7, 0), Nobody)
	is.Equal(g.At(5, 0), Human)
	is.Equal(g.Count(Human), 2)
}

func TestMoveErrors(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	is.Equal(g.PlayMove(move.New(0, 0, 1, 1)), ErrNotYourPiece)
	is.Equal(g.PlayMove(move.New(7, 0, 4, 0)), ErrIllegalMove)
	is.Equal(g.PlayMove(move.New(7, 0, 7, 0)), ErrIllegalMove)
	is.Equal(g.PlayMove(move.New(9, 9, 8, 8)), ErrIllegalMove)
	is.Equal(g.Pass(), ErrMustMove)
	is.Equal(len(g.History()), 0)
	is.Equal(g.Onturn(), Human)
}

func TestCaptureEndsGame(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("a2/3/2b", Computer)
	is.NoErr(err)
	is.NoErr(g.PlayMove(move.New(0, 0, 1, 1)))
	is.Equal(g.History()[0].Flips, 1)
	is.Equal(g.Count(Computer), 3)
	is.Equal(g.Count(Human), 0)
	is.True(!g.Playing())
	is.Equal(g.Winner(), Computer)
	is.Equal(g.PlayMove(move.New(1, 1, 1, 2)), ErrGameOver)
	is.Equal(g.Pass(), ErrGameOver)
	is.True(strings.Contains(g.ToDisplayText(), "computer wins"))
}

func TestBlockedPlayerPasses(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("baaa1/aaa2/aaa2", Human)
	is.NoErr(err)
	is.True(!g.CanMove(Human))
	is.True(g.CanMove(Computer))
	is.True(g.Playing())
	is.NoErr(g.Pass())
	is.Equal(g.Onturn(), Computer)
	is.True(g.History()[0].Pass)
}

func TestFullBoardDraw(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("ab/ba", Human)
	is.NoErr(err)
	is.True(!g.Playing())
	is.Equal(g.Winner(), Nobody)
	is.True(strings.Contains(g.ToDisplayText(), "draw"))
}

func TestFromPositionErrors(t *testing.T) {
	is := is.New(t)
	_, err := FromPosition("a2/3/2", Human)
	is.True(err != nil)
	_, err = FromPosition("a2/3/2b", Nobody)
	is.True(err != nil)
}

func TestComputerTurn(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("a2/3/2b", Computer)
	is.NoErr(err)
	summary, err := g.ComputerTurn(context.Background(), depthSolver(1))
	is.NoErr(err)
	is.True(!summary.Pass)
	is.Equal(summary.Move, move.New(0, 0, 1, 1))
	is.Equal(summary.Depth, 1)
	is.True(summary.Explored > 0)
	is.Equal(g.Position(), "a2/1a1/2a")
	is.True(strings.HasPrefix(summary.String(), "[0,0][1,1]\nTime spent = "))
	is.True(strings.Contains(summary.String(), "\nDEPTH = 1.\nExplored states: "))
}

func TestComputerTurnPasses(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("abbb1/bbb2/bbb2", Computer)
	is.NoErr(err)
	summary, err := g.ComputerTurn(context.Background(), depthSolver(2))
	is.NoErr(err)
	is.True(summary.Pass)
	is.True(strings.HasPrefix(summary.String(), "PASS.\n"))
	is.Equal(g.Onturn(), Human)
}

func TestComputerTurnOutOfTurn(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	_, err := g.ComputerTurn(context.Background(), depthSolver(1))
	is.Equal(err, ErrNotYourTurn)
	_, err = g.Hint(context.Background(), depthSolver(1))
	is.NoErr(err)
}

func TestHintMovesHumanPiece(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	res, err := g.Hint(context.Background(), depthSolver(2))
	is.NoErr(err)
	is.True(res.HasMove)
	is.Equal(g.At(res.Move.FromRow, res.Move.FromCol), Human)
	is.NoErr(g.ValidateMove(res.Move))
}

func TestRepetitions(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("a7b", Human)
	is.NoErr(err)
	is.NoErr(g.PlayMove(move.New(0, 8, 0, 6)))
	is.Equal(g.Repetitions(), 0)
	is.NoErr(g.PlayMove(move.New(0, 0, 0, 2)))
	is.NoErr(g.PlayMove(move.New(0, 6, 0, 8)))
	is.NoErr(g.PlayMove(move.New(0, 2, 0, 0)))
	is.Equal(g.Repetitions(), 0)
	is.NoErr(g.PlayMove(move.New(0, 8, 0, 6)))
	is.Equal(g.Repetitions(), 1)
}

func TestPositionKeysFollowTheGame(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	fullKey := func() uint64 {
		return g.zobrist.Hash(g.Compact(false), g.onturn == Human)
	}
	lastKey := func() uint64 {
		return g.History()[len(g.History())-1].PositionKey
	}
	for _, m := range []move.Move{
		move.New(7, 0, 6, 0),
		move.New(0, 0, 1, 0),
		move.New(7, 7, 5, 7),
		move.New(0, 7, 1, 6),
	} {
		is.NoErr(g.PlayMove(m))
		is.True(g.keyed)
		is.Equal(lastKey(), fullKey())
	}

	// A setup edit drops the carried key; the next turn rehashes.
	g.Place(3, 3, Human)
	is.True(!g.keyed)
	is.NoErr(g.PlayMove(move.New(6, 0, 5, 1)))
	is.Equal(lastKey(), fullKey())
}

func TestPassKeepsPositionKeyInStep(t *testing.T) {
	is := is.New(t)
	g, err := FromPosition("abbb1/bbb2/bbb2", Computer)
	is.NoErr(err)
	is.True(!g.CanMove(Computer))
	is.NoErr(g.Pass())
	is.Equal(g.History()[0].PositionKey, g.zobrist.Hash(g.Compact(false), true))
}

func TestTurnSummaryString(t *testing.T) {
	is := is.New(t)
	s := TurnSummary{Move: move.New(0, 0, 1, 1), Elapsed: 12 * time.Millisecond, Depth: 3, Explored: 1234}
	is.Equal(s.String(), "[0,0][1,1]\nTime spent = 12 milliseconds.\nDEPTH = 3.\nExplored states: 1234.")
	s.Pass = true
	is.Equal(s.String(), "PASS.\nTime spent = 12 milliseconds.\nDEPTH = 3.\nExplored states: 1234.")
}

func TestNicknames(t *testing.T) {
	is := is.New(t)
	g := DefaultGame()
	g.SetNickname(Human, "cesar")
	is.Equal(g.PlayerFor(Human).Nickname, "cesar")
	is.Equal(g.PlayerFor(Computer).Nickname, "computer")
	is.True(strings.Contains(g.ToDisplayText(), "-> cesar"))
}

func TestNewCornersGame(t *testing.T) {
	is := is.New(t)
	g, err := NewCornersGame(5, 7)
	is.NoErr(err)
	is.Equal(g.Position(), "a5a/7/7/7/b5b")
	_, err = NewCornersGame(1, 7)
	is.Equal(err, ErrBadSize)
}
