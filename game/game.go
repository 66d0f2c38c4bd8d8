// Package game holds the full model of a game between a human and the
// computer: who owns each cell, whose turn it is and what has been played
// so far. It translates its grid into the compact board the engine
// searches, and plays the engine's answer back onto the grid.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/move"
	"github.com/blobwars/blobwars/rules"
	"github.com/blobwars/blobwars/zobrist"
)

const (
	DefaultRows = 8
	DefaultCols = 8
)

var (
	ErrGameOver     = errors.New("the game is over")
	ErrNotYourPiece = errors.New("the source cell does not hold a piece of the player on turn")
	ErrIllegalMove  = errors.New("illegal move")
	ErrMustMove     = errors.New("cannot pass while a move is available")
	ErrNotYourTurn  = errors.New("it is not that player's turn")
	ErrBadSize      = errors.New("board dimensions out of range")
)

type Game struct {
	id      uuid.UUID
	rows    int
	cols    int
	grid    []Owner
	players [2]Player
	onturn  Owner
	history []Turn
	rules   rules.Standard
	zobrist zobrist.Zobrist
	// key is the zobrist key of the grid with onturn to move. It is only
	// trusted while keyed is set; setup edits clear it.
	key   uint64
	keyed bool
}

// NewGame returns an empty rows x cols game with the human on turn.
func NewGame(rows, cols int) (*Game, error) {
	if rows < 1 || cols < 1 || rows > board.MaxDimension || cols > board.MaxDimension {
		return nil, ErrBadSize
	}
	g := &Game{
		id:   uuid.New(),
		rows: rows,
		cols: cols,
		grid: make([]Owner, rows*cols),
		players: [2]Player{
			{Nickname: "human", Owner: Human},
			{Nickname: "computer", Owner: Computer},
		},
		onturn: Human,
	}
	g.zobrist.Initialize(rows, cols)
	return g, nil
}

// NewCornersGame is the stock opening on a rows x cols grid: the computer
// in the two top corners, the human in the two bottom corners, the human
// to move.
func NewCornersGame(rows, cols int) (*Game, error) {
	if rows < 2 || cols < 2 {
		return nil, ErrBadSize
	}
	g, err := NewGame(rows, cols)
	if err != nil {
		return nil, err
	}
	g.Place(0, 0, Computer)
	g.Place(0, cols-1, Computer)
	g.Place(rows-1, 0, Human)
	g.Place(rows-1, cols-1, Human)
	return g, nil
}

// DefaultGame is the 8x8 corners opening.
func DefaultGame() *Game {
	g, _ := NewCornersGame(DefaultRows, DefaultCols)
	return g
}

// FromPosition builds a game from compact position notation, reading a as
// the computer and b as the human.
func FromPosition(pos string, onturn Owner) (*Game, error) {
	b, err := board.ParsePosition(pos)
	if err != nil {
		return nil, err
	}
	if onturn != Human && onturn != Computer {
		return nil, fmt.Errorf("bad player on turn: %v", onturn)
	}
	g, err := NewGame(b.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	g.absorb(b, false)
	g.onturn = onturn
	return g, nil
}

func (g *Game) ID() string        { return g.id.String() }
func (g *Game) Rows() int         { return g.rows }
func (g *Game) Cols() int         { return g.cols }
func (g *Game) Onturn() Owner     { return g.onturn }
func (g *Game) History() []Turn   { return g.history }
func (g *Game) Players() []Player { return g.players[:] }

func (g *Game) SetNickname(o Owner, nick string) {
	for i := range g.players {
		if g.players[i].Owner == o {
			g.players[i].Nickname = nick
		}
	}
}

func (g *Game) PlayerFor(o Owner) Player {
	for _, p := range g.players {
		if p.Owner == o {
			return p
		}
	}
	return Player{}
}

func (g *Game) SetOnturn(o Owner) {
	g.onturn = o
	g.keyed = false
}

func (g *Game) At(row, col int) Owner {
	return g.grid[row*g.cols+col]
}

// Place sets a cell directly, for setting up positions.
func (g *Game) Place(row, col int, o Owner) {
	g.grid[row*g.cols+col] = o
	g.keyed = false
}

func (g *Game) Count(o Owner) int {
	n := 0
	for _, c := range g.grid {
		if c == o {
			n++
		}
	}
	return n
}

// Compact translates the grid into the engine's board. The computer's
// pieces become SideA, or the human's when swap is set, so the engine
// always searches for whoever is SideA. The counts are loaded from the
// same pass over the grid, and the board panics if they disagree with its
// own tally.
func (g *Game) Compact(swap bool) *board.Board {
	b := board.New(g.rows, g.cols)
	var countA, countB int
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			side := g.At(i, j).side(swap)
			switch side {
			case board.SideA:
				countA++
			case board.SideB:
				countB++
			default:
				continue
			}
			b.Place(i, j, side)
		}
	}
	b.SetCounts(countA, countB)
	b.CheckInvariants()
	return b
}

// absorb copies a compact board back onto the grid.
func (g *Game) absorb(b *board.Board, swap bool) {
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			g.grid[i*g.cols+j] = ownerOf(b.At(i, j), swap)
		}
	}
}

// Position is the compact notation of the grid, computer as a.
func (g *Game) Position() string {
	return g.Compact(false).Position()
}

// CanMove reports whether o has at least one legal move.
func (g *Game) CanMove(o Owner) bool {
	return rules.CanMove(g.Compact(false), o.side(false))
}

// Playing reports whether the game goes on. It ends when neither player
// can move or when either has no pieces left.
func (g *Game) Playing() bool {
	if g.Count(Human) == 0 || g.Count(Computer) == 0 {
		return false
	}
	return g.CanMove(Human) || g.CanMove(Computer)
}

// Winner is the player with strictly more pieces once the game is over.
// It is Nobody while the game is running or on a draw.
func (g *Game) Winner() Owner {
	if g.Playing() {
		return Nobody
	}
	h, c := g.Count(Human), g.Count(Computer)
	switch {
	case h > c:
		return Human
	case c > h:
		return Computer
	}
	return Nobody
}

// ValidateMove checks m for the player on turn without playing it.
func (g *Game) ValidateMove(m move.Move) error {
	if !g.Playing() {
		return ErrGameOver
	}
	if m.FromRow < 0 || m.FromRow >= g.rows || m.FromCol < 0 || m.FromCol >= g.cols {
		return ErrIllegalMove
	}
	if g.At(m.FromRow, m.FromCol) != g.onturn {
		return ErrNotYourPiece
	}
	if !g.rules.Legal(g.Compact(false), g.onturn.side(false), m) {
		return ErrIllegalMove
	}
	return nil
}

// PlayMove plays m for the player on turn and hands the turn over.
func (g *Game) PlayMove(m move.Move) error {
	if err := g.ValidateMove(m); err != nil {
		return err
	}
	before := g.Compact(false)
	side := g.onturn.side(false)
	after, ok := g.rules.Apply(before, side, m)
	if !ok {
		return ErrIllegalMove
	}
	flips := after.Count(side) - before.Count(side)
	if m.Kind() == move.KindClone {
		flips--
	}
	g.absorb(after, false)
	log.Debug().Str("mover", g.onturn.String()).Str("move", m.ShortDescription()).
		Int("flips", flips).Msg("played-move")
	g.record(Turn{Mover: g.onturn, Move: m, Flips: flips}, before, after)
	return nil
}

// Pass skips the turn of a player who has no legal move.
func (g *Game) Pass() error {
	if !g.Playing() {
		return ErrGameOver
	}
	if g.CanMove(g.onturn) {
		return ErrMustMove
	}
	b := g.Compact(false)
	g.record(Turn{Mover: g.onturn, Pass: true}, b, b)
	return nil
}

// record appends t to the history and hands the turn over. The position
// key is carried forward from the previous one; only the cells that
// changed between before and after are rehashed.
func (g *Game) record(t Turn, before, after *board.Board) {
	if !g.keyed {
		g.key = g.zobrist.Hash(before, g.onturn == Human)
	}
	g.onturn = g.onturn.Other()
	g.key = g.zobrist.Update(g.key, before, after)
	g.keyed = true
	t.HumanCount = g.Count(Human)
	t.ComputerCount = g.Count(Computer)
	t.PositionKey = g.key
	g.history = append(g.history, t)
}

// Repetitions counts earlier turns that left the same position with the
// same player to move as the latest one.
func (g *Game) Repetitions() int {
	if len(g.history) == 0 {
		return 0
	}
	last := g.history[len(g.history)-1].PositionKey
	n := 0
	for _, t := range g.history[:len(g.history)-1] {
		if t.PositionKey == last {
			n++
		}
	}
	return n
}

// ComputerTurn lets the engine choose the computer's move and plays it.
// When the engine finds nothing to play the computer passes.
func (g *Game) ComputerTurn(ctx context.Context, solver *minimax.Solver) (TurnSummary, error) {
	if !g.Playing() {
		return TurnSummary{}, ErrGameOver
	}
	if g.onturn != Computer {
		return TurnSummary{}, ErrNotYourTurn
	}
	res, err := solver.Solve(ctx, g.Compact(false))
	if err != nil {
		return TurnSummary{}, err
	}
	summary := TurnSummary{
		Move:     res.Move,
		Value:    res.Value,
		Elapsed:  res.Elapsed,
		Depth:    res.Depth,
		Explored: res.Nodes,
	}
	if !res.HasMove {
		summary.Pass = true
		return summary, g.Pass()
	}
	if err := g.PlayMove(res.Move); err != nil {
		return summary, fmt.Errorf("engine move %s: %w", res.Move.ShortDescription(), err)
	}
	return summary, nil
}

// Hint asks the engine what the human should play, searching with the
// human as SideA.
func (g *Game) Hint(ctx context.Context, solver *minimax.Solver) (minimax.Result, error) {
	if !g.Playing() {
		return minimax.Result{}, ErrGameOver
	}
	if g.onturn != Human {
		return minimax.Result{}, ErrNotYourTurn
	}
	return solver.Solve(ctx, g.Compact(true))
}

func (g *Game) String() string {
	return fmt.Sprintf("<game %s %dx%d onturn=%s computer=%d human=%d>",
		g.id, g.rows, g.cols, g.onturn, g.Count(Computer), g.Count(Human))
}
