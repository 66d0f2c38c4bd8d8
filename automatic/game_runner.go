// Package automatic plays computer-vs-computer games, for comparing
// search settings and evaluators against each other.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/game"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/move"
	"github.com/blobwars/blobwars/rules"
	"github.com/blobwars/blobwars/stats"
)

// CSVHeader names the columns of the per-turn log lines.
const CSVHeader = "playerID,gameID,turn,move,pass,flips,depth,nodes,elapsedMs,pieces,oppPieces\n"

// GameResult is the outcome of one game. Winner is an engine index, or -1
// for a draw.
type GameResult struct {
	ID      string
	Winner  int
	Pieces  [2]int
	Turns   int
	Aborted bool
}

// GameRunner plays games between the two engines of a matchup.
type GameRunner struct {
	matchup   Matchup
	solvers   [2]*minimax.Solver
	summaries [2]*stats.SearchSummary
	logchan   chan string
	game      *game.Game
}

// NewGameRunner builds a runner. logchan may be nil. summaries receive the
// search statistics of each engine; nil entries are allocated.
func NewGameRunner(logchan chan string, m Matchup, summaries [2]*stats.SearchSummary) (*GameRunner, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	r := &GameRunner{matchup: m, logchan: logchan, summaries: summaries}
	for i, e := range m.Engines {
		s, err := e.solver()
		if err != nil {
			return nil, err
		}
		r.solvers[i] = s
		if r.summaries[i] == nil {
			r.summaries[i] = &stats.SearchSummary{}
		}
	}
	return r, nil
}

func (r *GameRunner) Summaries() [2]*stats.SearchSummary { return r.summaries }

// Engine 0 owns the computer's pieces of the game model, engine 1 the
// human's.
func engineIndex(o game.Owner) int {
	if o == game.Computer {
		return 0
	}
	return 1
}

// PlayGame plays one game to the end. With swapFirst set engine 0 makes
// the first move, otherwise engine 1 does.
func (r *GameRunner) PlayGame(ctx context.Context, swapFirst bool) (GameResult, error) {
	g, err := game.NewCornersGame(r.matchup.Rows, r.matchup.Cols)
	if err != nil {
		return GameResult{}, err
	}
	for i, e := range r.matchup.Engines {
		owner := game.Computer
		if i == 1 {
			owner = game.Human
		}
		g.SetNickname(owner, e.Name)
	}
	if swapFirst {
		g.SetOnturn(game.Computer)
	}
	r.game = g

	aborted := false
	for ply := 0; g.Playing(); ply++ {
		if ply >= r.matchup.MaxTurns || g.Repetitions() >= 2 {
			aborted = true
			break
		}
		if err := r.playTurn(ctx, ply); err != nil {
			return GameResult{}, err
		}
	}

	res := GameResult{
		ID:      g.ID(),
		Winner:  -1,
		Pieces:  [2]int{g.Count(game.Computer), g.Count(game.Human)},
		Turns:   len(g.History()),
		Aborted: aborted,
	}
	if !aborted {
		if w := g.Winner(); w != game.Nobody {
			res.Winner = engineIndex(w)
		}
	}
	log.Debug().Str("id", res.ID).Int("winner", res.Winner).Int("turns", res.Turns).
		Bool("aborted", aborted).Msg("game-over")
	return res, nil
}

func (r *GameRunner) playTurn(ctx context.Context, ply int) error {
	g := r.game
	mover := g.Onturn()
	idx := engineIndex(mover)
	// The mover is always SideA of the board the engine sees.
	b := g.Compact(mover == game.Human)

	var m move.Move
	var has bool
	var res minimax.Result
	random := ply < r.matchup.RandomOpeningPlies
	if random {
		moves := rules.LegalMoves(b, board.SideA)
		if len(moves) > 0 {
			m, has = moves[frand.Intn(len(moves))], true
		}
	} else {
		var err error
		res, err = r.solvers[idx].Solve(ctx, b)
		if err != nil {
			return err
		}
		m, has = res.Move, res.HasMove
		r.summaries[idx].Add(stats.SearchSample{
			Depth:   res.Depth,
			Nodes:   res.Nodes,
			Elapsed: res.Elapsed,
			Pass:    !res.HasMove,
		})
	}

	var err error
	if has {
		err = g.PlayMove(m)
	} else {
		err = g.Pass()
	}
	if err != nil {
		return fmt.Errorf("engine %s on turn %d: %w", r.matchup.Engines[idx].Name, ply, err)
	}

	if r.logchan != nil {
		t := g.History()[len(g.History())-1]
		pieces, opp := t.ComputerCount, t.HumanCount
		if mover == game.Human {
			pieces, opp = opp, pieces
		}
		mv := ""
		if has {
			mv = m.Algebraic()
		}
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v,%.3f,%v,%v\n",
			r.matchup.Engines[idx].Name,
			g.ID(),
			len(g.History()),
			mv,
			!has,
			t.Flips,
			res.Depth,
			res.Nodes,
			float64(res.Elapsed.Microseconds())/1000,
			pieces,
			opp)
	}
	return nil
}
