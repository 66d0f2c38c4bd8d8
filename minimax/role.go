package minimax

import (
	"math"

	"github.com/blobwars/blobwars/board"
)

// Infinity bounds every score the search can produce. The win/loss scores
// of terminal positions sit at (or one step inside) these bounds.
const Infinity = math.MaxInt32

// role is the part of a search node that differs between the maximizing
// and minimizing plies.
type role struct {
	side       board.Cell
	maximizing bool
	// worst is where bestValue starts.
	worst int
	// win and loss are the terminal scores for this role. The loss score
	// is one unit inside the extreme, which stays reserved for worst.
	win  int
	loss int
}

var (
	maximizer = role{
		side:       board.SideA,
		maximizing: true,
		worst:      -Infinity,
		win:        Infinity,
		loss:       -Infinity + 1,
	}
	minimizer = role{
		side:       board.SideB,
		maximizing: false,
		worst:      Infinity,
		win:        -Infinity,
		loss:       Infinity - 1,
	}
)

func (r role) next() role {
	if r.maximizing {
		return minimizer
	}
	return maximizer
}

// improves reports whether candidate replaces best. Strict, so the first
// move found at a tied value is kept.
func (r role) improves(candidate, best int) bool {
	if r.maximizing {
		return candidate > best
	}
	return candidate < best
}

// cutoff reports whether the bound inherited from the parent leaves no
// room for this node to change the parent's decision.
func (r role) cutoff(bound, best int) bool {
	if r.maximizing {
		return bound <= best
	}
	return bound >= best
}

// terminalScore scores a finished position for this role. SideA is
// considered the winner unless SideB strictly leads.
func (r role) terminalScore(b *board.Board) int {
	sideAWins := !b.LeaderIs(board.SideB)
	if sideAWins == r.maximizing {
		return r.win
	}
	return r.loss
}

// Decisive reports whether v is a terminal win or loss score.
func Decisive(v int) bool {
	return v >= Infinity-1 || v <= -Infinity+1
}
