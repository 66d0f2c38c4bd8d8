package game

import (
	"fmt"
	"time"

	"github.com/blobwars/blobwars/move"
)

// Turn is one entry of the game history.
type Turn struct {
	Mover Owner
	Move  move.Move
	Pass  bool
	// Flips is the number of opposing pieces captured by the move.
	Flips         int
	HumanCount    int
	ComputerCount int
	// PositionKey is the zobrist key of the position after the turn, with
	// the side to move folded in.
	PositionKey uint64
}

func (t Turn) String() string {
	if t.Pass {
		return fmt.Sprintf("%s passes (%d-%d)", t.Mover, t.ComputerCount, t.HumanCount)
	}
	return fmt.Sprintf("%s %s, %d flipped (%d-%d)", t.Mover, t.Move.ShortDescription(),
		t.Flips, t.ComputerCount, t.HumanCount)
}

// TurnSummary reports what the engine did on a computer turn.
type TurnSummary struct {
	Move     move.Move
	Pass     bool
	Value    int
	Elapsed  time.Duration
	Depth    int
	Explored int
}

func (s TurnSummary) String() string {
	var ans string
	if s.Pass {
		ans = "PASS."
	} else {
		ans = s.Move.ShortDescription()
	}
	return ans + fmt.Sprintf("\nTime spent = %d milliseconds.\nDEPTH = %d.\nExplored states: %d.",
		s.Elapsed.Milliseconds(), s.Depth, s.Explored)
}
