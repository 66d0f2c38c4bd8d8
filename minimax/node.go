package minimax

import (
	"context"
	"time"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/equity"
	"github.com/blobwars/blobwars/move"
	"github.com/blobwars/blobwars/rules"
	"github.com/blobwars/blobwars/tally"
)

// outcome is what a node hands back to its caller.
type outcome struct {
	value int
	best  move.Move
	// found is set once some candidate improved on the role's worst value.
	found bool
	// first is the first legal move seen, valid when legal is set.
	first move.Move
	legal bool
}

// search holds everything that stays fixed for the duration of one root
// search. Per-node state lives in node's locals.
type search struct {
	ctx        context.Context
	applier    rules.Applier
	evaluator  equity.Evaluator
	depthLimit int
	prune      bool
	deadline   time.Time
	tally      *tally.Tally

	// stopErr records why the search gave up, if it did.
	stopErr error
}

func (s *search) gated() bool {
	return !s.deadline.IsZero() || s.ctx.Done() != nil
}

// expired looks at the clock and the context. Only called when the tally
// says a check is due.
func (s *search) expired() bool {
	if err := s.ctx.Err(); err != nil {
		s.stopErr = err
		return true
	}
	if !s.deadline.IsZero() && !time.Now().Before(s.deadline) {
		s.stopErr = errOutOfTime
		return true
	}
	return false
}

// node searches b for role r at the given depth. bound is the value the
// parent already guarantees itself. The second return is false when the
// search ran out of time or was cancelled; the outcome is then garbage and
// every caller must unwind immediately.
func (s *search) node(b *board.Board, r role, depth, bound int) (outcome, bool) {
	if s.gated() && s.tally.Due() {
		if s.expired() {
			return outcome{}, false
		}
		s.tally.Reset()
	}

	o := outcome{value: r.worst}
	assign := func(v int, m move.Move) {
		if r.improves(v, o.value) {
			o.value = v
			o.best = m
			o.found = true
		}
	}

	// Same pair order as rules.ForEachPair, written out so the early exits
	// below can return from the node directly. Keep the two in step.
	rows, cols := b.Rows(), b.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if b.At(i, j) != r.side {
				continue
			}
			iLim := min(i+3, rows)
			jLim := min(j+3, cols)
			for i1 := max(i-2, 0); i1 < iLim; i1++ {
				for j1 := max(j-2, 0); j1 < jLim; j1++ {
					s.tally.Advance()
					m := move.New(i, j, i1, j1)
					child, ok := s.applier.Apply(b, r.side, m)
					if !ok {
						continue
					}
					if !o.legal {
						o.first = m
						o.legal = true
					}
					if child.IsTerminal() {
						// A finished game settles this node; the rest of
						// the candidates are not looked at.
						assign(r.terminalScore(child), m)
						return o, true
					}
					if depth >= s.depthLimit {
						assign(s.evaluator.Evaluate(child), m)
						continue
					}
					childBound := bound
					if s.prune {
						if r.cutoff(bound, o.value) {
							// fail-hard: leave the whole node with the
							// parent's bound.
							o.value = bound
							return o, true
						}
						childBound = o.value
					}
					co, ok := s.node(child, r.next(), depth+1, childBound)
					if !ok {
						return outcome{}, false
					}
					assign(co.value, m)
				}
			}
		}
	}
	return o, true
}
