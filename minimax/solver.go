// Package minimax picks a move for SideA by looking ahead over the
// alternating plies of both sides. Search is depth-limited with optional
// fail-hard alpha-beta pruning, and can be bounded by wall-clock time
// instead of depth.
package minimax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/equity"
	"github.com/blobwars/blobwars/move"
	"github.com/blobwars/blobwars/rules"
	"github.com/blobwars/blobwars/tally"
)

// DefaultMaxDepth caps iterative deepening in time-bounded mode.
const DefaultMaxDepth = 64

var (
	ErrBadRestriction = errors.New("restriction must be at least 1")
	errOutOfTime      = errors.New("search out of time")
)

type Params struct {
	// Restriction is the ply limit, or the time budget in milliseconds
	// when TimeBounded is set.
	Restriction int
	TimeBounded bool
	Prune       bool
	// MaxDepth caps iterative deepening. Zero means DefaultMaxDepth.
	MaxDepth int
}

type Result struct {
	Move    move.Move
	HasMove bool
	Value   int
	// Depth is the deepest fully completed ply limit.
	Depth   int
	Nodes   int
	Elapsed time.Duration
	// TimedOut is set when a time-bounded search stopped on its deadline
	// rather than finishing every iteration.
	TimedOut bool
}

func (r Result) String() string {
	if !r.HasMove {
		return fmt.Sprintf("<no move; depth %d; %d pairs; %s>", r.Depth, r.Nodes, r.Elapsed)
	}
	return fmt.Sprintf("<%s value %d; depth %d; %d pairs; %s>",
		r.Move.ShortDescription(), r.Value, r.Depth, r.Nodes, r.Elapsed)
}

type Solver struct {
	params    Params
	applier   rules.Applier
	evaluator equity.Evaluator
}

func NewSolver(params Params, applier rules.Applier, evaluator equity.Evaluator) *Solver {
	if applier == nil {
		applier = rules.Standard{}
	}
	if evaluator == nil {
		evaluator = equity.Material{}
	}
	return &Solver{params: params, applier: applier, evaluator: evaluator}
}

func (s *Solver) Params() Params { return s.params }

// Search is a one-shot search with the standard rules and the material
// evaluator.
func Search(ctx context.Context, b *board.Board, restriction int, timeBounded, prune bool) (Result, error) {
	s := NewSolver(Params{
		Restriction: restriction,
		TimeBounded: timeBounded,
		Prune:       prune,
	}, nil, nil)
	return s.Solve(ctx, b)
}

// Solve searches b for SideA's best move. The board is not modified. A
// cancelled context aborts the search and its error is returned.
func (s *Solver) Solve(ctx context.Context, b *board.Board) (Result, error) {
	if s.params.Restriction < 1 {
		return Result{}, ErrBadRestriction
	}
	b.CheckInvariants()
	start := time.Now()
	var res Result
	var err error
	if s.params.TimeBounded {
		res, err = s.iterativelyDeepen(ctx, b, start)
	} else {
		res, err = s.fixedDepth(ctx, b)
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Debug().Err(err).Int("nodes", res.Nodes).Msg("search-aborted")
		return res, err
	}
	log.Debug().
		Str("move", res.Move.ShortDescription()).
		Bool("has-move", res.HasMove).
		Int("value", res.Value).
		Int("depth", res.Depth).
		Int("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Bool("timed-out", res.TimedOut).
		Msg("search-returning")
	return res, nil
}

func (s *Solver) newSearch(ctx context.Context, depthLimit int, t *tally.Tally) *search {
	return &search{
		ctx:        ctx,
		applier:    s.applier,
		evaluator:  s.evaluator,
		depthLimit: depthLimit,
		prune:      s.params.Prune,
		tally:      t,
	}
}

// root runs one complete search at a fixed depth limit.
func (s *Solver) root(sr *search, b *board.Board) (Result, bool) {
	// The root bound is the maximizer's best possible score, so the root
	// itself never cuts off.
	o, ok := sr.node(b, maximizer, 1, Infinity)
	if !ok {
		return Result{Nodes: sr.tally.Total()}, false
	}
	res := Result{
		Depth: sr.depthLimit,
		Nodes: sr.tally.Total(),
	}
	switch {
	case o.found:
		res.Move, res.HasMove, res.Value = o.best, true, o.value
	case o.legal:
		// Every line loses outright; still play something.
		res.Move, res.HasMove, res.Value = o.first, true, o.value
	default:
		res.Value = o.value
	}
	return res, true
}

func (s *Solver) fixedDepth(ctx context.Context, b *board.Board) (Result, error) {
	var t tally.Tally
	res, ok := s.root(s.newSearch(ctx, s.params.Restriction, &t), b)
	if !ok {
		return res, ctx.Err()
	}
	return res, nil
}

// iterativelyDeepen searches with ply limits 1, 2, ... until the time
// budget runs out, keeping the result of the last limit that completed.
// The first iteration ignores the deadline so a move is always available.
func (s *Solver) iterativelyDeepen(ctx context.Context, b *board.Board, start time.Time) (Result, error) {
	deadline := start.Add(time.Duration(s.params.Restriction) * time.Millisecond)
	maxDepth := s.params.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var t tally.Tally
	var best Result
	for depth := 1; depth <= maxDepth; depth++ {
		sr := s.newSearch(ctx, depth, &t)
		if depth > 1 {
			sr.deadline = deadline
		}
		log.Debug().Int("plies", depth).Msg("deepening-iteratively")
		res, ok := s.root(sr, b)
		if !ok {
			best.Nodes = t.Total()
			if errors.Is(sr.stopErr, errOutOfTime) {
				best.TimedOut = true
				return best, nil
			}
			return best, ctx.Err()
		}
		best = res
		if !res.HasMove || Decisive(res.Value) {
			break
		}
		if !time.Now().Before(deadline) {
			best.TimedOut = true
			break
		}
	}
	return best, nil
}
