package automatic

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blobwars/blobwars/config"
	"github.com/blobwars/blobwars/equity"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/rules"
)

const (
	DefaultRandomOpeningPlies = 2
	DefaultMaxTurns           = 500
)

var ErrBadMatchup = errors.New("bad matchup")

// Engine is one side of a computer-vs-computer match.
type Engine struct {
	Name        string  `yaml:"name"`
	Depth       int     `yaml:"depth"`
	TimeMode    bool    `yaml:"time_mode"`
	Prune       bool    `yaml:"prune"`
	MaxDepth    int     `yaml:"max_depth,omitempty"`
	Evaluator   string  `yaml:"evaluator,omitempty"`
	CacheMemory float64 `yaml:"cache_memory,omitempty"`
}

func (e Engine) Params() minimax.Params {
	return minimax.Params{
		Restriction: e.Depth,
		TimeBounded: e.TimeMode,
		Prune:       e.Prune,
		MaxDepth:    e.MaxDepth,
	}
}

func (e Engine) solver() (*minimax.Solver, error) {
	ev, err := equity.ByName(e.Evaluator)
	if err != nil {
		return nil, err
	}
	if e.CacheMemory > 0 {
		ev = equity.NewCached(ev, e.CacheMemory)
	}
	return minimax.NewSolver(e.Params(), rules.Standard{}, ev), nil
}

// Matchup describes a series of games between two engines. The first
// engine plays the pieces that start in the top corners.
type Matchup struct {
	Engines [2]Engine `yaml:"engines"`
	Rows    int       `yaml:"rows"`
	Cols    int       `yaml:"cols"`
	// RandomOpeningPlies are played at random before the engines take
	// over, so that repeated games differ.
	RandomOpeningPlies int `yaml:"random_opening_plies"`
	// MaxTurns ends a game as a draw if it runs this long.
	MaxTurns int `yaml:"max_turns"`
}

// DefaultMatchup pits the configured engine against itself on the
// default board.
func DefaultMatchup(cfg *config.Config) Matchup {
	p := cfg.SearchParams()
	e := Engine{
		Depth:       p.Restriction,
		TimeMode:    p.TimeBounded,
		Prune:       p.Prune,
		MaxDepth:    p.MaxDepth,
		Evaluator:   cfg.GetString(config.ConfigEvaluator),
		CacheMemory: cfg.GetFloat64(config.ConfigEvalCacheFraction),
	}
	m := Matchup{
		Engines:            [2]Engine{e, e},
		Rows:               8,
		Cols:               8,
		RandomOpeningPlies: DefaultRandomOpeningPlies,
		MaxTurns:           DefaultMaxTurns,
	}
	m.Engines[0].Name = "p1"
	m.Engines[1].Name = "p2"
	return m
}

func (m Matchup) Validate() error {
	if m.Rows < 2 || m.Cols < 2 {
		return fmt.Errorf("%w: board must be at least 2x2, got %dx%d", ErrBadMatchup, m.Rows, m.Cols)
	}
	if m.MaxTurns < 1 {
		return fmt.Errorf("%w: max_turns must be positive", ErrBadMatchup)
	}
	for i, e := range m.Engines {
		if e.Depth < 1 {
			return fmt.Errorf("%w: engine %d: depth must be at least 1", ErrBadMatchup, i+1)
		}
		if _, err := equity.ByName(e.Evaluator); err != nil {
			return fmt.Errorf("%w: engine %d: %w", ErrBadMatchup, i+1, err)
		}
		if e.CacheMemory < 0 || e.CacheMemory >= 1 {
			return fmt.Errorf("%w: engine %d: cache_memory must be in [0, 1)", ErrBadMatchup, i+1)
		}
	}
	if m.Engines[0].Name == m.Engines[1].Name {
		return fmt.Errorf("%w: engines need distinct names", ErrBadMatchup)
	}
	return nil
}

// LoadMatchup reads a YAML matchup file. Fields it leaves out keep the
// values of base.
func LoadMatchup(path string, base Matchup) (Matchup, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return Matchup{}, err
	}
	m := base
	if err := yaml.Unmarshal(bts, &m); err != nil {
		return Matchup{}, fmt.Errorf("%w: %w", ErrBadMatchup, err)
	}
	return m, m.Validate()
}
