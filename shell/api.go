package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/automatic"
	"github.com/blobwars/blobwars/config"
	"github.com/blobwars/blobwars/game"
	"github.com/blobwars/blobwars/move"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	if _, ok := c[key]; !ok {
		return defaultI, nil
	}
	return c.Int(key)
}

func (sc *ShellController) dispatch(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show":
		return sc.show(cmd)
	case "gid":
		return sc.gid(cmd)
	case "history":
		return sc.history(cmd)
	case "play":
		return sc.play(cmd)
	case "pass":
		return sc.pass(cmd)
	case "ai":
		return sc.ai(cmd)
	case "hint":
		return sc.hint(cmd)
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
	return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	rows, cols := game.DefaultRows, game.DefaultCols
	switch len(cmd.args) {
	case 0:
	case 2:
		var err error
		if rows, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
		if cols, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("usage: new [rows cols]")
	}
	g, err := game.NewCornersGame(rows, cols)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, errors.New("usage: load <position> [human|computer]")
	}
	onturn := game.Human
	if len(cmd.args) == 2 {
		switch strings.ToLower(cmd.args[1]) {
		case "human":
		case "computer":
			onturn = game.Computer
		default:
			return nil, fmt.Errorf("unknown player %q", cmd.args[1])
		}
	}
	g, err := game.FromPosition(cmd.args[0], onturn)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) gid(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ID()), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	for i, t := range sc.game.History() {
		fmt.Fprintf(&sb, "%3d. %s\n", i+1, t)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

// play makes the user's move. If the computer is then on turn it answers
// straight away.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <move>")
	}
	m, err := move.Parse(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if sc.game.Onturn() != game.Human {
		return nil, game.ErrNotYourTurn
	}
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	return sc.reply()
}

func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Onturn() != game.Human {
		return nil, game.ErrNotYourTurn
	}
	if err := sc.game.Pass(); err != nil {
		return nil, err
	}
	return sc.reply()
}

func (sc *ShellController) reply() (*Response, error) {
	if !sc.game.Playing() || sc.game.Onturn() != game.Computer {
		return msg(sc.game.ToDisplayText()), nil
	}
	return sc.ai(&shellcmd{cmd: "ai"})
}

// ai lets the engine move for the computer. With swap set and the human
// on turn, it moves for the human instead.
func (sc *ShellController) ai(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	solver, err := sc.searcher()
	if err != nil {
		return nil, err
	}
	if sc.game.Onturn() == game.Human && sc.config.GetBool(config.ConfigSwap) {
		res, err := sc.game.Hint(sc.ctx, solver)
		if err != nil {
			return nil, err
		}
		summary := game.TurnSummary{Move: res.Move, Pass: !res.HasMove, Value: res.Value,
			Elapsed: res.Elapsed, Depth: res.Depth, Explored: res.Nodes}
		if res.HasMove {
			err = sc.game.PlayMove(res.Move)
		} else {
			err = sc.game.Pass()
		}
		if err != nil {
			return nil, err
		}
		return msg(summary.String() + "\n" + sc.game.ToDisplayText()), nil
	}
	summary, err := sc.game.ComputerTurn(sc.ctx, solver)
	if err != nil {
		return nil, err
	}
	return msg(summary.String() + "\n" + sc.game.ToDisplayText()), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	solver, err := sc.searcher()
	if err != nil {
		return nil, err
	}
	res, err := sc.game.Hint(sc.ctx, solver)
	if err != nil {
		return nil, err
	}
	if !res.HasMove {
		return msg("no move available; pass"), nil
	}
	return msg(fmt.Sprintf("%s (%s), value %d at depth %d, %d states in %s",
		res.Move.ShortDescription(), res.Move.Algebraic(), res.Value, res.Depth,
		res.Nodes, res.Elapsed.Round(time.Millisecond))), nil
}

var settable = map[string]string{
	config.ConfigDepth:             "int",
	config.ConfigMaxDepth:          "int",
	config.ConfigTimeMode:          "bool",
	config.ConfigPrune:             "bool",
	config.ConfigSwap:              "bool",
	config.ConfigEvaluator:         "string",
	config.ConfigEvalCacheFraction: "float",
	config.ConfigAutoplayThreads:   "int",
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		for _, k := range []string{config.ConfigDepth, config.ConfigTimeMode, config.ConfigPrune,
			config.ConfigSwap, config.ConfigMaxDepth, config.ConfigEvaluator,
			config.ConfigEvalCacheFraction, config.ConfigAutoplayThreads} {
			fmt.Fprintf(&sb, "%s: %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	key, raw := cmd.args[0], cmd.args[1]
	kind, ok := settable[key]
	if !ok {
		return nil, fmt.Errorf("%s cannot be set from the shell", key)
	}
	var val any
	var err error
	switch kind {
	case "int":
		val, err = strconv.Atoi(raw)
	case "bool":
		val, err = strconv.ParseBool(raw)
	case "float":
		val, err = strconv.ParseFloat(raw, 64)
	default:
		val = raw
	}
	if err != nil {
		return nil, fmt.Errorf("bad value for %s: %w", key, err)
	}
	prev := sc.config.Get(key)
	sc.config.Set(key, val)
	if _, err := sc.config.Evaluator(); err != nil {
		sc.config.Set(key, prev)
		return nil, err
	}
	if p := sc.config.SearchParams(); p.Restriction < 1 {
		sc.config.Set(key, prev)
		return nil, fmt.Errorf("%s must be at least 1", config.ConfigDepth)
	}
	sc.solver = nil
	return msg(fmt.Sprintf("%s set to %v", key, val)), nil
}

// autoplay [games] [threads] [-matchup file.yaml] [-out file.csv]
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, threads := 10, sc.config.GetInt(config.ConfigAutoplayThreads)
	var err error
	if len(cmd.args) > 0 {
		if games, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if len(cmd.args) > 1 {
		if threads, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	m := automatic.DefaultMatchup(sc.config)
	if path := cmd.options.String("matchup"); path != "" {
		if m, err = automatic.LoadMatchup(path, m); err != nil {
			return nil, err
		}
	}
	out := cmd.options.String("out")
	if out == "" {
		out = filepath.Join(sc.execPath, "autoplay.csv")
	}
	sc.showMessage(fmt.Sprintf("playing %d games on %d threads, logging to %s", games, threads, out))
	res, err := automatic.StartCompVCompGames(sc.ctx, m, games, threads, out)
	if err != nil {
		return nil, err
	}
	return msg(res.String()), nil
}
