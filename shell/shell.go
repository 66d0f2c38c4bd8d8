// Package shell is the interactive front end: a readline prompt that
// drives a game between the user and the engine.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/config"
	"github.com/blobwars/blobwars/game"
	"github.com/blobwars/blobwars/minimax"
	"github.com/blobwars/blobwars/rules"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game loaded; use new or load")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	execPath   string
	gitVersion string

	game   *game.Game
	solver *minimax.Solver

	ctx    context.Context
	cancel context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	ctx, cancel := context.WithCancel(context.Background())
	sc := &ShellController{
		out:        os.Stdout,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		ctx:        ctx,
		cancel:     cancel,
	}
	sc.game = game.DefaultGame()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// searcher builds a solver from the current settings. It is rebuilt after
// every set so that changes take effect on the next search.
func (sc *ShellController) searcher() (*minimax.Solver, error) {
	if sc.solver != nil {
		return sc.solver, nil
	}
	ev, err := sc.config.Evaluator()
	if err != nil {
		return nil, err
	}
	sc.solver = minimax.NewSolver(sc.config.SearchParams(), rules.Standard{}, ev)
	return sc.solver, nil
}

// extractFields splits a command line the way a POSIX shell would. Words
// starting with a dash become options taking the following word as value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: strings.ToLower(fields[0]), options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f) {
			key := strings.TrimLeft(f, "-")
			if i+1 >= len(fields) {
				return nil, errWrongOptionSyntax
			}
			cmd.options[key] = append(cmd.options[key], fields[i+1])
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// Execute runs a single command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.standardModeSwitch(line, sig); err != nil {
		sc.showError(err)
	}
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}
	if cmd.cmd == "exit" {
		if sig != nil {
			sig <- syscall.SIGINT
		}
		return nil
	}
	resp, err := sc.dispatch(cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mblobwars>\033[0m ",
		HistoryFile:     "/tmp/blobwars-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Error().Err(err).Msg("readline-init")
		sig <- syscall.SIGINT
		return
	}
	sc.l = l
	sc.out = l.Stdout()
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if strings.TrimSpace(line) == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any search in progress.
func (sc *ShellController) Cleanup() {
	sc.cancel()
}
