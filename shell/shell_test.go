package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/blobwars/blobwars/config"
	"github.com/blobwars/blobwars/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newTestShell(t *testing.T) (*ShellController, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDepth, 1)
	sc := NewShellController(cfg, t.TempDir(), "test")
	t.Cleanup(sc.Cleanup)
	var buf bytes.Buffer
	sc.out = &buf
	return sc, &buf
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -out /path/to/log.csv",
			&shellcmd{"autoplay", nil, CmdOptions{"out": {"/path/to/log.csv"}}},
			nil},
		{"autoplay 20 4",
			&shellcmd{"autoplay", []string{"20", "4"}, CmdOptions{}},
			nil},
		{"autoplay 20 -matchup 'my matchup.yaml' ",
			&shellcmd{"autoplay", []string{"20"}, CmdOptions{"matchup": {"my matchup.yaml"}}},
			nil},
		{"autoplay 20 -matchup",
			nil, errWrongOptionSyntax},
		{"new -3 4",
			&shellcmd{"new", []string{"-3", "4"}, CmdOptions{}},
			nil},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestUnbalancedQuotes(t *testing.T) {
	is := is.New(t)
	_, err := extractFields(`load "a2/3/2b`)
	is.True(err != nil)
}

func TestPlayAndReply(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "load a2/3/2b computer")
	is.Equal(sc.game.Onturn(), game.Computer)
	buf.Reset()

	sc.Execute(nil, "ai")
	is.True(strings.HasPrefix(buf.String(), "[0,0][1,1]\nTime spent = "))
	is.True(strings.Contains(buf.String(), "computer wins"))
	is.Equal(sc.game.Position(), "a2/1a1/2a")
}

func TestHumanMoveGetsAnAnswer(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "new 5 5")
	sc.Execute(nil, "play a5b4")
	is.True(!strings.Contains(buf.String(), "Error"))
	// the human's move and the engine's reply
	is.Equal(len(sc.game.History()), 2)
	is.Equal(sc.game.Onturn(), game.Human)
	is.True(strings.Contains(buf.String(), "Explored states: "))
}

func TestPlayErrors(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "play a1b2")
	is.True(strings.Contains(buf.String(), game.ErrNotYourPiece.Error()))
	buf.Reset()
	sc.Execute(nil, "play nonsense")
	is.True(strings.Contains(buf.String(), "Error"))
	buf.Reset()
	sc.Execute(nil, "pass")
	is.True(strings.Contains(buf.String(), game.ErrMustMove.Error()))
	buf.Reset()
	sc.Execute(nil, "frobnicate")
	is.True(strings.Contains(buf.String(), "unknown command"))
}

func TestHint(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "hint")
	is.True(strings.Contains(buf.String(), "at depth 1"))
	is.Equal(len(sc.game.History()), 0)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "set depth 3")
	is.Equal(sc.config.GetInt(config.ConfigDepth), 3)
	is.True(strings.Contains(buf.String(), "depth set to 3"))

	buf.Reset()
	sc.Execute(nil, "set depth 0")
	is.True(strings.Contains(buf.String(), "Error"))
	is.Equal(sc.config.GetInt(config.ConfigDepth), 3)

	buf.Reset()
	sc.Execute(nil, "set evaluator bogus")
	is.True(strings.Contains(buf.String(), "Error"))
	is.Equal(sc.config.GetString(config.ConfigEvaluator), "material")

	buf.Reset()
	sc.Execute(nil, "set nats-url nats://elsewhere")
	is.True(strings.Contains(buf.String(), "cannot be set"))

	buf.Reset()
	sc.Execute(nil, "set")
	is.True(strings.Contains(buf.String(), "prune: true"))
}

func TestSwapLetsAIMoveForHuman(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestShell(t)
	sc.Execute(nil, "set swap true")
	sc.Execute(nil, "ai")
	h := sc.game.History()
	is.Equal(len(h), 1)
	is.Equal(h[0].Mover, game.Human)
}

func TestHistoryAndGid(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "new 5 5")
	sc.Execute(nil, "play a5b4")
	buf.Reset()
	sc.Execute(nil, "history")
	is.True(strings.HasPrefix(buf.String(), "  1. human [4,0][3,1]"))
	buf.Reset()
	sc.Execute(nil, "gid")
	is.Equal(strings.TrimSpace(buf.String()), sc.game.ID())
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	sc.Execute(nil, "help")
	is.True(strings.Contains(buf.String(), "autoplay [games] [threads]"))
	buf.Reset()
	sc.Execute(nil, "help script")
	is.True(strings.Contains(buf.String(), "blobwars_exec"))
	buf.Reset()
	sc.Execute(nil, "help nothing")
	is.True(strings.Contains(buf.String(), "no help text"))
}

func TestExitSignals(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestShell(t)
	sig := make(chan os.Signal, 1)
	sc.Execute(sig, "exit")
	is.Equal(len(sig), 1)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "selfplay.lua")
	script := `
blobwars_exec("load " .. args[1])
blobwars_exec("set swap true")
local turns = 0
while blobwars_playing() and turns < 100 do
    blobwars_exec("ai")
    turns = turns + 1
end
result = blobwars_position()
`
	is.NoErr(os.WriteFile(path, []byte(script), 0644))
	sc.Execute(nil, "script "+path+" a3b/5/5/5/b3a")
	is.True(strings.Contains(buf.String(), "done"))
	is.True(len(sc.game.History()) > 0)
	is.True(sc.game.Rows() == 5)
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, buf := newTestShell(t)
	dir := t.TempDir()
	matchup := filepath.Join(dir, "m.yaml")
	is.NoErr(os.WriteFile(matchup, []byte(`
engines:
  - {name: one, depth: 1, prune: true}
  - {name: two, depth: 1, prune: false}
rows: 5
cols: 5
`), 0644))
	out := filepath.Join(dir, "out.csv")
	sc.Execute(nil, "autoplay 2 1 -matchup "+matchup+" -out "+out)
	is.True(!strings.Contains(buf.String(), "Error"))
	is.True(strings.Contains(buf.String(), "games: 2"))
	_, err := os.Stat(out)
	is.NoErr(err)
}
