package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("blobwars_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// Exec runs one shell command line from a script and returns its output,
// or a string starting with ERROR.
func Exec(L *lua.LState) int {
	line := L.CheckString(1)
	sc := getShell(L)
	cmd, err := extractFields(line)
	if err != nil {
		log.Err(err).Msg("error-parsing-script-line")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if cmd.cmd == "script" || cmd.cmd == "exit" {
		L.Push(lua.LString("ERROR: " + cmd.cmd + " is not allowed in scripts"))
		return 1
	}
	r, err := sc.dispatch(cmd)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-line")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	out := ""
	if r != nil {
		out = r.message
	}
	L.Push(lua.LString(out))
	// return number of results pushed to stack.
	return 1
}

// Position returns the position of the current game in compact notation.
func Position(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(sc.game.Position()))
	return 1
}

// Playing returns whether the current game is still going.
func Playing(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LBool(sc.game != nil && sc.game.Playing()))
	return 1
}

// Onturn returns "human" or "computer".
func Onturn(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(sc.game.Onturn().String()))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("blobwars_shell", lsc)
	L.SetGlobal("blobwars_exec", L.NewFunction(Exec))
	L.SetGlobal("blobwars_position", L.NewFunction(Position))
	L.SetGlobal("blobwars_playing", L.NewFunction(Playing))
	L.SetGlobal("blobwars_onturn", L.NewFunction(Onturn))
	// The rest of the arguments are handed to the script as a global
	// table.
	argsTable := L.NewTable()
	for _, a := range cmd.args[1:] {
		argsTable.Append(lua.LString(a))
	}
	L.SetGlobal("args", argsTable)

	if err := L.DoFile(filepath); err != nil {
		return nil, err
	}
	return msg("script " + strings.TrimSpace(filepath) + " done"), nil
}
