package game

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the grid with the players listed beside it,
// an arrow marking the player on turn.
func (g *Game) ToDisplayText() string {
	bt := g.Compact(false).ToDisplayText()
	lines := strings.Split(bt, "\n")
	hpadding := 3
	playerLines := []string{}
	for _, p := range g.players {
		onturn := "   "
		if p.Owner == g.onturn {
			onturn = "-> "
		}
		playerLines = append(playerLines, fmt.Sprintf("%s%-10s (%s) %d", onturn, p.Nickname,
			p.Owner.side(false), g.Count(p.Owner)))
	}
	for i, pl := range playerLines {
		row := 2 + i
		if row < len(lines) {
			lines[row] = lines[row] + strings.Repeat(" ", hpadding) + pl
		}
	}
	if !g.Playing() {
		status := "game over: draw"
		if w := g.Winner(); w != Nobody {
			status = "game over: " + g.PlayerFor(w).Nickname + " wins"
		}
		lines = append(lines, status)
	}
	if n := len(g.history); n > 0 {
		lines = append(lines, "last turn: "+g.history[n-1].String())
	}
	return strings.Join(lines, "\n")
}
