// Package move holds the move value type shared by the engine, the game
// model and the front ends.
package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a move by how far it travels.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindClone duplicates a piece onto an adjacent cell.
	KindClone
	// KindRelocate jumps a piece two cells away, leaving its origin empty.
	KindRelocate
)

func (k Kind) String() string {
	switch k {
	case KindClone:
		return "clone"
	case KindRelocate:
		return "relocate"
	}
	return "invalid"
}

// Move is a source and a destination cell, both zero-based.
type Move struct {
	FromRow, FromCol int
	ToRow, ToCol     int
}

var ErrUnparseableMove = errors.New("could not parse move")

func New(fromRow, fromCol, toRow, toCol int) Move {
	return Move{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance is the Chebyshev distance between source and destination.
func (m Move) Distance() int {
	return max(abs(m.ToRow-m.FromRow), abs(m.ToCol-m.FromCol))
}

func (m Move) Kind() Kind {
	switch m.Distance() {
	case 1:
		return KindClone
	case 2:
		return KindRelocate
	}
	return KindInvalid
}

// ShortDescription renders the move as [fromRow,fromCol][toRow,toCol].
func (m Move) ShortDescription() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", m.FromRow, m.FromCol, m.ToRow, m.ToCol)
}

// Algebraic renders the move with column letters and 1-based rows, e.g.
// "a1b2". It matches the labels of board.ToDisplayText.
func (m Move) Algebraic() string {
	return fmt.Sprintf("%c%d%c%d", 'a'+m.FromCol, m.FromRow+1, 'a'+m.ToCol, m.ToRow+1)
}

func (m Move) String() string {
	return fmt.Sprintf("<%s %s %s>", m.Kind(), m.ShortDescription(), m.Algebraic())
}

var (
	reBracket   = regexp.MustCompile(`^\[\s*(\d+)\s*,\s*(\d+)\s*\]\s*\[\s*(\d+)\s*,\s*(\d+)\s*\]$`)
	rePairs     = regexp.MustCompile(`^(\d+)\s*,\s*(\d+)\s+(\d+)\s*,\s*(\d+)$`)
	reAlgebraic = regexp.MustCompile(`^([a-zA-Z])(\d+)\s*-?\s*([a-zA-Z])(\d+)$`)
)

// Parse accepts "[r,c][r,c]" and "r,c r,c" with zero-based coordinates, or
// algebraic "a1b2" / "a1-b2" with a column letter and a 1-based row.
func Parse(s string) (Move, error) {
	s = strings.TrimSpace(s)
	atoi := func(groups []string) []int {
		out := make([]int, len(groups))
		for i, g := range groups {
			out[i], _ = strconv.Atoi(g)
		}
		return out
	}
	if g := reBracket.FindStringSubmatch(s); g != nil {
		n := atoi(g[1:])
		return New(n[0], n[1], n[2], n[3]), nil
	}
	if g := rePairs.FindStringSubmatch(s); g != nil {
		n := atoi(g[1:])
		return New(n[0], n[1], n[2], n[3]), nil
	}
	if g := reAlgebraic.FindStringSubmatch(s); g != nil {
		fromCol := int(strings.ToLower(g[1])[0] - 'a')
		toCol := int(strings.ToLower(g[3])[0] - 'a')
		fromRow, _ := strconv.Atoi(g[2])
		toRow, _ := strconv.Atoi(g[4])
		if fromRow < 1 || toRow < 1 {
			return Move{}, fmt.Errorf("%w: rows start at 1: %q", ErrUnparseableMove, s)
		}
		return New(fromRow-1, fromCol, toRow-1, toCol), nil
	}
	return Move{}, fmt.Errorf("%w: %q", ErrUnparseableMove, s)
}
