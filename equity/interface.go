// Package equity holds the static position evaluators used at the leaves
// of the search.
package equity

import (
	"fmt"

	"github.com/blobwars/blobwars/board"
)

// Evaluator scores a non-terminal position from SideA's point of view:
// higher is better for SideA.
type Evaluator interface {
	Evaluate(b *board.Board) int
}

const (
	MaterialName   = "material"
	PositionalName = "positional"
)

// ByName returns one of the built-in evaluators.
func ByName(name string) (Evaluator, error) {
	switch name {
	case MaterialName, "":
		return Material{}, nil
	case PositionalName:
		return NewPositional(), nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", name)
}
