package equity

import "github.com/blobwars/blobwars/board"

// Material is the piece difference.
type Material struct{}

func (Material) Evaluate(b *board.Board) int {
	return b.CountA() - b.CountB()
}

// Positional weighs material and adds the difference in "frontier" cells:
// empty cells adjacent to at least one piece of a side, where that side
// could clone next turn.
type Positional struct {
	MaterialWeight int
	FrontierWeight int
}

func NewPositional() Positional {
	return Positional{MaterialWeight: 4, FrontierWeight: 1}
}

func (p Positional) Evaluate(b *board.Board) int {
	frontierA, frontierB := frontiers(b)
	return p.MaterialWeight*(b.CountA()-b.CountB()) +
		p.FrontierWeight*(frontierA-frontierB)
}

func frontiers(b *board.Board) (int, int) {
	rows, cols := b.Rows(), b.Cols()
	fa, fb := 0, 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if b.At(r, c) != board.Empty {
				continue
			}
			nearA, nearB := false, false
			for r1 := max(r-1, 0); r1 < min(r+2, rows); r1++ {
				for c1 := max(c-1, 0); c1 < min(c+2, cols); c1++ {
					switch b.At(r1, c1) {
					case board.SideA:
						nearA = true
					case board.SideB:
						nearB = true
					}
				}
			}
			if nearA {
				fa++
			}
			if nearB {
				fb++
			}
		}
	}
	return fa, fb
}
