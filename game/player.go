package game

import "github.com/blobwars/blobwars/board"

// Owner says whose piece occupies a cell of the full game grid.
type Owner uint8

const (
	Nobody Owner = iota
	Human
	Computer
)

func (o Owner) String() string {
	switch o {
	case Human:
		return "human"
	case Computer:
		return "computer"
	}
	return "nobody"
}

// Other returns the opposing player. Nobody stays Nobody.
func (o Owner) Other() Owner {
	switch o {
	case Human:
		return Computer
	case Computer:
		return Human
	}
	return Nobody
}

// side maps an owner to a compact-board side. The computer is SideA
// unless the roles are swapped.
func (o Owner) side(swap bool) board.Cell {
	switch o {
	case Computer:
		if swap {
			return board.SideB
		}
		return board.SideA
	case Human:
		if swap {
			return board.SideA
		}
		return board.SideB
	}
	return board.Empty
}

func ownerOf(c board.Cell, swap bool) Owner {
	switch c {
	case board.SideA:
		if swap {
			return Human
		}
		return Computer
	case board.SideB:
		if swap {
			return Computer
		}
		return Human
	}
	return Nobody
}

type Player struct {
	Nickname string
	Owner    Owner
}
