package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadPosition = errors.New("bad position string")

// ParsePosition builds a board from the compact position notation: rows
// separated by '/', one character per cell ('a', 'b' or '.'), and decimal
// numbers standing for runs of empty cells. For example "a5b/7/7/b5a".
// Counts are computed from the grid.
func ParsePosition(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadPosition)
	}
	rowStrs := strings.Split(s, "/")
	if len(rowStrs) > MaxDimension {
		return nil, fmt.Errorf("%w: %d rows, at most %d allowed", ErrBadPosition, len(rowStrs), MaxDimension)
	}
	rows := make([][]Cell, len(rowStrs))
	for i, rs := range rowStrs {
		row, err := parseRow(rs)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadPosition, i, err)
		}
		if i > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrBadPosition, i, len(row), len(rows[0]))
		}
		rows[i] = row
	}
	if len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: zero columns", ErrBadPosition)
	}
	b := New(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, c := range row {
			b.Place(i, j, c)
		}
	}
	b.Recount()
	return b, nil
}

func parseRow(rs string) ([]Cell, error) {
	var row []Cell
	runLen := ""
	flush := func() error {
		if runLen == "" {
			return nil
		}
		n, err := strconv.Atoi(runLen)
		if err != nil {
			return err
		}
		if n > MaxDimension-len(row) {
			return fmt.Errorf("run of %s empties exceeds %d columns", runLen, MaxDimension)
		}
		for k := 0; k < n; k++ {
			row = append(row, Empty)
		}
		runLen = ""
		return nil
	}
	for _, ch := range rs {
		if ch >= '0' && ch <= '9' {
			runLen += string(ch)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		if len(row) >= MaxDimension {
			return nil, fmt.Errorf("more than %d columns", MaxDimension)
		}
		switch ch {
		case 'a', 'A':
			row = append(row, SideA)
		case 'b', 'B':
			row = append(row, SideB)
		case '.':
			row = append(row, Empty)
		default:
			return nil, fmt.Errorf("unexpected character %q", ch)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return row, nil
}

// MustParsePosition is ParsePosition for literals; it panics on error.
func MustParsePosition(s string) *Board {
	b, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Position renders the board in the compact notation, collapsing runs of
// empty cells into numbers.
func (b *Board) Position() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		run := 0
		for k := 0; k < b.cols; k++ {
			c := b.cells[r*b.cols+k]
			if c == Empty {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteString(c.String())
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
	}
	return sb.String()
}

// String is one line per row, used in logs and test failures.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for k := 0; k < b.cols; k++ {
			sb.WriteString(b.cells[r*b.cols+k].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ToDisplayText renders the board with column letters and 1-based row
// numbers, plus the piece counts.
func (b *Board) ToDisplayText() string {
	var str string
	row := "   "
	for i := 0; i < b.cols; i++ {
		row = row + fmt.Sprintf("%c", 'A'+i) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", b.cols*2) + "\n"
	for i := 0; i < b.rows; i++ {
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < b.cols; j++ {
			row = row + b.cells[i*b.cols+j].String() + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", b.cols*2) + "\n"
	str = str + fmt.Sprintf("a: %d  b: %d\n", b.countA, b.countB)
	return "\n" + str
}
