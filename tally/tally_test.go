package tally

import (
	"testing"

	"github.com/matryer/is"
)

func TestAdvanceAndReset(t *testing.T) {
	is := is.New(t)
	tl := &Tally{}
	for i := 0; i < 10; i++ {
		tl.Advance()
	}
	is.Equal(tl.Cycle(), 10)
	is.Equal(tl.Total(), 10)

	tl.Reset()
	is.Equal(tl.Cycle(), 1)
	is.Equal(tl.Total(), 10)

	tl.Advance()
	is.Equal(tl.Cycle(), 2)
	is.Equal(tl.Total(), 11)
}

func TestDue(t *testing.T) {
	is := is.New(t)
	tl := &Tally{}
	for i := 0; i < CheckInterval-1; i++ {
		tl.Advance()
	}
	is.True(!tl.Due())
	tl.Advance()
	is.True(tl.Due())
	tl.Reset()
	is.True(!tl.Due())
	// after a reset the cycle starts at 1, so one fewer advance is needed.
	for i := 0; i < CheckInterval-1; i++ {
		tl.Advance()
	}
	is.True(tl.Due())
}
