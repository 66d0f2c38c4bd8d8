// Package tally counts explored move pairs for a single search. It keeps
// two counters: a cycle counter that gates how often the search looks at
// the wall clock, and a running total that is never reset.
package tally

// CheckInterval is how many pairs the search explores between two looks
// at the clock.
const CheckInterval = 500

type Tally struct {
	cycle int
	total int
}

// Advance increments both counters.
func (t *Tally) Advance() {
	t.cycle++
	t.total++
}

func (t *Tally) Cycle() int { return t.cycle }
func (t *Tally) Total() int { return t.total }

// Reset starts a new cycle. The cycle counter goes back to 1, not 0; the
// total is untouched.
func (t *Tally) Reset() {
	t.cycle = 1
}

// Due reports whether a clock check is due.
func (t *Tally) Due() bool {
	return t.cycle >= CheckInterval
}
