package equity

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/blobwars/blobwars/board"
	"github.com/blobwars/blobwars/zobrist"
)

const entrySize = 24

const (
	minSizePowerOf2 = 10
	maxSizePowerOf2 = 26
)

type cacheEntry struct {
	key   uint64
	score int
	valid bool
}

// Cached memoizes the scores of another evaluator, keyed by the zobrist
// hash of the position. The table is a fixed power-of-2 array; a new
// score simply overwrites whatever shares its bucket.
type Cached struct {
	sync.Mutex
	inner    Evaluator
	zobrist  *zobrist.Zobrist
	table    []cacheEntry
	sizeMask uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
}

// NewCached wraps inner with a table using roughly fractionOfMemory of
// the machine's memory.
func NewCached(inner Evaluator, fractionOfMemory float64) *Cached {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	sizePowerOf2 := minSizePowerOf2
	if desiredNElems > 1 {
		sizePowerOf2 = int(math.Log2(desiredNElems))
	}
	sizePowerOf2 = max(minSizePowerOf2, min(maxSizePowerOf2, sizePowerOf2))
	numElems := 1 << sizePowerOf2

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("eval-cache-size")

	return &Cached{
		inner:    inner,
		table:    make([]cacheEntry, numElems),
		sizeMask: uint64(numElems - 1),
	}
}

func (c *Cached) Evaluate(b *board.Board) int {
	c.Lock()
	defer c.Unlock()
	if c.zobrist == nil || !c.zobrist.Matches(b) {
		// new board size: old keys mean nothing.
		c.zobrist = &zobrist.Zobrist{}
		c.zobrist.Initialize(b.Rows(), b.Cols())
		clear(c.table)
	}
	c.lookups.Add(1)
	key := c.zobrist.Hash(b, false)
	idx := key & c.sizeMask
	if e := c.table[idx]; e.valid && e.key == key {
		c.hits.Add(1)
		return e.score
	}
	score := c.inner.Evaluate(b)
	c.table[idx] = cacheEntry{key: key, score: score, valid: true}
	return score
}

func (c *Cached) Lookups() uint64 { return c.lookups.Load() }
func (c *Cached) Hits() uint64    { return c.hits.Load() }
