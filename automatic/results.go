package automatic

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/blobwars/blobwars/stats"
)

// Results aggregates a series of games. It is safe for concurrent use.
type Results struct {
	mu       sync.Mutex
	names    [2]string
	games    int
	wins     [2]int
	draws    int
	aborted  int
	margins  []float64
	turns    stats.Statistic
	Searches [2]*stats.SearchSummary
}

func newResults(m Matchup) *Results {
	return &Results{
		names:    [2]string{m.Engines[0].Name, m.Engines[1].Name},
		Searches: [2]*stats.SearchSummary{{}, {}},
	}
}

func (r *Results) add(g GameResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games++
	switch g.Winner {
	case 0, 1:
		r.wins[g.Winner]++
	default:
		r.draws++
	}
	if g.Aborted {
		r.aborted++
	}
	// Margins are from engine 0's point of view.
	r.margins = append(r.margins, float64(g.Pieces[0]-g.Pieces[1]))
	r.turns.Push(float64(g.Turns))
}

func (r *Results) Games() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.games
}

func (r *Results) Wins(engine int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wins[engine]
}

func (r *Results) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws
}

func (r *Results) Aborted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

func (r *Results) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := message.NewPrinter(language.English)
	var sb strings.Builder
	p.Fprintf(&sb, "games: %d (draws %d, aborted %d), turns per game %.1f\n",
		r.games, r.draws, r.aborted, r.turns.Mean())
	for i, name := range r.names {
		rate, hw := stats.WinRateInterval(r.wins[i], r.draws, r.games, 95)
		p.Fprintf(&sb, "%s: %d wins, score %.1f%% +/- %.1f%% (95%%)\n",
			name, r.wins[i], 100*rate, 100*hw)
		s := r.Searches[i]
		p.Fprintf(&sb, "  %d searches, %d nodes, %.0f nodes/sec\n",
			s.Searches(), s.TotalNodes(), s.NodesPerSecond())
	}
	if len(r.margins) > 0 {
		fmt.Fprintf(&sb, "final margin for %s:\n", r.names[0])
		hist := histogram.Hist(10, r.margins)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(histogram: %v)\n", err)
		}
	}
	return sb.String()
}
