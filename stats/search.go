package stats

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// SearchSample is what one engine search reports.
type SearchSample struct {
	Depth   int
	Nodes   int
	Elapsed time.Duration
	Pass    bool
}

// SearchSummary aggregates the searches of one engine configuration. It
// is safe for concurrent use.
type SearchSummary struct {
	mu      sync.Mutex
	samples []SearchSample
	depth   Statistic
	nodes   Statistic
	millis  Statistic
}

func (s *SearchSummary) Add(sample SearchSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	s.depth.Push(float64(sample.Depth))
	s.nodes.Push(float64(sample.Nodes))
	s.millis.Push(float64(sample.Elapsed.Microseconds()) / 1000)
}

func (s *SearchSummary) Searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

func (s *SearchSummary) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.CountBy(s.samples, func(ss SearchSample) bool { return ss.Pass })
}

func (s *SearchSummary) TotalNodes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.SumBy(s.samples, func(ss SearchSample) int { return ss.Nodes })
}

func (s *SearchSummary) TotalElapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.SumBy(s.samples, func(ss SearchSample) time.Duration { return ss.Elapsed })
}

// DepthCounts maps each completed depth to the number of searches that
// reached it.
func (s *SearchSummary) DepthCounts() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.CountValuesBy(s.samples, func(ss SearchSample) int { return ss.Depth })
}

// NodesPerSecond is the overall search throughput.
func (s *SearchSummary) NodesPerSecond() float64 {
	elapsed := s.TotalElapsed()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.TotalNodes()) / elapsed.Seconds()
}

func (s *SearchSummary) String() string {
	var sb strings.Builder
	s.mu.Lock()
	fmt.Fprintf(&sb, "searches: %d\n", len(s.samples))
	fmt.Fprintf(&sb, "depth: mean %.2f, min %.0f, max %.0f\n", s.depth.Mean(), s.depth.Min(), s.depth.Max())
	fmt.Fprintf(&sb, "nodes: mean %.1f, stdev %.1f\n", s.nodes.Mean(), s.nodes.Stdev())
	fmt.Fprintf(&sb, "time (ms): mean %.2f, max %.2f\n", s.millis.Mean(), s.millis.Max())
	s.mu.Unlock()
	fmt.Fprintf(&sb, "nodes/sec: %.0f\n", s.NodesPerSecond())
	return sb.String()
}
