package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// WinRateInterval is the normal approximation of a confidence interval for
// a win rate, counting a draw as half a win. It returns the rate and the
// half-width of the interval.
func WinRateInterval(wins, draws, games int, confidenceInterval float64) (float64, float64) {
	if games == 0 {
		return 0, 0
	}
	p := (float64(wins) + float64(draws)/2) / float64(games)
	return p, ZVal(confidenceInterval) * math.Sqrt(p*(1-p)/float64(games))
}
