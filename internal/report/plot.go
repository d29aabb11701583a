package report

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// Bins counts values into n equal-width bins over [min, max].
func Bins(values []float64, n int) (counts []float64, lo, hi float64) {
	if len(values) == 0 || n < 1 {
		return nil, 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	counts = make([]float64, n)
	width := (hi - lo) / float64(n)
	for _, v := range values {
		i := n - 1
		if width > 0 {
			i = min(int((v-lo)/width), n-1)
		}
		counts[i]++
	}
	return counts, lo, hi
}

// Histogram plots the payoff distribution.
func Histogram(payoffs []float64, bins, height int) string {
	counts, lo, hi := Bins(payoffs, bins)
	if len(counts) == 0 {
		return ""
	}
	return asciigraph.Plot(counts,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("payoffs %s .. %s", Round(lo, 4), Round(hi, 4))),
	)
}

// Paths plots a few trajectories of one factor on a shared axis.
func Paths(series [][]float64, height, width int, caption string) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
