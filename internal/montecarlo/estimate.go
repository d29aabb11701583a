package montecarlo

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidence is the two-sided confidence level of reported intervals.
const DefaultConfidence = 0.95

// Estimate summarizes the discounted payoffs of a run.
type Estimate struct {
	N          int
	Mean       float64
	StdDev     float64
	StdErr     float64
	HalfWidth  float64
	CILow      float64
	CIHigh     float64
	Confidence float64
	// Payoffs holds the replication results in replication order when the
	// run was asked to keep them.
	Payoffs []float64
}

// Contains reports whether v lies inside the confidence interval.
func (e *Estimate) Contains(v float64) bool {
	return e.CILow <= v && v <= e.CIHigh
}

func (e *Estimate) Width() float64 {
	return e.CIHigh - e.CILow
}

// Summarize computes the sample mean, the Bessel-corrected standard
// deviation and the normal-approximation interval m ± z·s/sqrt(R).
func Summarize(payoffs []float64, confidence float64) (*Estimate, error) {
	n := len(payoffs)
	if n < 2 {
		return nil, invalid("need at least 2 payoffs for a standard deviation, got %d", n)
	}
	z, err := ZScore(confidence)
	if err != nil {
		return nil, err
	}

	sum := 0.0
	for _, v := range payoffs {
		sum += v
	}
	mean := sum / float64(n)

	ss := 0.0
	for _, v := range payoffs {
		d := v - mean
		ss += d * d
	}
	stddev := math.Sqrt(ss / float64(n-1))
	stderr := stddev / math.Sqrt(float64(n))
	h := z * stderr

	return &Estimate{
		N:          n,
		Mean:       mean,
		StdDev:     stddev,
		StdErr:     stderr,
		HalfWidth:  h,
		CILow:      mean - h,
		CIHigh:     mean + h,
		Confidence: confidence,
	}, nil
}

// ZScore returns the two-sided normal multiplier for a confidence level.
// 95% maps to exactly 1.96.
func ZScore(confidence float64) (float64, error) {
	if !(confidence > 0 && confidence < 1) {
		return 0, invalid("confidence must be in (0, 1), got %g", confidence)
	}
	if confidence == DefaultConfidence {
		return 1.96, nil
	}
	return distuv.UnitNormal.Quantile(1 - (1-confidence)/2), nil
}
