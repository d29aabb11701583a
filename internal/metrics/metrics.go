// Package metrics exports Monte Carlo run telemetry as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/sde"
)

const namespace = "mcprice"

// Collector implements montecarlo.Recorder on a private registry.
type Collector struct {
	registry *prometheus.Registry

	replications *prometheus.CounterVec
	payoffs      *prometheus.HistogramVec
	negative     *prometheus.CounterVec
	steps        *prometheus.CounterVec
	estimate     *prometheus.GaugeVec
	duration     *prometheus.HistogramVec

	scenario string
}

var _ montecarlo.Recorder = (*Collector)(nil)

// New returns a collector that labels every sample with scenario. Payoff
// buckets are linear between 0 and payoffMax.
func New(scenario string, payoffMax float64) *Collector {
	if payoffMax <= 0 {
		payoffMax = 1
	}
	c := &Collector{registry: prometheus.NewRegistry(), scenario: scenario}

	c.replications = c.counterVec(prometheus.CounterOpts{
		Name: "replications_total",
		Help: "Completed Monte Carlo replications.",
	}, []string{"scenario"})

	c.payoffs = c.histogramVec(prometheus.HistogramOpts{
		Name:    "payoff",
		Help:    "Distribution of discounted payoffs.",
		Buckets: prometheus.LinearBuckets(0, payoffMax/20, 21),
	}, []string{"scenario"})

	c.steps = c.counterVec(prometheus.CounterOpts{
		Name: "path_steps_total",
		Help: "Simulated states across all paths.",
	}, []string{"scenario"})

	c.negative = c.counterVec(prometheus.CounterOpts{
		Name: "negative_states_total",
		Help: "Simulated states with a negative factor value.",
	}, []string{"scenario", "factor"})

	c.estimate = c.gaugeVec(prometheus.GaugeOpts{
		Name: "estimate",
		Help: "Summary statistics of the last finished run.",
	}, []string{"scenario", "stat"})

	c.duration = c.histogramVec(prometheus.HistogramOpts{
		Name:    "run_duration_seconds",
		Help:    "Wall time of finished runs.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"scenario"})

	return c
}

func (c *Collector) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace = namespace
	cv := prometheus.NewCounterVec(opts, labels)
	c.registry.MustRegister(cv)
	return cv
}

func (c *Collector) gaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	opts.Namespace = namespace
	gv := prometheus.NewGaugeVec(opts, labels)
	c.registry.MustRegister(gv)
	return gv
}

func (c *Collector) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace = namespace
	hv := prometheus.NewHistogramVec(opts, labels)
	c.registry.MustRegister(hv)
	return hv
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// PathObserver returns a per-worker observer counting visited states and
// negative excursions of each factor.
func (c *Collector) PathObserver() sde.Observer {
	o := &negativeObserver{steps: c.steps.WithLabelValues(c.scenario)}
	for k := 0; k < sde.MaxFactors; k++ {
		o.factors[k] = c.negative.WithLabelValues(c.scenario, strconv.Itoa(k))
	}
	return o
}

func (c *Collector) Replication(payoff float64) {
	c.replications.WithLabelValues(c.scenario).Inc()
	c.payoffs.WithLabelValues(c.scenario).Observe(payoff)
}

func (c *Collector) Finished(est *montecarlo.Estimate, elapsed time.Duration) {
	for stat, v := range map[string]float64{
		"mean":    est.Mean,
		"stddev":  est.StdDev,
		"ci_low":  est.CILow,
		"ci_high": est.CIHigh,
	} {
		c.estimate.WithLabelValues(c.scenario, stat).Set(v)
	}
	c.duration.WithLabelValues(c.scenario).Observe(elapsed.Seconds())
}

// WriteTextfile writes the current samples in the node-exporter textfile
// format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

type negativeObserver struct {
	steps   prometheus.Counter
	factors [sde.MaxFactors]prometheus.Counter
}

func (o *negativeObserver) OnStep(x sde.State, t float64) {
	o.steps.Inc()
	for k, v := range x {
		if v < 0 {
			o.factors[k].Inc()
		}
	}
}
