package montecarlo

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mcprice/internal/sde"
)

// Recorder receives run telemetry. Replication is called concurrently from
// worker goroutines; PathObserver is called once per worker and the
// returned observer is used by that worker only.
type Recorder interface {
	PathObserver() sde.Observer
	Replication(payoff float64)
	Finished(est *Estimate, elapsed time.Duration)
}

type Options struct {
	Replications int
	Seed         uint64
	// Workers defaults to GOMAXPROCS when zero.
	Workers int
	// Confidence defaults to DefaultConfidence when zero.
	Confidence  float64
	KeepPayoffs bool
	// Progress, if set, is called from worker goroutines roughly every
	// percent of completed replications and must be safe for concurrent use.
	Progress func(done, total int)
	Recorder Recorder
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Replications: 1000,
		Confidence:   DefaultConfidence,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Workers > o.Replications && o.Replications > 0 {
		o.Workers = o.Replications
	}
	if o.Confidence == 0 {
		o.Confidence = DefaultConfidence
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o Options) validate() error {
	if o.Replications < 2 {
		return invalid("replications must be at least 2, got %d", o.Replications)
	}
	if o.Workers < 1 {
		return invalid("workers must be positive, got %d", o.Workers)
	}
	if _, err := ZScore(o.Confidence); err != nil {
		return err
	}
	return nil
}

// Run simulates opts.Replications independent paths, applies payoff to each
// and summarizes the results. Replication i always draws from
// sde.NewRand(opts.Seed, i), so the estimate is bit-identical for a given
// seed regardless of the number of workers. Any payoff failure aborts the
// run; no partial estimate is returned.
func Run(ctx context.Context, sim *sde.Simulator, payoff Payoff, opts Options) (*Estimate, error) {
	opts = opts.withDefaults()
	if sim == nil {
		return nil, invalid("missing simulator")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := payoff.validate(); err != nil {
		return nil, err
	}

	total := opts.Replications
	log := opts.Logger.With("payoff", payoff.Name, "replications", total)
	log.Debug("monte carlo run started", "workers", opts.Workers, "seed", opts.Seed, "steps", sim.Steps())
	start := time.Now()

	payoffs := make([]float64, total)
	chunk := (total + opts.Workers - 1) / opts.Workers
	every := total / 100
	if every < 1 {
		every = 1
	}
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, total)
		if lo >= hi {
			break
		}

		g.Go(func() error {
			var observers []sde.Observer
			if opts.Recorder != nil {
				if o := opts.Recorder.PathObserver(); o != nil {
					observers = append(observers, o)
				}
			}

			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				v, err := payoff.evaluate(sim, sde.NewRand(opts.Seed, uint64(i)), observers)
				if err != nil {
					return &PayoffError{Replication: i, Payoff: payoff.Name, Wrapped: err}
				}
				payoffs[i] = v

				if opts.Recorder != nil {
					opts.Recorder.Replication(v)
				}
				if opts.Progress != nil {
					if d := int(done.Add(1)); d%every == 0 || d == total {
						opts.Progress(d, total)
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Debug("monte carlo run aborted", "error", err)
		return nil, err
	}

	est, err := Summarize(payoffs, opts.Confidence)
	if err != nil {
		return nil, err
	}
	if opts.KeepPayoffs {
		est.Payoffs = payoffs
	}

	elapsed := time.Since(start)
	if opts.Recorder != nil {
		opts.Recorder.Finished(est, elapsed)
	}
	log.Info("monte carlo run finished",
		"mean", est.Mean,
		"stddev", est.StdDev,
		"ci_low", est.CILow,
		"ci_high", est.CIHigh,
		"elapsed", elapsed,
	)
	return est, nil
}
