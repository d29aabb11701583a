package pricing

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/sde"
)

var _ = Describe("Registry", func() {
	var reg *Registry

	BeforeEach(func() {
		reg = NewRegistry()
	})

	It("lists the built-in scenarios", func() {
		Expect(reg.Names()).To(Equal([]string{"bond", "call", "gbm-call", "gbm-put"}))
		Expect(reg.Describe("bond")).To(ContainSubstring("bond"))
	})

	It("rejects unknown scenarios", func() {
		cfg := config.DefaultConfig()
		cfg.Scenario = "swaption"
		_, err := reg.Build(cfg)
		Expect(err).To(MatchError(ContainSubstring("unknown scenario")))
	})

	It("builds the bond with a closed-form reference", func() {
		sc, err := reg.Build(config.ForScenario("bond"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.HasReference).To(BeTrue())
		Expect(sc.Reference).To(BeNumerically("~", 0.9391, 1e-4))
		Expect(sc.Payoff.NeedsPath()).To(BeTrue())
		Expect(sc.Model.Steps()).To(Equal(100))
	})

	It("builds the stochastic volatility call without a reference", func() {
		sc, err := reg.Build(config.ForScenario("call"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.HasReference).To(BeFalse())
		Expect(sc.Payoff.NeedsPath()).To(BeFalse())
		Expect(sc.Model.X0).To(Equal(sde.State{80, 0.09}))
		Expect(sc.Model.Steps()).To(Equal(20))
	})

	It("applies parameter overrides", func() {
		cfg := config.ForScenario("call")
		cfg.Params = map[string]float64{"rho": -0.3, "s0": 90}
		sc, err := reg.Build(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Params).To(HaveKeyWithValue("rho", -0.3))
		Expect(sc.Model.X0[0]).To(Equal(90.0))
	})

	It("rejects unknown parameters", func() {
		cfg := config.ForScenario("bond")
		cfg.Params = map[string]float64{"rho": 0.5}
		_, err := reg.Build(cfg)
		Expect(errors.Is(err, sde.ErrInvalidConfiguration)).To(BeTrue())
	})

	It("rejects correlations outside [-1, 1]", func() {
		cfg := config.ForScenario("call")
		cfg.Call.Rho = 1.2
		_, err := reg.Build(cfg)
		Expect(errors.Is(err, sde.ErrInvalidConfiguration)).To(BeTrue())
	})

	DescribeTable("rejects invalid step sizes",
		func(dt float64) {
			cfg := config.ForScenario("bond")
			cfg.Dt = dt
			_, err := reg.Build(cfg)
			Expect(errors.Is(err, sde.ErrInvalidConfiguration)).To(BeTrue())
		},
		Entry("zero", 0.0),
		Entry("negative", -0.01),
		Entry("beyond horizon", 3.0),
		Entry("too fine", 1e-12),
	)
})

var _ = Describe("Price", func() {
	var (
		ctx context.Context
		reg *Registry
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg = NewRegistry()
	})

	It("rejects a single replication", func() {
		cfg := config.ForScenario("bond")
		cfg.Replications = 1
		sc, err := reg.Build(cfg)
		Expect(err).NotTo(HaveOccurred())

		_, err = Price(ctx, sc, Options(cfg))
		Expect(errors.Is(err, montecarlo.ErrInvalidConfiguration)).To(BeTrue())
	})

	It("is reproducible for a fixed seed", func() {
		cfg := config.ForScenario("call")
		cfg.Seed = 17
		cfg.Replications = 400
		sc, err := reg.Build(cfg)
		Expect(err).NotTo(HaveOccurred())

		opts := Options(cfg)
		opts.Workers = 1
		a, err := Price(ctx, sc, opts)
		Expect(err).NotTo(HaveOccurred())

		opts.Workers = 3
		b, err := Price(ctx, sc, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Mean).To(Equal(a.Mean))
		Expect(b.StdDev).To(Equal(a.StdDev))
	})

	Context("zero-coupon bond", func() {
		It("prices close to the closed form", func() {
			cfg := config.ForScenario("bond")
			cfg.Seed = 1
			sc, err := reg.Build(cfg)
			Expect(err).NotTo(HaveOccurred())

			est, err := Price(ctx, sc, Options(cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(est.N).To(Equal(1000))
			Expect(est.Mean).To(BeNumerically("~", 0.9391, 0.003))
			Expect(est.CILow).To(BeNumerically("<", est.Mean))
			Expect(est.CIHigh).To(BeNumerically(">", est.Mean))
			Expect(est.Width()).To(BeNumerically("<", 0.002))
		})

		It("covers the discretized price at the nominal rate", func() {
			cfg := config.ForScenario("bond")
			sc, err := reg.Build(cfg)
			Expect(err).NotTo(HaveOccurred())

			// Summing the rate over all n+1 grid points converges to a price
			// slightly below the closed form; intervals are checked against
			// a long run of the same scheme.
			long := Options(cfg)
			long.Replications = 100000
			long.Seed = 1 << 40
			target, err := Price(ctx, sc, long)
			Expect(err).NotTo(HaveOccurred())
			Expect(target.Mean).To(BeNumerically("~", sc.Reference, 0.0015))

			opts := Options(cfg)
			opts.Seed = 1
			report, err := Coverage(ctx, sc, target.Mean, 200, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Runs).To(Equal(200))
			Expect(report.Estimates).To(HaveLen(200))
			Expect(report.Rate()).To(BeNumerically(">=", 0.88))
			Expect(report.MeanWidth).To(BeNumerically(">", 0))
		})
	})

	Context("stochastic volatility call", func() {
		It("produces a non-negative price with a proper interval", func() {
			cfg := config.ForScenario("call")
			cfg.Seed = 3
			sc, err := reg.Build(cfg)
			Expect(err).NotTo(HaveOccurred())

			est, err := Price(ctx, sc, Options(cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(est.Mean).To(BeNumerically(">=", 0))
			Expect(est.Width()).To(BeNumerically(">", 0))
			Expect(est.Mean).To(BeNumerically(">", 8))
			Expect(est.Mean).To(BeNumerically("<", 15))
		})

		It("handles perfect correlation", func() {
			for _, rho := range []float64{-1, 1} {
				cfg := config.ForScenario("call")
				cfg.Call.Rho = rho
				cfg.Replications = 200
				sc, err := reg.Build(cfg)
				Expect(err).NotTo(HaveOccurred())

				est, err := Price(ctx, sc, Options(cfg))
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(est.Mean)).To(BeFalse())
			}
		})
	})

	Context("geometric brownian motion call", func() {
		It("agrees with Black-Scholes", func() {
			cfg := config.ForScenario("gbm-call")
			cfg.Replications = 20000
			cfg.Seed = 11
			sc, err := reg.Build(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sc.HasReference).To(BeTrue())

			est, err := Price(ctx, sc, Options(cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(est.Mean).To(BeNumerically("~", sc.Reference, 4*est.HalfWidth))
		})
	})
})

var _ = Describe("geometric brownian motion put", func() {
	It("agrees with Black-Scholes and put-call parity", func() {
		ctx := context.Background()
		reg := NewRegistry()

		cfg := config.ForScenario("gbm-put")
		cfg.Replications = 20000
		cfg.Seed = 11
		put, err := reg.Build(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(put.HasReference).To(BeTrue())
		Expect(put.Payoff.NeedsPath()).To(BeFalse())

		est, err := Price(ctx, put, Options(cfg))
		Expect(err).NotTo(HaveOccurred())
		Expect(est.Mean).To(BeNumerically("~", put.Reference, 4*est.HalfWidth))

		callCfg := config.ForScenario("gbm-call")
		call, err := reg.Build(callCfg)
		Expect(err).NotTo(HaveOccurred())
		g := cfg.GBM
		Expect(call.Reference - put.Reference).To(BeNumerically("~", g.S0-g.Strike*math.Exp(-g.Rate*cfg.Horizon), 1e-9))
	})
})

var _ = Describe("Coverage", func() {
	It("rejects a non-positive run count", func() {
		sc, err := NewRegistry().Build(config.ForScenario("bond"))
		Expect(err).NotTo(HaveOccurred())
		_, err = Coverage(context.Background(), sc, 0.9391, 0, Options(config.DefaultConfig()))
		Expect(errors.Is(err, sde.ErrInvalidConfiguration)).To(BeTrue())
	})

	It("reports an empty rate for no runs", func() {
		Expect(CoverageReport{}.Rate()).To(Equal(0.0))
	})
})
