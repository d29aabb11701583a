package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mcprice/internal/config"
	"github.com/san-kum/mcprice/internal/logging"
	"github.com/san-kum/mcprice/internal/metrics"
	"github.com/san-kum/mcprice/internal/montecarlo"
	"github.com/san-kum/mcprice/internal/pricing"
	"github.com/san-kum/mcprice/internal/report"
	"github.com/san-kum/mcprice/internal/sde"
	"github.com/san-kum/mcprice/internal/sweep"
	"github.com/san-kum/mcprice/internal/tui"
)

var (
	configFile   string
	preset       string
	replications int
	dt           float64
	horizon      float64
	seed         uint64
	workers      int
	confidence   float64
	params       []string
	saveConfig   string

	plot        bool
	samplePaths int
	live        bool
	metricsFile string

	runs   int
	target float64
	axes   []string

	logLevel  string
	logFormat string
	logFile   string

	logger = slog.New(slog.DiscardHandler)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mcprice",
		Short:         "monte carlo pricing of bonds and options",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, closer, err := logging.New(cmd.ErrOrStderr(), logging.Config{
				Level:     logLevel,
				Format:    logFormat,
				File:      logFile,
				MaxSizeMB: 10,
			})
			if err != nil {
				return err
			}
			logger = l
			cobra.OnFinalize(func() { _ = closer() })
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write json logs to a rotated file")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "price a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPricing,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the payoff histogram and sample paths")
	runCmd.Flags().IntVar(&samplePaths, "paths", 5, "sample paths to plot")
	runCmd.Flags().BoolVar(&live, "tui", false, "show a live progress view")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this yaml file")

	coverageCmd := &cobra.Command{
		Use:   "coverage [scenario]",
		Short: "repeat a run and count intervals containing a target price",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCoverage,
	}
	addScenarioFlags(coverageCmd)
	coverageCmd.Flags().IntVar(&runs, "runs", 100, "number of independent runs")
	coverageCmd.Flags().Float64Var(&target, "target", 0, "target price (defaults to the closed form)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "price a scenario over a parameter grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "grid", nil, "grid axis, name=v1,v2,... (repeatable)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list pricing scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := pricing.NewRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range reg.Names() {
				fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, coverageCmd, sweepCmd, presetsCmd, scenariosCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVarP(&replications, "replications", "n", config.DefaultReplications, "number of replications")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step (scenario default when unset)")
	cmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "maturity in years")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&confidence, "confidence", config.DefaultConfidence, "confidence level")
	cmd.Flags().StringArrayVar(&params, "param", nil, "override a model parameter, name=value")
}

// loadConfig resolves scenario defaults, then the preset, then the config
// file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := "bond"
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.ForScenario(scenario)
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scenario = scenario
		}
	}

	flags := cmd.Flags()
	if flags.Changed("replications") {
		cfg.Replications = replications
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("confidence") {
		cfg.Confidence = confidence
	}

	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		merged := make(map[string]float64, len(cfg.Params)+len(overrides))
		for k, v := range cfg.Params {
			merged[k] = v
		}
		for k, v := range overrides {
			merged[k] = v
		}
		cfg.Params = merged
	}
	return cfg, nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --param %q: %w", pair, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func runPricing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	sc, err := pricing.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	opts := pricing.Options(cfg)
	opts.Logger = logger.With("scenario", sc.Name)
	opts.KeepPayoffs = plot

	var collector *metrics.Collector
	if metricsFile != "" {
		payoffMax := 1.0
		if sc.Name != "bond" {
			payoffMax = sc.Model.X0[0]
		}
		collector = metrics.New(sc.Name, payoffMax)
		opts.Recorder = collector
	}

	out := cmd.OutOrStdout()
	var est *montecarlo.Estimate
	if live {
		est, err = tui.Run(cmd.Context(), out, "pricing "+sc.Name, cfg.Replications,
			func(ctx context.Context, progress func(done, total int)) (*montecarlo.Estimate, error) {
				o := opts
				o.Progress = progress
				return pricing.Price(ctx, sc, o)
			})
	} else {
		est, err = pricing.Price(cmd.Context(), sc, opts)
	}
	if err != nil {
		return err
	}

	summary := report.Summary{
		Scenario:     sc.Name,
		Params:       sc.Params,
		Estimate:     est,
		Reference:    sc.Reference,
		HasReference: sc.HasReference,
		Seed:         cfg.Seed,
	}
	fmt.Fprintln(out, summary.Render())

	if plot {
		if err := plotScenario(out, sc, est, cfg.Seed); err != nil {
			return err
		}
	}

	if collector != nil {
		if err := collector.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written", "path", metricsFile)
	}
	return nil
}

func plotScenario(out io.Writer, sc *pricing.Scenario, est *montecarlo.Estimate, seed uint64) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Histogram(est.Payoffs, 30, 10))

	if samplePaths < 1 {
		return nil
	}
	sim, err := sc.Simulator()
	if err != nil {
		return err
	}
	series := make([][]float64, samplePaths)
	for i := range series {
		series[i] = sim.Path(sde.NewRand(seed, uint64(i))).Factor(0)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Paths(series, 10, 60, fmt.Sprintf("%d sample paths of factor 0", samplePaths)))
	return nil
}

func runCoverage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	sc, err := pricing.NewRegistry().Build(cfg)
	if err != nil {
		return err
	}

	goal := target
	if !cmd.Flags().Changed("target") {
		if !sc.HasReference {
			return fmt.Errorf("scenario %s has no closed form, pass --target", sc.Name)
		}
		goal = sc.Reference
	}

	opts := pricing.Options(cfg)
	opts.Logger = logger.With("scenario", sc.Name)

	rep, err := pricing.Coverage(cmd.Context(), sc, goal, runs, opts)
	if err != nil {
		return err
	}

	places := report.Places(rep.MeanWidth / 2)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "scenario\t%s\n", sc.Name)
	fmt.Fprintf(w, "target\t%s\n", report.Round(goal, places))
	fmt.Fprintf(w, "runs\t%d\n", rep.Runs)
	fmt.Fprintf(w, "covered\t%d\n", rep.Covered)
	fmt.Fprintf(w, "coverage\t%s\n", report.Round(rep.Rate(), 3))
	fmt.Fprintf(w, "mean width\t%s\n", report.Round(rep.MeanWidth, places))
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	grid := sweep.NewGrid()
	for _, axis := range axes {
		if err := grid.ParseAxis(axis); err != nil {
			return err
		}
	}

	opts := pricing.Options(cfg)
	opts.Logger = logger.With("scenario", cfg.Scenario)

	points, err := sweep.Run(cmd.Context(), pricing.NewRegistry(), cfg, grid, opts)
	if err != nil {
		return err
	}

	names := grid.Names()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tprice\tci low\tci high\n", strings.Join(names, "\t"))
	for _, p := range points {
		est := p.Estimate
		places := report.Places(est.HalfWidth)
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = strconv.FormatFloat(p.Params[name], 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", strings.Join(row, "\t"),
			report.Round(est.Mean, places), report.Round(est.CILow, places), report.Round(est.CIHigh, places))
	}
	return w.Flush()
}
