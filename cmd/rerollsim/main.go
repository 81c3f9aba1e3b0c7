package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/xtding233/buff-reroll/internal/config"
	"github.com/xtding233/buff-reroll/internal/experiment"
	"github.com/xtding233/buff-reroll/internal/observability"
	"github.com/xtding233/buff-reroll/internal/scenario"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	scenarios := flag.String("scenarios", "", "YAML scenario file; overrides simulation.scenarios")
	trials := flag.Int("trials", 0, "trials per experiment; overrides simulation.trials when > 0")
	policy := flag.String("policy", "", "force a policy on every experiment: no_lock | lock_on_acquire")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *scenarios != "" {
		cfg.Simulation.Scenarios = *scenarios
	}
	if *trials > 0 {
		cfg.Simulation.Trials = *trials
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *policy, logger, os.Stdout); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, policy string, logger *zap.Logger, out io.Writer) error {
	raw := scenario.Defaults()
	if cfg.Simulation.Scenarios != "" {
		var err error
		if raw, err = scenario.NewLoader().Load(cfg.Simulation.Scenarios); err != nil {
			return err
		}
	}

	var o scenario.Overrides
	if cfg.Simulation.Trials > 0 {
		o.Trials = &cfg.Simulation.Trials
	}
	if cfg.Simulation.MaxAttempts > 0 {
		o.MaxAttempts = &cfg.Simulation.MaxAttempts
	}
	if policy != "" {
		o.Policy = &policy
	}
	exps, err := scenario.Resolve(raw, o)
	if err != nil {
		return err
	}

	runner := experiment.NewRunner(
		experiment.WithLogger(logger),
		experiment.WithWorkers(cfg.Simulation.Workers),
		experiment.WithSeed(cfg.Simulation.Seed),
	)
	reports := make([]experiment.Report, 0, len(exps))
	for _, e := range exps {
		rep, err := runner.RunConfig(ctx, e)
		if err != nil {
			return err
		}
		reports = append(reports, rep)
	}
	return printReports(out, reports)
}

func printReports(out io.Writer, reports []experiment.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPERIMENT\tGOAL\tPOLICY\tTARGETS\tTRIALS\tMEAN\tSTDDEV\tP50\tP90\tP99")
	for _, r := range reports {
		targets := make([]string, len(r.Targets))
		for i, b := range r.Targets {
			targets[i] = b.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.4f\t%.4f\t%.0f\t%.0f\t%.0f\n",
			r.Name, r.Goal, r.Policy, strings.Join(targets, "+"), r.Trials,
			r.Stats.Mean, r.Stats.StdDev, r.Stats.P50, r.Stats.P90, r.Stats.P99)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		if r.Goal != experiment.GoalSlotsShown {
			continue
		}
		fmt.Fprintf(out, "\n%s: one slot %.2f%%, two slots %.2f%%, three slots %.2f%%\n",
			r.Name, 100*r.Stats.Share(1), 100*r.Stats.Share(2), 100*r.Stats.Share(3))
	}
	return nil
}
