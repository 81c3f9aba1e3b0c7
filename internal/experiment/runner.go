package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/buff-reroll/internal/reroll"
)

// Report is the outcome of one experiment run.
type Report struct {
	RunID   string
	Name    string
	Goal    Goal
	Policy  Policy
	Targets []reroll.Buff
	Trials  int
	Workers int
	Stats   Stats
	Elapsed time.Duration
}

// Runner repeats trials of an experiment and feeds the results into a Collector.
type Runner struct {
	logger  *zap.Logger
	workers int
	seed    uint64
	newRNG  func(worker int) reroll.RandomSource
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWorkers splits trials over n goroutines. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithSeed makes runs reproducible: worker w draws from a PCG stream seeded
// with seed+w. A zero seed keeps the crypto source.
func WithSeed(seed uint64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithRNG supplies the random source of each worker directly. It wins over WithSeed.
func WithRNG(f func(worker int) reroll.RandomSource) Option {
	return func(r *Runner) { r.newRNG = f }
}

// NewRunner creates a single-worker runner backed by the crypto source.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) rngFor(worker int) reroll.RandomSource {
	switch {
	case r.newRNG != nil:
		return r.newRNG(worker)
	case r.seed != 0:
		return reroll.NewSeededRNG(r.seed + uint64(worker))
	default:
		return reroll.DefaultRNG()
	}
}

// Run rerolls fresh panels until targets show, trials times, and summarizes
// the custom modules spent.
func (r *Runner) Run(ctx context.Context, targets []reroll.Buff, policy Policy, trials int) (Stats, error) {
	rep, err := r.RunConfig(ctx, Config{
		Name:    "run",
		Goal:    GoalCost,
		Policy:  policy,
		Targets: targets,
		Trials:  trials,
	})
	if err != nil {
		return Stats{}, err
	}
	return rep.Stats, nil
}

// RunConfig runs one experiment and returns its report.
func (r *Runner) RunConfig(ctx context.Context, cfg Config) (Report, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return Report{}, err
	}
	rep := Report{
		RunID:   uuid.NewString(),
		Name:    cfg.Name,
		Goal:    cfg.Goal,
		Policy:  cfg.Policy,
		Targets: cfg.Targets,
		Trials:  cfg.Trials,
		Workers: r.workerCount(cfg.Trials),
	}
	log := r.logger.With(zap.String("experiment", cfg.Name), zap.String("run_id", rep.RunID))
	log.Info("experiment started",
		zap.String("goal", string(cfg.Goal)),
		zap.String("policy", string(cfg.Policy)),
		zap.Stringers("targets", cfg.Targets),
		zap.Int("trials", cfg.Trials),
		zap.Int("workers", rep.Workers),
	)

	start := time.Now()
	samples := NewSamples(cfg.Trials)
	if err := r.run(ctx, cfg, samples, log); err != nil {
		log.Error("experiment failed", zap.Error(err))
		return Report{}, fmt.Errorf("experiment %q: %w", cfg.Name, err)
	}
	rep.Stats = samples.Stats()
	rep.Elapsed = time.Since(start)

	log.Info("experiment finished",
		zap.Float64("mean", rep.Stats.Mean),
		zap.Float64("stddev", rep.Stats.StdDev),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

// RunInto runs one experiment and records every trial result into sink.
func (r *Runner) RunInto(ctx context.Context, cfg Config, sink Collector) error {
	cfg, err := cfg.normalize()
	if err != nil {
		return err
	}
	return r.run(ctx, cfg, sink, r.logger.With(zap.String("experiment", cfg.Name)))
}

func (r *Runner) workerCount(trials int) int {
	w := r.workers
	if w > trials {
		w = trials
	}
	if w < 1 {
		w = 1
	}
	return w
}

// run splits trials into contiguous ranges, one per worker. Each worker owns
// its random source and buffer; buffers are replayed into sink in worker
// order so the aggregate does not depend on scheduling.
func (r *Runner) run(ctx context.Context, cfg Config, sink Collector, log *zap.Logger) error {
	workers := r.workerCount(cfg.Trials)
	buffers := make([]*Samples, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * cfg.Trials / workers
		hi := (w + 1) * cfg.Trials / workers
		buf := NewSamples(hi - lo)
		buffers[w] = buf
		rng := r.rngFor(w)

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				v, err := simulateOne(cfg, rng)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				buf.Record(v)
			}
			log.Debug("worker done", zap.Int("worker", w), zap.Int("trials", hi-lo))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, buf := range buffers {
		for _, v := range buf.Values() {
			sink.Record(v)
		}
	}
	return nil
}
