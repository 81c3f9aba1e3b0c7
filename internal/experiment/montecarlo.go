package experiment

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xtding233/buff-reroll/internal/reroll"
)

// Goal selects what the simulation measures per trial.
type Goal string

const (
	// Custom modules spent until every target is on the panel.
	GoalCost Goal = "cost"
	// Rerolls performed until every target is on the panel.
	GoalAttempts Goal = "attempts"
	// 1 when a single reroll shows every target, else 0. The mean is the hit probability.
	GoalHitRate Goal = "hit_rate"
	// Number of filled slots after a single reroll.
	GoalSlotsShown Goal = "slots_shown"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalCost, GoalAttempts, GoalHitRate, GoalSlotsShown:
		return true
	}
	return false
}

// Policy decides what the player does between rerolls.
type Policy string

const (
	PolicyNoLock        Policy = "no_lock"
	PolicyLockOnAcquire Policy = "lock_on_acquire"
)

func (p Policy) Valid() bool {
	return p == PolicyNoLock || p == PolicyLockOnAcquire
}

// DefaultTrials is used when a Config leaves Trials at zero.
const DefaultTrials = 100000

var (
	ErrInvalidConfig = errors.New("invalid experiment config")
	ErrAttemptLimit  = errors.New("attempt limit reached before all targets appeared")
)

// Seed places a known buff on a fresh panel before the first reroll.
type Seed struct {
	Slot int
	Buff reroll.Buff
	Lock bool // lock after placing; the lock fee is charged as usual
}

// Config describes one experiment.
type Config struct {
	Name    string
	Goal    Goal
	Policy  Policy
	Targets []reroll.Buff
	Trials  int
	Seeds   []Seed
	// MaxAttempts bounds the rerolls of one trial; 0 means unbounded and the
	// caller must make sure the targets are reachable.
	MaxAttempts int
}

// normalize fills defaults and rejects configurations that cannot run.
func (c Config) normalize() (Config, error) {
	if c.Goal == "" {
		c.Goal = GoalCost
	}
	if c.Policy == "" {
		c.Policy = PolicyNoLock
	}
	if c.Trials == 0 {
		c.Trials = DefaultTrials
	}
	switch {
	case !c.Goal.Valid():
		return c, fmt.Errorf("%w: unknown goal %q", ErrInvalidConfig, c.Goal)
	case !c.Policy.Valid():
		return c, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	case c.Trials < 0:
		return c, fmt.Errorf("%w: trials must be >= 0, got %d", ErrInvalidConfig, c.Trials)
	case c.MaxAttempts < 0:
		return c, fmt.Errorf("%w: max attempts must be >= 0, got %d", ErrInvalidConfig, c.MaxAttempts)
	case len(c.Targets) > reroll.SlotCount:
		return c, fmt.Errorf("%w: %d targets can never fit on %d slots", ErrInvalidConfig, len(c.Targets), reroll.SlotCount)
	}
	for i, b := range c.Targets {
		if !b.Valid() {
			return c, fmt.Errorf("%w: target %d is not a catalog buff", ErrInvalidConfig, i)
		}
		if slices.Index(c.Targets, b) != i {
			return c, fmt.Errorf("%w: duplicate target %s", ErrInvalidConfig, b)
		}
	}
	for _, s := range c.Seeds {
		if s.Slot < 0 || s.Slot >= reroll.SlotCount {
			return c, fmt.Errorf("%w: seed slot %d out of range", ErrInvalidConfig, s.Slot)
		}
		if !s.Buff.Valid() {
			return c, fmt.Errorf("%w: seed buff in slot %d is not a catalog buff", ErrInvalidConfig, s.Slot)
		}
	}
	return c, nil
}

// newPanel builds a fresh panel for one trial and applies the seeds.
func newPanel(c Config, rng reroll.RandomSource) (*reroll.Panel, error) {
	p := reroll.NewPanel(rng)
	for _, s := range c.Seeds {
		if err := p.SetBuff(s.Slot, s.Buff); err != nil {
			return nil, err
		}
		if s.Lock {
			if err := p.Lock(s.Slot); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// lockTargets locks one free slot per target not yet held in a locked slot.
// Targets are visited in order, so the escalating fee does not depend on slot order.
func lockTargets(p *reroll.Panel, targets []reroll.Buff) error {
	for _, b := range targets {
		free := -1
		held := false
		for pos, s := range p.Slots() {
			if !s.Filled() || s.Buff != b {
				continue
			}
			if s.State == reroll.SlotLocked {
				held = true
				break
			}
			if free < 0 {
				free = pos
			}
		}
		if held || free < 0 {
			continue
		}
		if err := p.Lock(free); err != nil {
			return err
		}
	}
	return nil
}

// simulateOne returns the primary metric for one trial depending on the goal.
// - GoalCost: custom modules spent until all targets show
// - GoalAttempts: rerolls until all targets show
// - GoalHitRate: 1 if one reroll shows all targets, else 0
// - GoalSlotsShown: filled slots after one reroll
func simulateOne(c Config, rng reroll.RandomSource) (float64, error) {
	p, err := newPanel(c, rng)
	if err != nil {
		return 0, err
	}

	switch c.Goal {
	case GoalHitRate:
		if err := p.Reroll(); err != nil {
			return 0, err
		}
		if p.HasAll(c.Targets) {
			return 1, nil
		}
		return 0, nil

	case GoalSlotsShown:
		if err := p.Reroll(); err != nil {
			return 0, err
		}
		return float64(p.PopulatedCount()), nil
	}

	// every trial rerolls at least once, even when the seeds already show the targets
	for {
		if c.MaxAttempts > 0 && p.Attempts() >= c.MaxAttempts {
			return 0, fmt.Errorf("%w: %d rerolls without %v", ErrAttemptLimit, p.Attempts(), c.Targets)
		}
		if err := p.Reroll(); err != nil {
			return 0, err
		}
		if c.Policy == PolicyLockOnAcquire {
			if err := lockTargets(p, c.Targets); err != nil {
				return 0, err
			}
		}
		if p.HasAll(c.Targets) {
			break
		}
	}

	if c.Goal == GoalAttempts {
		return float64(p.Attempts()), nil
	}
	return float64(p.CustomModules()), nil
}
