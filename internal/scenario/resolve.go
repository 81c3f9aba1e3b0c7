// resolve.go
package scenario

import (
	"slices"

	"github.com/xtding233/buff-reroll/internal/experiment"
	"github.com/xtding233/buff-reroll/internal/reroll"
)

// Overrides carries command-line values applied on top of every experiment.
type Overrides struct {
	Trials      *int
	Policy      *string
	MaxAttempts *int
}

// Resolve validates raw, merges defaults → experiment → overrides and returns
// runnable experiment configs in file order.
func Resolve(raw RawFile, o Overrides) ([]experiment.Config, error) {
	raw.Experiments = slices.Clone(raw.Experiments)
	for i := range raw.Experiments {
		raw.Experiments[i] = applyOverrides(raw.Experiments[i], o)
	}
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}

	out := make([]experiment.Config, 0, len(raw.Experiments))
	for _, e := range raw.Experiments {
		e = mergeExperiment(raw.Defaults, e)
		cfg := experiment.Config{
			Name:   e.Name,
			Goal:   experiment.Goal(e.Goal),
			Policy: experiment.Policy(e.Policy),
		}
		if e.Trials != nil {
			cfg.Trials = *e.Trials
		}
		if e.MaxAttempts != nil {
			cfg.MaxAttempts = *e.MaxAttempts
		}
		// names were checked by ValidateRaw
		for _, name := range e.Targets {
			b, _ := reroll.ParseBuff(name)
			cfg.Targets = append(cfg.Targets, b)
		}
		for _, s := range e.Seeds {
			b, _ := reroll.ParseBuff(s.Buff)
			cfg.Seeds = append(cfg.Seeds, experiment.Seed{Slot: *s.Slot, Buff: b, Lock: s.Lock})
		}
		out = append(out, cfg)
	}
	return out, nil
}

func applyOverrides(e ExperimentCfg, o Overrides) ExperimentCfg {
	if o.Trials != nil {
		e.Trials = o.Trials
	}
	if o.Policy != nil {
		e.Policy = *o.Policy
	}
	if o.MaxAttempts != nil {
		e.MaxAttempts = o.MaxAttempts
	}
	return e
}
