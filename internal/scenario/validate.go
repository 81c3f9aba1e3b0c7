package scenario

import (
	"fmt"
	"strings"

	"github.com/xtding233/buff-reroll/internal/experiment"
	"github.com/xtding233/buff-reroll/internal/reroll"
)

// ValidateRaw checks semantic constraints of a RawFile after defaults are merged.
func ValidateRaw(raw RawFile) error {
	var errs []string

	if len(raw.Experiments) == 0 {
		errs = append(errs, "experiments must not be empty")
	}

	names := map[string]bool{}
	for i, e := range raw.Experiments {
		e = mergeExperiment(raw.Defaults, e)
		at := fmt.Sprintf("experiments[%d]", i)
		if e.Name == "" {
			errs = append(errs, at+".name is required")
		} else {
			if names[e.Name] {
				errs = append(errs, fmt.Sprintf("%s.name %q is duplicated", at, e.Name))
			}
			names[e.Name] = true
			at = fmt.Sprintf("experiments[%s]", e.Name)
		}

		if e.Goal != "" && !experiment.Goal(e.Goal).Valid() {
			errs = append(errs, at+".goal must be one of: cost, attempts, hit_rate, slots_shown")
		}
		if e.Policy != "" && !experiment.Policy(e.Policy).Valid() {
			errs = append(errs, at+".policy must be one of: no_lock, lock_on_acquire")
		}
		if e.Trials != nil && *e.Trials < 0 {
			errs = append(errs, at+".trials must be >= 0 (0 means default)")
		}
		if e.MaxAttempts != nil && *e.MaxAttempts < 0 {
			errs = append(errs, at+".max_attempts must be >= 0 (0 means unbounded)")
		}

		if len(e.Targets) > reroll.SlotCount {
			errs = append(errs, fmt.Sprintf("%s.targets has %d buffs; at most %d fit on a panel", at, len(e.Targets), reroll.SlotCount))
		}
		seen := map[reroll.Buff]bool{}
		for j, name := range e.Targets {
			b, err := reroll.ParseBuff(name)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s.targets[%d]: %v", at, j, err))
				continue
			}
			if seen[b] {
				errs = append(errs, fmt.Sprintf("%s.targets[%d]: %s listed twice", at, j, b))
			}
			seen[b] = true
		}
		if len(e.Targets) == 0 && experiment.Goal(e.Goal) == experiment.GoalHitRate {
			errs = append(errs, at+".targets is required for goal=hit_rate")
		}

		for j, s := range e.Seeds {
			if s.Slot == nil {
				errs = append(errs, fmt.Sprintf("%s.seeds[%d].slot is required", at, j))
			} else if *s.Slot < 0 || *s.Slot >= reroll.SlotCount {
				errs = append(errs, fmt.Sprintf("%s.seeds[%d].slot must satisfy 0 <= slot < %d", at, j, reroll.SlotCount))
			}
			if _, err := reroll.ParseBuff(s.Buff); err != nil {
				errs = append(errs, fmt.Sprintf("%s.seeds[%d].buff: %v", at, j, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
