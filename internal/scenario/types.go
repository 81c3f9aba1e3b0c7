// types.go
package scenario

// RawFile is a scenario file as loaded from YAML.
type RawFile struct {
	Version     string          `yaml:"version"`
	Defaults    ExperimentCfg   `yaml:"defaults,omitempty"`
	Experiments []ExperimentCfg `yaml:"experiments"`
	Notes       string          `yaml:"notes,omitempty"`
}

// ExperimentCfg is one experiment entry. Unset fields inherit from defaults.
type ExperimentCfg struct {
	Name        string    `yaml:"name,omitempty"`
	Goal        string    `yaml:"goal,omitempty"`   // cost | attempts | hit_rate | slots_shown
	Policy      string    `yaml:"policy,omitempty"` // no_lock | lock_on_acquire
	Targets     []string  `yaml:"targets,omitempty"`
	Trials      *int      `yaml:"trials,omitempty"`
	MaxAttempts *int      `yaml:"max_attempts,omitempty"`
	Seeds       []SeedCfg `yaml:"seeds,omitempty"`
}

// SeedCfg places a buff on the panel before the first reroll.
type SeedCfg struct {
	Slot *int   `yaml:"slot"`
	Buff string `yaml:"buff"`
	Lock bool   `yaml:"lock,omitempty"`
}
