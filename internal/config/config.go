// Package config provides Viper-based configuration loading for the reroll simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds Monte-Carlo settings shared by every experiment.
type SimulationConfig struct {
	// Trials overrides the trial count of every experiment when > 0.
	Trials int `mapstructure:"trials"`
	// Workers is the number of goroutines splitting the trials.
	Workers int `mapstructure:"workers"`
	// Seed makes runs reproducible; 0 uses the crypto source.
	Seed uint64 `mapstructure:"seed"`
	// MaxAttempts bounds the rerolls of one trial when > 0.
	MaxAttempts int `mapstructure:"max_attempts"`
	// Scenarios is a YAML scenario file; empty runs the built-in table.
	Scenarios string `mapstructure:"scenarios"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Trials < 0 {
		errs = append(errs, fmt.Sprintf("simulation.trials must be >= 0, got %d", s.Trials))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if s.MaxAttempts < 0 {
		errs = append(errs, fmt.Sprintf("simulation.max_attempts must be >= 0, got %d", s.MaxAttempts))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with REROLL_ prefix
	v.SetEnvPrefix("REROLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.trials", 0)
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.max_attempts", 0)
	v.SetDefault("simulation.scenarios", "")
}
