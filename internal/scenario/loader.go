package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFile []byte

// Loader reads scenario files and caches them by path.
type Loader struct {
	mu    sync.RWMutex
	cache map[string]RawFile
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]RawFile)}
}

// Load reads path, or returns the cached copy from an earlier call.
func (l *Loader) Load(path string) (RawFile, error) {
	l.mu.RLock()
	if raw, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return raw, nil
	}
	l.mu.RUnlock()

	raw, err := ReadFile(path)
	if err != nil {
		return RawFile{}, err
	}

	l.mu.Lock()
	l.cache[path] = raw
	l.mu.Unlock()
	return raw, nil
}

// Invalidate clears loader's cache.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawFile)
}

// ReadFile loads a scenario file. A missing file is an error.
func ReadFile(path string) (RawFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("read scenarios: %w", err)
	}
	raw, err := Parse(b)
	if err != nil {
		return RawFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes YAML, rejecting unknown keys. An empty document yields a zero RawFile.
func Parse(b []byte) (RawFile, error) {
	var raw RawFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return RawFile{}, fmt.Errorf("parse scenarios: %w", err)
	}
	return raw, nil
}

// Defaults returns the built-in experiment table.
func Defaults() RawFile {
	raw, err := Parse(defaultFile)
	if err != nil {
		panic("scenario: embedded default.yaml is invalid: " + err.Error())
	}
	return raw
}

// mergeExperiment fills fields e leaves unset from defaults d.
// Slices in e replace those of d when provided.
func mergeExperiment(d, e ExperimentCfg) ExperimentCfg {
	out := e
	if out.Goal == "" {
		out.Goal = d.Goal
	}
	if out.Policy == "" {
		out.Policy = d.Policy
	}
	if len(out.Targets) == 0 && len(d.Targets) > 0 {
		out.Targets = append([]string(nil), d.Targets...)
	}
	if out.Trials == nil && d.Trials != nil {
		out.Trials = d.Trials
	}
	if out.MaxAttempts == nil && d.MaxAttempts != nil {
		out.MaxAttempts = d.MaxAttempts
	}
	if len(out.Seeds) == 0 && len(d.Seeds) > 0 {
		out.Seeds = append([]SeedCfg(nil), d.Seeds...)
	}
	return out
}
