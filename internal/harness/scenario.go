package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario drives one host Run from a YAML file and states what the host
// must observe.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Args is the argument vector handed to the host. Empty means
	// host.DefaultArgs.
	Args []string `yaml:"args,omitempty"`

	// Script is the CUE damage script, relative to the scenario file.
	Script string `yaml:"script"`

	// Session is an optional fixed session ID.
	// If empty, defaults to testutil.DefaultSessionID.
	Session string `yaml:"session,omitempty"`

	// ResponseFiles are written to a temp dir before the run. An argument
	// "@name" refers to the entry with that key.
	ResponseFiles map[string]string `yaml:"response_files,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists the observations checked after the run.
// Nil fields are not checked; ExitCode is always checked.
type Expect struct {
	ExitCode int `yaml:"exit_code"`

	// Notifications is the exact amount sequence the callback received.
	Notifications []int `yaml:"notifications,omitempty"`

	Count *int `yaml:"count,omitempty"`
	Total *int `yaml:"total,omitempty"`

	// Args is the engine's argument state after response-file expansion.
	Args []string `yaml:"args,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Script != "" && !filepath.IsAbs(scenario.Script) {
		scenario.Script = filepath.Join(filepath.Dir(path), scenario.Script)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Script == "" {
		return fmt.Errorf("script is required")
	}
	if _, err := os.Stat(s.Script); os.IsNotExist(err) {
		return fmt.Errorf("script file not found: %s", s.Script)
	}

	for name := range s.ResponseFiles {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("response_files: %q must be a plain file name", name)
		}
	}

	if s.Expect.Count != nil && *s.Expect.Count < 0 {
		return fmt.Errorf("expect.count must be non-negative")
	}
	return nil
}
