// Package scenario loads market scenarios from YAML files.
//
// A scenario file may set any subset of the fields of game.Scenario; missing
// fields are filled from the built-in 2008 scenario. ${VAR} references are
// expanded from the environment before parsing.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"crashcourse/internal/game"
)

// Load reads and parses a scenario file without defaults or validation.
func Load(path string) (game.Scenario, error) {
	var sc game.Scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scenario: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &sc); err != nil {
		return sc, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return sc, nil
}

// LoadWithDefaults is Load followed by ApplyDefaults.
func LoadWithDefaults(path string) (game.Scenario, error) {
	sc, err := Load(path)
	if err != nil {
		return sc, err
	}
	ApplyDefaults(&sc)
	return sc, nil
}

// LoadAndValidate is LoadWithDefaults followed by validation.
func LoadAndValidate(path string) (game.Scenario, error) {
	sc, err := LoadWithDefaults(path)
	if err != nil {
		return sc, err
	}
	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// Resolve returns the built-in scenario for an empty path, otherwise the
// validated file at path.
func Resolve(path string) (game.Scenario, error) {
	if strings.TrimSpace(path) == "" {
		return game.DefaultScenario(), nil
	}
	return LoadAndValidate(path)
}

func ApplyDefaults(sc *game.Scenario) {
	def := game.DefaultScenario()
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = def.Name
	}
	if sc.StartingCash == 0 {
		sc.StartingCash = def.StartingCash
	}
	if sc.TickEvery == 0 {
		sc.TickEvery = def.TickEvery
	}
	if len(sc.Instruments) == 0 {
		sc.Instruments = def.Instruments
	}
	if len(sc.Regimes) == 0 {
		sc.Regimes = def.Regimes
	}
	if len(sc.Narrative) == 0 {
		sc.Narrative = def.Narrative
	}
}
