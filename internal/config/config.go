package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultResultsFile = "results.json"

// SimulationConfig controls how a simulation is built and driven. A zero
// TickEvery defers to the scenario's own interval.
type SimulationConfig struct {
	TickEvery    time.Duration
	ScenarioPath string
	Seed         int64
	Results      string
}

type APIConfig struct {
	Addr       string
	Simulation SimulationConfig
}

type CLIConfig struct {
	APIBaseURL string
	Simulation SimulationConfig
}

func LoadAPIFromEnv() APIConfig {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("CRASH_API_ADDR", ":8080")
	}
	return APIConfig{
		Addr:       addr,
		Simulation: loadSimulation("memory"),
	}
}

// LoadCLIFromEnv defaults the result store to ~/.crash/results.json so that
// scores survive between runs.
func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("CRASH_API_BASE_URL", "http://localhost:8080"), "/"),
		Simulation: loadSimulation("file:" + defaultResultsPath()),
	}
}

func loadSimulation(results string) SimulationConfig {
	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" {
		results = dbURL
	}
	return SimulationConfig{
		TickEvery:    envDurationDefault("CRASH_TICK_EVERY", 0),
		ScenarioPath: strings.TrimSpace(os.Getenv("CRASH_SCENARIO")),
		Seed:         envInt64Default("CRASH_SEED", 0),
		Results:      envDefault("CRASH_RESULTS", results),
	}
}

func defaultResultsPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultResultsFile
	}
	return filepath.Join(home, ".crash", DefaultResultsFile)
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
