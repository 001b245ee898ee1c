package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "CRASH_API_ADDR", "CRASH_API_BASE_URL", "CRASH_TICK_EVERY", "CRASH_SCENARIO", "CRASH_SEED", "CRASH_RESULTS", "DATABASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := LoadAPIFromEnv()
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	sim := cfg.Simulation
	if sim.TickEvery != 0 || sim.Seed != 0 || sim.ScenarioPath != "" || sim.Results != "memory" {
		t.Fatalf("simulation = %+v", sim)
	}
}

func TestLoadAPIFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CRASH_TICK_EVERY", "250ms")
	t.Setenv("CRASH_SEED", "42")
	t.Setenv("CRASH_SCENARIO", " dotcom.yaml ")
	t.Setenv("DATABASE_URL", "postgres://localhost/crash")

	cfg := LoadAPIFromEnv()
	if cfg.Addr != ":9090" {
		t.Fatalf("Addr = %q, want :9090", cfg.Addr)
	}
	sim := cfg.Simulation
	if sim.TickEvery != 250*time.Millisecond || sim.Seed != 42 || sim.ScenarioPath != "dotcom.yaml" {
		t.Fatalf("simulation = %+v", sim)
	}
	if sim.Results != "postgres://localhost/crash" {
		t.Fatalf("Results = %q, want the DATABASE_URL fallback", sim.Results)
	}

	t.Setenv("CRASH_RESULTS", "memory")
	if got := LoadAPIFromEnv().Simulation.Results; got != "memory" {
		t.Fatalf("CRASH_RESULTS should win over DATABASE_URL, got %q", got)
	}
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRASH_TICK_EVERY", "soon")
	t.Setenv("CRASH_SEED", "forty-two")
	sim := LoadAPIFromEnv().Simulation
	if sim.TickEvery != 0 || sim.Seed != 0 {
		t.Fatalf("simulation = %+v", sim)
	}

	t.Setenv("CRASH_TICK_EVERY", "-5s")
	if got := LoadAPIFromEnv().Simulation.TickEvery; got != 0 {
		t.Fatalf("negative tick should fall back, got %v", got)
	}
}

func TestLoadCLIFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CRASH_API_BASE_URL", "http://example.test:8080/")
	cfg := LoadCLIFromEnv()
	if cfg.APIBaseURL != "http://example.test:8080" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if !strings.HasPrefix(cfg.Simulation.Results, "file:") || !strings.HasSuffix(cfg.Simulation.Results, DefaultResultsFile) {
		t.Fatalf("Results = %q, want a file store", cfg.Simulation.Results)
	}
}
