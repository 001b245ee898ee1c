package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"crashcourse/internal/config"
	"crashcourse/internal/game"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseOrders(t *testing.T) {
	orders, err := parseOrders([]string{"0:buy:0", "160:sell:2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[1].Day != 160 || orders[1].Side != game.SideSell || orders[1].Instrument != 2 {
		t.Fatalf("orders = %+v", orders)
	}
	if _, err := parseOrders([]string{"0:buy:0", "bogus"}); err == nil {
		t.Fatalf("expected error for malformed order")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Fatalf("sparkline(nil) = %q", got)
	}
	if got := sparkline([]float64{1, 1, 1}); got != "▁▁▁" {
		t.Fatalf("flat sparkline = %q", got)
	}
	if got := sparkline([]float64{0, 7, 14}); got != "▁▄█" {
		t.Fatalf("rising sparkline = %q", got)
	}
}

func TestLastN(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	if got := lastN(v, 2); len(got) != 2 || got[0] != 3 {
		t.Fatalf("lastN = %v", got)
	}
	if got := lastN(v, 10); len(got) != 4 {
		t.Fatalf("lastN past length = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "Stock A", n: 10, want: "Stock A"},
		{in: "Lehman Brothers", n: 10, want: "Lehman ..."},
		{in: "abcdef", n: 2, want: "ab"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestTickInterval(t *testing.T) {
	sc := game.DefaultScenario()
	if got := tickInterval(config.SimulationConfig{}, sc); got != sc.TickEvery {
		t.Fatalf("interval = %v, want scenario's %v", got, sc.TickEvery)
	}
	if got := tickInterval(config.SimulationConfig{TickEvery: 50 * time.Millisecond}, sc); got != 50*time.Millisecond {
		t.Fatalf("interval = %v, want override", got)
	}
}

func TestRenderScores(t *testing.T) {
	var buf bytes.Buffer
	renderScores(&buf, nil)
	if !strings.Contains(buf.String(), "No runs recorded") {
		t.Fatalf("empty output = %q", buf.String())
	}

	buf.Reset()
	renderScores(&buf, []game.ScoreRow{{Rank: 1, RunResult: game.RunResult{
		Scenario:   "2008 Market Simulation",
		Days:       300,
		TotalValue: 1234.5,
		ReturnPct:  23.45,
		FinishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}})
	out := buf.String()
	for _, want := range []string{"RANK", "1234.50", "+23.45%", "300"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayModelKeys(t *testing.T) {
	sim := game.NewSimulation(game.DefaultScenario(), game.WithSource(&game.SequenceSource{Values: []float64{0.5}}))
	var m tea.Model = newPlayModel(sim)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(runes("b"))
	if shares, _ := sim.Shares(2); shares != 1 {
		t.Fatalf("buy on the last stock: shares = %d", shares)
	}
	if sim.Cash() != 920 {
		t.Fatalf("cash = %v, want 920", sim.Cash())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(runes("s"))
	if sim.Cash() != 920 {
		t.Fatalf("sell with no shares changed cash to %v", sim.Cash())
	}

	sim.Step()
	m, _ = m.Update(tickMsg{day: 1})
	view := m.View()
	for _, want := range []string{"Day 2", "Stock A", "920.00", game.MessageFor(1)} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q should quit")
	}
}
