package main

import (
	"fmt"
	"strings"

	"crashcourse/internal/game"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sparkWidth = 40

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
	dayStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	messageStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("11"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	moneyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	gainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// tickMsg is posted by the clock after each simulated day.
type tickMsg struct {
	day int
}

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Buy  key.Binding
	Sell key.Binding
	Help key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Buy, k.Sell, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Buy, k.Sell},
		{k.Help, k.Quit},
	}
}

func defaultKeys() keyMap {
	return keyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous stock")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next stock")),
		Buy:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy 1 share")),
		Sell: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell 1 share")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// playModel renders the live simulation. Trades are fire-and-forget:
// declined buys and sells leave the screen unchanged.
type playModel struct {
	sim      *game.Simulation
	keys     keyMap
	help     help.Model
	selected int
	width    int
	quitting bool
}

func newPlayModel(sim *game.Simulation) playModel {
	return playModel{
		sim:  sim,
		keys: defaultKeys(),
		help: help.New(),
	}
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		n := len(m.sim.Scenario().Instruments)
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < n-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Buy):
			_, _ = m.sim.Buy(m.selected)
		case key.Matches(msg, m.keys.Sell):
			_, _ = m.sim.Sell(m.selected)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m playModel) View() string {
	if m.quitting {
		return ""
	}
	snap := m.sim.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.Scenario))
	b.WriteString(" ")
	b.WriteString(dayStyle.Render(fmt.Sprintf("Day %d", snap.Day+1)))
	b.WriteString("\n\n")
	b.WriteString(messageStyle.Render(snap.Message))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Cash        "))
	b.WriteString(moneyStyle.Render(game.FormatMoney(snap.Cash)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Total Value "))
	b.WriteString(moneyStyle.Render(snap.TotalValueDisplay))
	b.WriteString("\n\n")

	for _, in := range snap.Instruments {
		cursor := "  "
		name := fmt.Sprintf("%-10s", truncate(in.Name, 10))
		if in.Index == m.selected {
			cursor = selectedStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		history, err := m.sim.Prices(in.Index)
		if err != nil {
			continue
		}
		series := lastN(history.Prices, sparkWidth)
		b.WriteString(fmt.Sprintf("%s%s %10s  x%-4d %s\n",
			cursor,
			name,
			game.FormatMoney(in.CurrentPrice),
			in.Shares,
			trendStyle(series).Render(sparkline(series)),
		))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func trendStyle(series []float64) lipgloss.Style {
	if len(series) < 2 {
		return dimStyle
	}
	switch first, last := series[0], series[len(series)-1]; {
	case last > first:
		return gainStyle
	case last < first:
		return lossStyle
	default:
		return dimStyle
	}
}
