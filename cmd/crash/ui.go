package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"crashcourse/internal/cli"
	"crashcourse/internal/game"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderSnapshot(s game.Snapshot) {
	accent.Printf("\n== %s (day %d) ==\n", s.Scenario, s.Day+1)
	printInfo(s.Message)
	fmt.Println()
	fmt.Printf("Cash:         %s\n", game.FormatMoney(s.Cash))
	fmt.Printf("Total Value:  %s\n", s.TotalValueDisplay)
	fmt.Println()
	fmt.Printf("%-3s %-14s %10s %7s %12s %6s %6s\n", "#", "NAME", "PRICE", "SHARES", "VALUE", "BUYS", "SELLS")
	for _, in := range s.Instruments {
		fmt.Printf("%-3d %-14s %10s %7d %12s %6d %6d\n",
			in.Index,
			truncate(in.Name, 14),
			game.FormatMoney(in.CurrentPrice),
			in.Shares,
			game.FormatMoney(in.Value),
			in.Buys,
			in.Sells,
		)
	}
}

func renderTrade(res game.TradeResult, name string) {
	label := name
	if label == "" {
		label = fmt.Sprintf("instrument %d", res.Instrument)
	}
	switch res.Outcome {
	case game.TradeFilled:
		verb := "Bought"
		if res.Side == game.SideSell {
			verb = "Sold"
		}
		printSuccess(fmt.Sprintf("%s 1 share of %s at %s. Cash %s, holding %d.", verb, label, game.FormatMoney(res.Price), game.FormatMoney(res.Cash), res.Shares))
	case game.TradeDeclinedInsufficientFunds:
		printWarn(fmt.Sprintf("Not enough cash to buy %s at %s.", label, game.FormatMoney(res.Price)))
	case game.TradeDeclinedNoShares:
		printWarn(fmt.Sprintf("No shares of %s to sell.", label))
	default:
		printInfo(string(res.Outcome))
	}
}

func renderHistory(h game.PriceHistory, tail int) {
	accent.Printf("\n== %s (%d days) ==\n", h.Name, len(h.Prices)-1)
	fmt.Println(sparkline(lastN(h.Prices, 60)))
	start := 0
	if tail > 0 && len(h.Prices) > tail {
		start = len(h.Prices) - tail
	}
	for day := start; day < len(h.Prices); day++ {
		fmt.Printf("day %-5d %10s\n", day, game.FormatMoney(h.Prices[day]))
	}
}

func renderSummaryRows(rows []cli.InstrumentSummary) {
	fmt.Println()
	accent.Println("Series")
	fmt.Printf("%-14s %10s %10s %10s %10s %10s %9s %9s %10s\n", "NAME", "FIRST", "LAST", "MIN", "MAX", "MEAN", "STDDEV", "CHANGE", "DRAWDOWN")
	for _, r := range rows {
		s := r.Summary
		fmt.Printf("%-14s %10s %10s %10s %10s %10s %9.2f %9s %9.2f%%\n",
			truncate(r.Name, 14),
			game.FormatMoney(s.First),
			game.FormatMoney(s.Last),
			game.FormatMoney(s.Min),
			game.FormatMoney(s.Max),
			game.FormatMoney(s.Mean),
			s.StdDev,
			colorizePercent(s.ChangePct),
			s.MaxDrawdown,
		)
	}
}

func renderResult(r game.RunResult) {
	fmt.Println()
	accent.Println("Result")
	fmt.Printf("Run:          %s\n", r.ID)
	fmt.Printf("Days:         %d\n", r.Days)
	fmt.Printf("Total Value:  %s (%s)\n", game.FormatMoney(r.TotalValue), colorizePercent(r.ReturnPct))
	fmt.Printf("Trades:       %d buys, %d sells\n", r.Buys, r.Sells)
}

func renderScores(w io.Writer, rows []game.ScoreRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Scenario", "Days", "Total", "Return", "Buys", "Sells", "Finished"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range rows {
		table.Append([]string{
			fmt.Sprintf("%d", r.Rank),
			truncate(r.Scenario, 24),
			fmt.Sprintf("%d", r.Days),
			game.FormatMoney(r.TotalValue),
			fmt.Sprintf("%+.2f%%", r.ReturnPct),
			fmt.Sprintf("%d", r.Buys),
			fmt.Sprintf("%d", r.Sells),
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

func summarize(sim *game.Simulation) []cli.InstrumentSummary {
	snap := sim.Snapshot()
	out := make([]cli.InstrumentSummary, 0, len(snap.Instruments))
	for _, in := range snap.Instruments {
		h, err := sim.Prices(in.Index)
		if err != nil {
			continue
		}
		s, err := game.SummarizeSeries(h.Prices)
		if err != nil {
			fmt.Fprintf(os.Stderr, "summarize %s: %v\n", in.Name, err)
			continue
		}
		out = append(out, cli.InstrumentSummary{Instrument: in.Index, Name: in.Name, Summary: s})
	}
	return out
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline scales values between their own min and max.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func lastN(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
