package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"crashcourse/internal/clock"
	cl "crashcourse/internal/cli"
	"crashcourse/internal/config"
	"crashcourse/internal/game"
	"crashcourse/internal/scenario"
	"crashcourse/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL
	sim := cfg.Simulation
	verbose := false

	root := &cobra.Command{
		Use:          "crash",
		Short:        "Trade through the 2008 market crash",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&sim.ScenarioPath, "scenario", sim.ScenarioPath, "scenario YAML file (default: built-in 2008 scenario)")
	root.PersistentFlags().StringVar(&sim.Results, "results", sim.Results, "result store: memory, file:PATH or a postgres:// URL")

	root.AddCommand(
		newPlayCmd(&sim, &verbose),
		newRunCmd(&sim, &verbose),
		newScoresCmd(&sim),
		newRemoteCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSimulation(cfg config.SimulationConfig, logger *slog.Logger) (*game.Simulation, error) {
	sc, err := scenario.Resolve(cfg.ScenarioPath)
	if err != nil {
		return nil, err
	}
	return game.NewSimulation(sc, game.WithSource(game.NewSource(cfg.Seed)), game.WithLogger(logger)), nil
}

func tickInterval(cfg config.SimulationConfig, sc game.Scenario) time.Duration {
	if cfg.TickEvery > 0 {
		return cfg.TickEvery
	}
	return sc.TickEvery
}

func recordResult(ctx context.Context, spec string, res game.RunResult, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	results, backend, err := store.Open(ctx, spec)
	if err != nil {
		logger.Warn("open result store", "err", err)
		printWarn("Result not saved: " + err.Error())
		return
	}
	defer results.Close()
	if err := results.Record(ctx, res); err != nil {
		logger.Warn("record result", "backend", backend, "err", err)
		printWarn("Result not saved: " + err.Error())
		return
	}
	logger.Debug("result recorded", "backend", backend, "run", res.ID)
}

func newPlayCmd(cfg *config.SimulationConfig, verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play live: one simulated day per tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("play needs an interactive terminal; use `crash run` for headless runs")
			}
			logger := newLogger(*verbose)
			sim, err := newSimulation(*cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p := tea.NewProgram(newPlayModel(sim), tea.WithAltScreen(), tea.WithContext(ctx))
			clk := clock.New(tickInterval(*cfg, sim.Scenario()), sim,
				clock.WithLogger(logger),
				clock.WithObserver(func(day int) { p.Send(tickMsg{day: day}) }),
			)
			clk.Start(ctx)

			_, runErr := p.Run()
			cancel()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := clk.Stop(stopCtx); err != nil {
				logger.Warn("stop clock", "err", err)
			}
			if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
				return runErr
			}

			res := sim.Result()
			recordResult(context.Background(), cfg.Results, res, logger)
			renderSnapshot(sim.Snapshot())
			renderResult(res)
			return nil
		},
	}
}

func newRunCmd(cfg *config.SimulationConfig, verbose *bool) *cobra.Command {
	var (
		days   int
		seed   int64
		orders []string
		save   bool
	)
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Fast-forward a simulation without the clock",
		Example: "  crash run --days 300 --seed 42 --order 0:buy:0 --order 160:buy:2 --order 280:sell:2",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must be >= 0")
			}
			parsed, err := parseOrders(orders)
			if err != nil {
				return err
			}
			runCfg := *cfg
			if cmd.Flags().Changed("seed") {
				runCfg.Seed = seed
			}
			logger := newLogger(*verbose)
			sim, err := newSimulation(runCfg, logger)
			if err != nil {
				return err
			}

			trades, err := sim.Run(days, parsed)
			if err != nil {
				return err
			}
			names := sim.Scenario().Instruments
			for _, t := range trades {
				name := ""
				if t.Instrument < len(names) {
					name = names[t.Instrument].Name
				}
				renderTrade(t, name)
			}

			renderSnapshot(sim.Snapshot())
			renderSummaryRows(summarize(sim))
			res := sim.Result()
			renderResult(res)
			if save {
				recordResult(cmd.Context(), runCfg.Results, res, logger)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 300, "number of days to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = wall clock)")
	cmd.Flags().StringArrayVar(&orders, "order", nil, "scripted trade DAY:buy|sell:INDEX (repeatable)")
	cmd.Flags().BoolVar(&save, "save", true, "record the result in the result store")
	return cmd
}

func parseOrders(raw []string) ([]game.Order, error) {
	out := make([]game.Order, 0, len(raw))
	for _, r := range raw {
		o, err := game.ParseOrder(r)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func newScoresCmd(cfg *config.SimulationConfig) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the best recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			results, _, err := store.Open(ctx, cfg.Results)
			if err != nil {
				return err
			}
			defer results.Close()
			rows, err := results.Top(ctx, limit)
			if err != nil {
				return err
			}
			renderScores(os.Stdout, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.DefaultLimit, "number of rows")
	return cmd
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newRemoteCmd(apiBase *string) *cobra.Command {
	remote := &cobra.Command{
		Use:   "remote",
		Short: "Drive a simulation running in crash-api",
	}
	remote.PersistentFlags().StringVar(apiBase, "api", *apiBase, "crash-api base URL")

	remote.AddCommand(&cobra.Command{
		Use:   "state",
		Short: "Show the live portfolio and prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderSnapshot(snap)
			return nil
		},
	})

	remote.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show series statistics for every stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			sum, err := newClient(apiBase).Summary(ctx)
			if err != nil {
				return err
			}
			accent.Printf("\n== Day %d ==\n", sum.Day+1)
			renderSummaryRows(sum.Instruments)
			return nil
		},
	})

	var tail int
	prices := &cobra.Command{
		Use:   "prices INDEX",
		Short: "Show the price history of one stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			h, err := newClient(apiBase).Prices(ctx, idx)
			if err != nil {
				return err
			}
			renderHistory(h, tail)
			return nil
		},
	}
	prices.Flags().IntVar(&tail, "tail", 10, "number of most recent days to list (0 = all)")
	remote.AddCommand(prices)

	remote.AddCommand(
		newRemoteTradeCmd(apiBase, game.SideBuy),
		newRemoteTradeCmd(apiBase, game.SideSell),
	)

	var limit int
	scores := &cobra.Command{
		Use:   "scores",
		Short: "Show the server's leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(apiBase).Scores(ctx, limit)
			if err != nil {
				return err
			}
			renderScores(os.Stdout, rows)
			return nil
		},
	}
	scores.Flags().IntVar(&limit, "limit", store.DefaultLimit, "number of rows")
	remote.AddCommand(scores)

	return remote
}

func newRemoteTradeCmd(apiBase *string, side game.TradeSide) *cobra.Command {
	verb := "Buy"
	if side == game.SideSell {
		verb = "Sell"
	}
	return &cobra.Command{
		Use:   string(side) + " INDEX",
		Short: verb + " one share at the current price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := indexArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			var res game.TradeResult
			if side == game.SideBuy {
				res, err = client.Buy(ctx, idx)
			} else {
				res, err = client.Sell(ctx, idx)
			}
			if err != nil {
				return err
			}
			renderTrade(res, "")
			return nil
		},
	}
}

func indexArg(args []string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("INDEX must be a non-negative integer, got %q", args[0])
	}
	return idx, nil
}
