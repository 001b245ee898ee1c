package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crashcourse/internal/api"
	"crashcourse/internal/clock"
	"crashcourse/internal/config"
	"crashcourse/internal/game"
	"crashcourse/internal/scenario"
	"crashcourse/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sc, err := scenario.Resolve(cfg.Simulation.ScenarioPath)
	if err != nil {
		logger.Error("load scenario", "err", err)
		os.Exit(1)
	}

	results, backend, err := store.Open(ctx, cfg.Simulation.Results)
	if err != nil {
		logger.Error("open result store", "err", err)
		os.Exit(1)
	}
	defer results.Close()

	sim := game.NewSimulation(sc, game.WithSource(game.NewSource(cfg.Simulation.Seed)), game.WithLogger(logger))

	every := cfg.Simulation.TickEvery
	if every <= 0 {
		every = sc.TickEvery
	}
	clk := clock.New(every, sim, clock.WithLogger(logger))
	clk.Start(ctx)

	server := api.New(logger, sim, results)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("crash api listening",
		"addr", cfg.Addr,
		"scenario", sc.Name,
		"sim", sim.ID(),
		"results", backend,
		"tick_every", every.String(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := clk.Stop(stopCtx); err != nil {
		logger.Warn("stop clock", "err", err)
	}
	res := sim.Result()
	if err := results.Record(stopCtx, res); err != nil {
		logger.Error("record result", "err", err)
		return
	}
	logger.Info("run recorded", "sim", res.ID, "days", res.Days, "total_value", game.FormatMoney(res.TotalValue))
}
