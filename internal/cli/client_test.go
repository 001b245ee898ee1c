package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"crashcourse/internal/api"
	"crashcourse/internal/game"
	"crashcourse/internal/store"
)

func newTestClient(t *testing.T) (*Client, *game.Simulation) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sim := game.NewSimulation(game.DefaultScenario(),
		game.WithSource(&game.SequenceSource{Values: []float64{0.5}}),
		game.WithLogger(logger),
	)
	ts := httptest.NewServer(api.New(logger, sim, store.NewMemoryStore()).Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/"), sim
}

func TestClientRoundTrip(t *testing.T) {
	c, sim := newTestClient(t)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}
	sim.Step()

	snap, err := c.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if snap.Day != 1 || snap.ID != sim.ID() {
		t.Fatalf("snapshot = %+v", snap)
	}

	res, err := c.Buy(ctx, 1)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !res.Filled() || res.Shares != 1 {
		t.Fatalf("buy result = %+v", res)
	}
	res, err = c.Sell(ctx, 1)
	if err != nil || !res.Filled() {
		t.Fatalf("sell = %+v, %v", res, err)
	}
	res, err = c.PlaceOrder(ctx, game.SideSell, 1)
	if err != nil || res.Outcome != game.TradeDeclinedNoShares {
		t.Fatalf("order = %+v, %v", res, err)
	}

	h, err := c.Prices(ctx, 0)
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if len(h.Prices) != 2 {
		t.Fatalf("prices = %+v", h)
	}

	sum, err := c.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum.Instruments) != 3 || sum.Instruments[2].Summary.First != 80 {
		t.Fatalf("summary = %+v", sum)
	}

	rows, err := c.Scores(ctx, 5)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestClientStatusError(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Buy(context.Background(), 7)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", statusErr.Status)
	}
}
