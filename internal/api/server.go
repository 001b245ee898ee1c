package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crashcourse/internal/game"
	"crashcourse/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes one live simulation over HTTP. Reads go straight to the
// simulation's accessors; buy and sell go through its commands.
type Server struct {
	log     *slog.Logger
	sim     *game.Simulation
	results store.ResultStore
	mux     *chi.Mux
}

func New(logger *slog.Logger, sim *game.Simulation, results store.ResultStore) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:     logger,
		sim:     sim,
		results: results,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
		r.Get("/instruments/{index}/prices", s.handlePrices)
		r.Post("/instruments/{index}/buy", s.handleTrade(game.SideBuy))
		r.Post("/instruments/{index}/sell", s.handleTrade(game.SideSell))
		r.Post("/orders", s.handleOrder)
		r.Get("/scores", s.handleScores)
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sim.Snapshot())
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	idx, err := instrumentParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.sim.Prices(idx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.sim.Snapshot()
	out := make([]map[string]any, 0, len(snap.Instruments))
	for _, in := range snap.Instruments {
		h, err := s.sim.Prices(in.Index)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		sum, err := game.SummarizeSeries(h.Prices)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, map[string]any{"instrument": in.Index, "name": in.Name, "summary": sum})
	}
	writeJSON(w, http.StatusOK, map[string]any{"day": snap.Day, "instruments": out})
}

func (s *Server) handleTrade(side game.TradeSide) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := instrumentParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.trade(w, side, idx)
	}
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Side       string `json:"side"`
		Instrument int    `json:"instrument"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side := game.TradeSide(strings.ToLower(strings.TrimSpace(in.Side)))
	if side != game.SideBuy && side != game.SideSell {
		writeDomainError(w, fmt.Errorf("%w: side must be buy or sell", game.ErrInvalidOrder))
		return
	}
	s.trade(w, side, in.Instrument)
}

// trade answers 200 for declined trades too; the outcome field carries the
// reason.
func (s *Server) trade(w http.ResponseWriter, side game.TradeSide, idx int) {
	var (
		res game.TradeResult
		err error
	)
	if side == game.SideBuy {
		res, err = s.sim.Buy(idx)
	} else {
		res, err = s.sim.Sell(idx)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info("trade", "side", string(side), "instrument", idx, "outcome", string(res.Outcome), "day", s.sim.Day())
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusOK, map[string]any{"rows": []game.ScoreRow{}})
		return
	}
	limit := store.DefaultLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	rows, err := s.results.Top(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func instrumentParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("instrument index must be an integer, got %q", raw)
	}
	return idx, nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownInstrument):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidOrder):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateRun):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
