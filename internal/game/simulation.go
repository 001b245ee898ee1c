package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulation ties the day counter, the market and the portfolio together.
// Step is the only way time moves; Buy and Sell trade at the current day's
// price. All methods are safe for concurrent use.
type Simulation struct {
	id        string
	scenario  Scenario
	log       *slog.Logger
	startedAt time.Time

	mu        sync.Mutex
	day       int
	market    *Market
	portfolio *Portfolio
	rand      Source
}

type Option func(*Simulation)

func WithSource(src Source) Option {
	return func(s *Simulation) {
		if src != nil {
			s.rand = src
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		if logger != nil {
			s.log = logger
		}
	}
}

func NewSimulation(sc Scenario, opts ...Option) *Simulation {
	s := &Simulation{
		id:        uuid.NewString(),
		scenario:  sc,
		log:       slog.Default(),
		startedAt: time.Now().UTC(),
		market:    NewMarket(sc.Instruments, sc.Regimes),
		portfolio: NewPortfolio(sc.StartingCash, len(sc.Instruments)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = NewSource(0)
	}
	return s
}

func (s *Simulation) ID() string {
	return s.id
}

func (s *Simulation) Scenario() Scenario {
	return s.scenario
}

// Step advances one day, extends every price series and returns the new day.
func (s *Simulation) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.day + 1
	if err := s.market.Advance(next, s.rand); err != nil {
		s.log.Error("advance market", "sim", s.id, "day", next, "err", err)
		return s.day
	}
	s.day = next
	s.log.Debug("day advanced", "sim", s.id, "day", s.day)
	return s.day
}

func (s *Simulation) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

func (s *Simulation) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario.Narrative.At(s.day)
}

func (s *Simulation) Regime() Regime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario.Regimes.At(s.day)
}

func (s *Simulation) Cash() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.Cash
}

func (s *Simulation) Shares(i int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkInstrument(i); err != nil {
		return 0, err
	}
	return s.portfolio.Shares[i], nil
}

func (s *Simulation) CurrentPrice(i int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkInstrument(i); err != nil {
		return 0, err
	}
	return s.market.PriceAt(i, s.day), nil
}

func (s *Simulation) Prices(i int) (PriceHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkInstrument(i); err != nil {
		return PriceHistory{}, err
	}
	return PriceHistory{
		Instrument: i,
		Name:       s.scenario.Instruments[i].Name,
		Prices:     s.market.Series(i),
	}, nil
}

func (s *Simulation) TotalValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.TotalValue(s.currentPrices())
}

func (s *Simulation) Buy(i int) (TradeResult, error) {
	return s.trade(SideBuy, i)
}

func (s *Simulation) Sell(i int) (TradeResult, error) {
	return s.trade(SideSell, i)
}

func (s *Simulation) trade(side TradeSide, i int) (TradeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkInstrument(i); err != nil {
		return TradeResult{}, err
	}
	price := s.market.PriceAt(i, s.day)
	var out TradeResult
	switch side {
	case SideBuy:
		out = s.portfolio.Buy(i, price)
	case SideSell:
		out = s.portfolio.Sell(i, price)
	default:
		return out, fmt.Errorf("%w: side must be buy or sell", ErrInvalidOrder)
	}
	s.log.Debug("trade", "sim", s.id, "day", s.day, "side", string(side), "instrument", i, "outcome", string(out.Outcome), "price", price)
	return out, nil
}

func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := s.currentPrices()
	total := s.portfolio.TotalValue(prices)
	out := Snapshot{
		ID:                s.id,
		Scenario:          s.scenario.Name,
		Day:               s.day,
		Message:           s.scenario.Narrative.At(s.day),
		Cash:              s.portfolio.Cash,
		TotalValue:        total,
		TotalValueDisplay: FormatMoney(total),
		Instruments:       make([]InstrumentView, 0, len(prices)),
	}
	for i, price := range prices {
		shares := s.portfolio.Shares[i]
		out.Instruments = append(out.Instruments, InstrumentView{
			Index:        i,
			Name:         s.scenario.Instruments[i].Name,
			CurrentPrice: price,
			Shares:       shares,
			Value:        float64(shares) * price,
			Buys:         s.portfolio.Buys[i],
			Sells:        s.portfolio.Sells[i],
		})
	}
	return out
}

// Result summarises the run so far for the result store.
func (s *Simulation) Result() RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.portfolio.TotalValue(s.currentPrices())
	buys, sells := s.portfolio.TradeCounts()
	ret := 0.0
	if s.scenario.StartingCash > 0 {
		ret = (total - s.scenario.StartingCash) / s.scenario.StartingCash * 100
	}
	return RunResult{
		ID:         s.id,
		Scenario:   s.scenario.Name,
		Days:       s.day,
		Cash:       s.portfolio.Cash,
		TotalValue: total,
		ReturnPct:  RoundCents(ret),
		Buys:       buys,
		Sells:      sells,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now().UTC(),
	}
}

func (s *Simulation) currentPrices() []float64 {
	out := make([]float64, s.market.Len())
	for i := range out {
		out[i] = s.market.PriceAt(i, s.day)
	}
	return out
}

func (s *Simulation) checkInstrument(i int) error {
	if i < 0 || i >= s.market.Len() {
		return fmt.Errorf("%w: %d", ErrUnknownInstrument, i)
	}
	return nil
}
