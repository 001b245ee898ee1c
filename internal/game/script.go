package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Order is a scripted trade placed once Day's prices exist.
type Order struct {
	Day        int
	Side       TradeSide
	Instrument int
}

// ParseOrder reads "DAY:SIDE:INDEX", e.g. "160:buy:0".
func ParseOrder(raw string) (Order, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 {
		return Order{}, fmt.Errorf("%w: %q, want DAY:buy|sell:INDEX", ErrInvalidOrder, raw)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 0 {
		return Order{}, fmt.Errorf("%w: bad day in %q", ErrInvalidOrder, raw)
	}
	side := TradeSide(strings.ToLower(strings.TrimSpace(parts[1])))
	if side != SideBuy && side != SideSell {
		return Order{}, fmt.Errorf("%w: side must be buy or sell in %q", ErrInvalidOrder, raw)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || idx < 0 {
		return Order{}, fmt.Errorf("%w: bad instrument in %q", ErrInvalidOrder, raw)
	}
	return Order{Day: day, Side: side, Instrument: idx}, nil
}

// Run steps the simulation until it reaches day, applying orders as their
// day comes up. Orders for days already passed are applied immediately and
// orders after day are dropped. Declined trades are returned alongside filled
// ones.
func (s *Simulation) Run(day int, orders []Order) ([]TradeResult, error) {
	pending := make([]Order, len(orders))
	copy(pending, orders)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Day < pending[j].Day })

	var out []TradeResult
	current := s.Day()
	for {
		for len(pending) > 0 && pending[0].Day <= current {
			o := pending[0]
			pending = pending[1:]
			res, err := s.trade(o.Side, o.Instrument)
			if err != nil {
				return out, err
			}
			out = append(out, res)
		}
		if current >= day {
			return out, nil
		}
		current = s.Step()
	}
}
