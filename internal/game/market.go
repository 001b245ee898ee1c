package game

import "fmt"

// Market holds one append-only price series per instrument. Series i has
// exactly Day()+1 entries once a day has been processed.
type Market struct {
	regimes RegimeTable
	day     int
	series  [][]float64
}

func NewMarket(instruments []Instrument, regimes RegimeTable) *Market {
	series := make([][]float64, len(instruments))
	for i, in := range instruments {
		series[i] = []float64{in.InitialPrice}
	}
	return &Market{regimes: regimes, series: series}
}

func (m *Market) Len() int {
	return len(m.series)
}

// Day is the last processed day.
func (m *Market) Day() int {
	return m.day
}

// Advance appends the price for day to every series. day must be exactly one
// past the last processed day.
func (m *Market) Advance(day int, src Source) error {
	if day < 1 || day != m.day+1 {
		return fmt.Errorf("%w: advance to day %d after day %d", ErrDayOutOfSequence, day, m.day)
	}
	regime := m.regimes.At(day)
	for i, s := range m.series {
		m.series[i] = append(s, NextPrice(s[day-1], regime, src))
	}
	m.day = day
	return nil
}

// PriceAt returns the price of instrument i on day, or 0 when the day has not
// been generated yet.
func (m *Market) PriceAt(i, day int) float64 {
	if i < 0 || i >= len(m.series) || day < 0 || day >= len(m.series[i]) {
		return 0
	}
	return m.series[i][day]
}

// Series returns a copy of instrument i's history.
func (m *Market) Series(i int) []float64 {
	if i < 0 || i >= len(m.series) {
		return nil
	}
	out := make([]float64, len(m.series[i]))
	copy(out, m.series[i])
	return out
}

// NextPrice applies one step of the regime's random walk to previous.
func NextPrice(previous float64, r Regime, src Source) float64 {
	drift := src.Float64() * r.MaxMagnitude
	return previous * (1 + float64(r.Sign)*drift)
}
