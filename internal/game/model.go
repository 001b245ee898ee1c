package game

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StartingCash = 1000.0
	TickEvery    = time.Second

	InstrumentCount = 3
)

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrDayOutOfSequence  = errors.New("day out of sequence")
	ErrInvalidScenario   = errors.New("invalid scenario")
	ErrInvalidOrder      = errors.New("invalid order")
)

// RoundCents rounds v to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders v with exactly two decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
