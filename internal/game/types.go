package game

import "time"

type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

type TradeOutcome string

const (
	TradeFilled                    TradeOutcome = "filled"
	TradeDeclinedInsufficientFunds TradeOutcome = "declined_insufficient_funds"
	TradeDeclinedNoShares          TradeOutcome = "declined_no_shares"
)

// TradeResult reports what a single buy or sell did. Declines leave the
// portfolio untouched; Cash and Shares always hold the post-trade state.
type TradeResult struct {
	Side       TradeSide    `json:"side"`
	Instrument int          `json:"instrument"`
	Outcome    TradeOutcome `json:"outcome"`
	Price      float64      `json:"price"`
	Cash       float64      `json:"cash"`
	Shares     int          `json:"shares"`
}

func (r TradeResult) Filled() bool {
	return r.Outcome == TradeFilled
}

type Snapshot struct {
	ID                string           `json:"id"`
	Scenario          string           `json:"scenario"`
	Day               int              `json:"day"`
	Message           string           `json:"message"`
	Cash              float64          `json:"cash"`
	TotalValue        float64          `json:"total_value"`
	TotalValueDisplay string           `json:"total_value_display"`
	Instruments       []InstrumentView `json:"instruments"`
}

type InstrumentView struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Shares       int     `json:"shares"`
	Value        float64 `json:"value"`
	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
}

type PriceHistory struct {
	Instrument int       `json:"instrument"`
	Name       string    `json:"name"`
	Prices     []float64 `json:"prices"`
}

type RunResult struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	Days       int       `json:"days"`
	Cash       float64   `json:"cash"`
	TotalValue float64   `json:"total_value"`
	ReturnPct  float64   `json:"return_pct"`
	Buys       int       `json:"buys"`
	Sells      int       `json:"sells"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type ScoreRow struct {
	Rank int `json:"rank"`
	RunResult
}
