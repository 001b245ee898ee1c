package game

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

type SeriesSummary struct {
	First       float64 `json:"first"`
	Last        float64 `json:"last"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	ChangePct   float64 `json:"change_pct"`
	MaxDrawdown float64 `json:"max_drawdown_pct"`
}

func SummarizeSeries(series []float64) (SeriesSummary, error) {
	var out SeriesSummary
	if len(series) == 0 {
		return out, fmt.Errorf("summarize: empty series")
	}
	var err error
	if out.Min, err = stats.Min(series); err != nil {
		return out, fmt.Errorf("summarize min: %w", err)
	}
	if out.Max, err = stats.Max(series); err != nil {
		return out, fmt.Errorf("summarize max: %w", err)
	}
	if out.Mean, err = stats.Mean(series); err != nil {
		return out, fmt.Errorf("summarize mean: %w", err)
	}
	if out.StdDev, err = stats.StandardDeviation(series); err != nil {
		return out, fmt.Errorf("summarize std dev: %w", err)
	}
	out.First = series[0]
	out.Last = series[len(series)-1]
	if out.First != 0 {
		out.ChangePct = (out.Last - out.First) / out.First * 100
	}
	out.MaxDrawdown = maxDrawdownPct(series)
	return out, nil
}

// maxDrawdownPct is the largest peak-to-trough fall, as a positive percentage.
func maxDrawdownPct(series []float64) float64 {
	peak := series[0]
	worst := 0.0
	for _, p := range series {
		if p > peak {
			peak = p
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return worst
}
