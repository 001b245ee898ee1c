// Package store keeps the results of finished simulation runs and ranks them.
package store

import (
	"context"
	"errors"
	"sort"

	"crashcourse/internal/game"
)

const DefaultLimit = 10

var ErrDuplicateRun = errors.New("run already recorded")

// ResultStore records finished runs and returns the best ones first.
type ResultStore interface {
	Record(ctx context.Context, res game.RunResult) error
	Top(ctx context.Context, limit int) ([]game.ScoreRow, error)
	Close() error
}

// rank orders runs by total value, earliest finish first on ties, and
// returns at most limit rows numbered from 1.
func rank(runs []game.RunResult, limit int) []game.ScoreRow {
	sorted := make([]game.RunResult, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalValue != sorted[j].TotalValue {
			return sorted[i].TotalValue > sorted[j].TotalValue
		}
		return sorted[i].FinishedAt.Before(sorted[j].FinishedAt)
	})
	limit = normalizeLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]game.ScoreRow, 0, len(sorted))
	for i, r := range sorted {
		out = append(out, game.ScoreRow{Rank: i + 1, RunResult: r})
	}
	return out
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > 100 {
		return 100
	}
	return limit
}
