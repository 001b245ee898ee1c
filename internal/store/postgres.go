package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crashcourse/internal/game"
)

// PostgresStore keeps results in crash.runs.
type PostgresStore struct {
	db *pgxpool.Pool
}

var _ ResultStore = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS crash;
		CREATE TABLE IF NOT EXISTS crash.runs (
			id          uuid PRIMARY KEY,
			scenario    text NOT NULL,
			days        integer NOT NULL,
			cash        double precision NOT NULL,
			total_value double precision NOT NULL,
			return_pct  double precision NOT NULL,
			buys        integer NOT NULL,
			sells       integer NOT NULL,
			started_at  timestamptz NOT NULL,
			finished_at timestamptz NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_total_value_idx ON crash.runs (total_value DESC, finished_at ASC);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, res game.RunResult) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO crash.runs (id, scenario, days, cash, total_value, return_pct, buys, sells, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, res.ID, res.Scenario, res.Days, res.Cash, res.TotalValue, res.ReturnPct, res.Buys, res.Sells, res.StartedAt, res.FinishedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, res.ID)
	}
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Top(ctx context.Context, limit int) ([]game.ScoreRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, scenario, days, cash, total_value, return_pct, buys, sells, started_at, finished_at
		FROM crash.runs
		ORDER BY total_value DESC, finished_at ASC
		LIMIT $1
	`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]game.ScoreRow, 0, normalizeLimit(limit))
	for rows.Next() {
		var r game.RunResult
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Days, &r.Cash, &r.TotalValue, &r.ReturnPct, &r.Buys, &r.Sells, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, game.ScoreRow{Rank: len(out) + 1, RunResult: r})
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
