package source

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/schedule"
)

const selectEntries = `
SELECT
    COALESCE(code, '')       AS code,
    COALESCE(name, '')       AS name,
    COALESCE(section, '')    AS section,
    COALESCE(room, '')       AS room,
    COALESCE(weekday, '')    AS weekday,
    COALESCE(start_time, '') AS start_time,
    COALESCE(end_time, '')   AS end_time
FROM schedule_entries
ORDER BY id`

// Postgres reads the schedule_entries table, it never writes
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logger}
}

func (s *Postgres) Name() string {
	return "postgres"
}

func (s *Postgres) Rows(ctx context.Context) ([]schedule.Row, error) {
	pgRows, err := s.pool.Query(ctx, selectEntries)
	if err != nil {
		return nil, unavailable("schedule_entries", err)
	}
	rows, err := pgx.CollectRows(pgRows, pgx.RowToStructByName[schedule.Row])
	if err != nil {
		return nil, unavailable("schedule_entries", err)
	}
	if s.logger != nil {
		s.logger.Log(ctx, logginghelpers.LevelReportIO, "read schedule table", "rows", len(rows))
	}
	return rows, nil
}
