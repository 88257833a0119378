package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema - таблица событий. id нужен только для стабильного порядка при равных timestamp.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          BIGSERIAL PRIMARY KEY,
		request_id  TEXT NOT NULL,
		author      TEXT NOT NULL,
		action      TEXT NOT NULL CHECK (action IN ('PUSH', 'PULL_REQUEST', 'MERGE')),
		from_branch TEXT NOT NULL,
		to_branch   TEXT NOT NULL,
		"timestamp" TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS events_timestamp_idx ON events ("timestamp" DESC, id DESC)`,
}

// EnsureSchema создаёт таблицу и индекс, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema failed: %w", err)
		}
	}
	return nil
}
