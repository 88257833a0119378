// Package postgres реализует storage.EventRepository поверх PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

// EventRepository - репозиторий событий в Postgres.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository создаёт экземпляр *EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// Append вставляет одно событие.
func (r *EventRepository) Append(ctx context.Context, ev storage.Event) error {
	const query = `
		INSERT INTO events (request_id, author, action, from_branch, to_branch, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query, ev.RequestID, ev.Author, string(ev.Action), ev.FromBranch, ev.ToBranch, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting event failed: %w", err)
	}
	return nil
}

// Recent возвращает не больше limit последних событий.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]storage.Event, error) {
	const query = `
		SELECT request_id, author, action, from_branch, to_branch, "timestamp"
		FROM events
		ORDER BY "timestamp" DESC, id DESC
		LIMIT $1
	`

	events := make([]storage.Event, 0)
	if limit <= 0 {
		return events, nil
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev     storage.Event
			action string
		)
		if err := rows.Scan(&ev.RequestID, &ev.Author, &action, &ev.FromBranch, &ev.ToBranch, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning event failed: %w", err)
		}
		ev.Action = storage.Action(action)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading events failed: %w", err)
	}
	return events, nil
}

// Clear удаляет все события.
func (r *EventRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clearing events failed: %w", err)
	}
	return nil
}
