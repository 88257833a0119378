package storage

import "context"

// DefaultRecentLimit - сколько событий отдаётся читателю по умолчанию.
const DefaultRecentLimit = 50

// EventRepository - хранилище событий: только добавление, выборка последних и полная очистка.
type EventRepository interface {
	// Append сохраняет одно событие.
	Append(ctx context.Context, event Event) error
	// Recent возвращает не больше limit событий по убыванию timestamp.
	Recent(ctx context.Context, limit int) ([]Event, error)
	// Clear удаляет все события.
	Clear(ctx context.Context) error
}
