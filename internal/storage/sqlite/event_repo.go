// Package sqlite реализует storage.EventRepository поверх встроенной SQLite (gorm).
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

type eventModel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	RequestID  string `gorm:"not null"`
	Author     string `gorm:"not null"`
	Action     string `gorm:"not null"`
	FromBranch string `gorm:"not null"`
	ToBranch   string `gorm:"not null"`
	Timestamp  string `gorm:"not null;index:idx_events_timestamp"`
}

func (eventModel) TableName() string {
	return "events"
}

func fromEvent(ev storage.Event) eventModel {
	return eventModel{
		RequestID:  ev.RequestID,
		Author:     ev.Author,
		Action:     string(ev.Action),
		FromBranch: ev.FromBranch,
		ToBranch:   ev.ToBranch,
		Timestamp:  ev.Timestamp,
	}
}

func (m eventModel) toEvent() storage.Event {
	return storage.Event{
		RequestID:  m.RequestID,
		Author:     m.Author,
		Action:     storage.Action(m.Action),
		FromBranch: m.FromBranch,
		ToBranch:   m.ToBranch,
		Timestamp:  m.Timestamp,
	}
}

// EventRepository - репозиторий событий в SQLite.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository мигрирует таблицу events и возвращает репозиторий.
func NewEventRepository(db *gorm.DB) (*EventRepository, error) {
	if err := db.AutoMigrate(&eventModel{}); err != nil {
		return nil, fmt.Errorf("migrating events failed: %w", err)
	}
	return &EventRepository{db: db}, nil
}

// Append вставляет одно событие.
func (r *EventRepository) Append(ctx context.Context, ev storage.Event) error {
	m := fromEvent(ev)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("inserting event failed: %w", err)
	}
	return nil
}

// Recent возвращает не больше limit последних событий.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	if limit <= 0 {
		return events, nil
	}

	var list []eventModel
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("querying events failed: %w", err)
	}

	for _, m := range list {
		events = append(events, m.toEvent())
	}
	return events, nil
}

// Clear удаляет все события.
func (r *EventRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&eventModel{}).Error; err != nil {
		return fmt.Errorf("clearing events failed: %w", err)
	}
	return nil
}
