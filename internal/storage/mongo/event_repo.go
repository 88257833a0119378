// Package mongo реализует storage.EventRepository поверх MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

// CollectionName - коллекция с событиями.
const CollectionName = "events"

// EventRepository - репозиторий событий в MongoDB.
type EventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository создаёт индекс по timestamp и возвращает репозиторий.
func NewEventRepository(ctx context.Context, db *mongo.Database) (*EventRepository, error) {
	coll := db.Collection(CollectionName)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating index failed: %w", err)
	}

	return &EventRepository{coll: coll}, nil
}

// Append вставляет одно событие.
func (r *EventRepository) Append(ctx context.Context, ev storage.Event) error {
	if _, err := r.coll.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("inserting event failed: %w", err)
	}
	return nil
}

// Recent возвращает не больше limit последних событий, без _id.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	if limit <= 0 {
		return events, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying events failed: %w", err)
	}

	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("reading events failed: %w", err)
	}
	return events, nil
}

// Clear удаляет все события.
func (r *EventRepository) Clear(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clearing events failed: %w", err)
	}
	return nil
}
