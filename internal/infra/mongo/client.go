// Package mongo создаёт клиента MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// ConnectTimeout - таймаут установки соединения.
	ConnectTimeout = 10 * time.Second
	// MaxPoolSize - максимальное кол-во соединений в pool.
	MaxPoolSize = uint64(20)
)

// Connect подключается к MongoDB по uri и проверяет соединение ping'ом.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(ConnectTimeout).
		SetMaxPoolSize(MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return client, nil
}
