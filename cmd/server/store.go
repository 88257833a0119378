package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/config"
	mongoinfra "github.com/VechkanovVV/webhook-repo/internal/infra/mongo"
	pginfra "github.com/VechkanovVV/webhook-repo/internal/infra/postgres"
	sqliteinfra "github.com/VechkanovVV/webhook-repo/internal/infra/sqlite"
	"github.com/VechkanovVV/webhook-repo/internal/storage"
	mongoRepo "github.com/VechkanovVV/webhook-repo/internal/storage/mongo"
	postgresRepo "github.com/VechkanovVV/webhook-repo/internal/storage/postgres"
	sqliteRepo "github.com/VechkanovVV/webhook-repo/internal/storage/sqlite"
)

// openStore открывает хранилище по cfg.DB.Driver.
// Возвращаемая функция освобождает соединения.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.EventRepository, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := sqliteinfra.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqliteRepo.NewEventRepository(db)
		if err != nil {
			_ = sqliteinfra.Close(db)
			return nil, nil, err
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.SQLite.Path))
		return repo, func() {
			if err := sqliteinfra.Close(db); err != nil {
				logger.Warn("closing sqlite failed", zap.Error(err))
			}
		}, nil

	case config.DriverMongo:
		client, err := mongoinfra.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		repo, err := mongoRepo.NewEventRepository(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		logger.Info("mongo store opened", zap.String("database", cfg.Mongo.Database))
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("disconnecting mongo failed", zap.Error(err))
			}
		}, nil

	case config.DriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pginfra.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("postgres store opened",
			zap.String("host", cfg.DB.Host),
			zap.Int("port", cfg.DB.Port),
			zap.String("dbname", cfg.DB.Name),
			zap.String("sslmode", string(cfg.DB.SSLmode)))
		return postgresRepo.NewEventRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}
