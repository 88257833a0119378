package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	infra "github.com/VechkanovVV/webhook-repo/internal/infra/postgres"
	"github.com/VechkanovVV/webhook-repo/internal/storage"
	"github.com/VechkanovVV/webhook-repo/internal/storage/storagetest"
)

type EventRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
}

func TestEventRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if os.Getenv("INTEGRATION_POSTGRES_DSN") == "" {
		t.Skip("INTEGRATION_POSTGRES_DSN is not set")
	}
	suite.Run(t, new(EventRepositorySuite))
}

func (s *EventRepositorySuite) SetupSuite() {
	ctx := context.Background()

	pool, err := infra.NewPool(ctx, os.Getenv("INTEGRATION_POSTGRES_DSN"))
	s.Require().NoError(err)
	s.Require().NoError(infra.EnsureSchema(ctx, pool))
	s.pool = pool
}

func (s *EventRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		_, _ = s.pool.Exec(context.Background(), "DELETE FROM events")
		s.pool.Close()
	}
}

func (s *EventRepositorySuite) TestContract() {
	storagetest.Run(s.T(), func(t *testing.T) storage.EventRepository {
		return NewEventRepository(s.pool)
	})
}

func (s *EventRepositorySuite) TestSchemaIsIdempotent() {
	s.Require().NoError(infra.EnsureSchema(context.Background(), s.pool))
}

func (s *EventRepositorySuite) TestRejectsUnknownAction() {
	repo := NewEventRepository(s.pool)
	err := repo.Append(context.Background(), storage.Event{
		RequestID: "x",
		Action:    storage.Action("DELETE"),
		Timestamp: "2021-04-01T10:00:00+00:00",
	})
	s.Error(err)
}
