package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"

	infra "github.com/VechkanovVV/webhook-repo/internal/infra/mongo"
	"github.com/VechkanovVV/webhook-repo/internal/storage"
	"github.com/VechkanovVV/webhook-repo/internal/storage/storagetest"
)

type EventRepositorySuite struct {
	suite.Suite
	client *mongo.Client
	db     *mongo.Database
}

func TestEventRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if os.Getenv("INTEGRATION_MONGO_URI") == "" {
		t.Skip("INTEGRATION_MONGO_URI is not set")
	}
	suite.Run(t, new(EventRepositorySuite))
}

func (s *EventRepositorySuite) SetupSuite() {
	client, err := infra.Connect(context.Background(), os.Getenv("INTEGRATION_MONGO_URI"))
	s.Require().NoError(err)
	s.client = client
	s.db = client.Database("webhook_test_" + uuid.NewString()[:8])
}

func (s *EventRepositorySuite) TearDownSuite() {
	if s.client == nil {
		return
	}
	ctx := context.Background()
	_ = s.db.Drop(ctx)
	_ = s.client.Disconnect(ctx)
}

func (s *EventRepositorySuite) TestContract() {
	repo, err := NewEventRepository(context.Background(), s.db)
	s.Require().NoError(err)

	storagetest.Run(s.T(), func(t *testing.T) storage.EventRepository {
		return repo
	})
}
