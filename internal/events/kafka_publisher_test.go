package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMovement() ledger.Movement {
	return ledger.Movement{
		ID:       uuid.New(),
		At:       time.Date(2025, 11, 25, 22, 15, 0, 0, time.UTC),
		Role:     ledger.RoleBarman,
		ActorID:  1001,
		Action:   ledger.ActionConsume,
		Product:  "Квас",
		Quantity: decimal.RequireFromString("2.5"),
	}
}

func TestKafkaPublisher_PublishMovement(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	m := testMovement()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event MovementRecordedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.MovementID != m.ID.String() || event.Product != "Квас" || event.Quantity != "2.5" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	publisher := newKafkaPublisher(producer, "barkeeper.movements", zap.NewNop())
	require.NoError(t, publisher.PublishMovement(context.Background(), m))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_RetriesThenFails(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	for i := 0; i < 2; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}

	publisher := newKafkaPublisher(producer, "barkeeper.movements", zap.NewNop())
	publisher.maxRetries = 2
	publisher.baseDelay = time.Millisecond

	err := publisher.PublishMovement(context.Background(), testMovement())
	assert.Error(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_RecoversOnRetry(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndSucceed()

	publisher := newKafkaPublisher(producer, "barkeeper.movements", zap.NewNop())
	publisher.baseDelay = time.Millisecond

	assert.NoError(t, publisher.PublishMovement(context.Background(), testMovement()))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := newKafkaPublisher(producer, "barkeeper.movements", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishMovement(ctx, testMovement())
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, publisher.Close())
}

func TestNewMovementRecordedEvent(t *testing.T) {
	m := testMovement()
	event := NewMovementRecordedEvent(m)

	assert.Equal(t, "barman", event.ActorRole)
	assert.Equal(t, "consume", event.Action)
	assert.Equal(t, int64(1001), event.ActorID)
	assert.True(t, event.OccurredAt.Equal(m.At))
}

func TestNewPublisher_DisabledIsNop(t *testing.T) {
	publisher := NewPublisher(&config.Config{KafkaEnabled: false}, zap.NewNop())

	_, ok := publisher.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, publisher.PublishMovement(context.Background(), testMovement()))
}
