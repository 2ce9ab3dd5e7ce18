package events

import (
	"context"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"go.uber.org/zap"
)

const EventTypeMovementRecorded = "MovementRecorded"

// Publisher forwards recorded movements downstream.
type Publisher interface {
	PublishMovement(ctx context.Context, m ledger.Movement) error
	Close() error
}

// MovementRecordedEvent is the wire form of a ledger movement.
type MovementRecordedEvent struct {
	MovementID string    `json:"movement_id"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorRole  string    `json:"actor_role"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	Product    string    `json:"product"`
	Quantity   string    `json:"quantity"`
}

func NewMovementRecordedEvent(m ledger.Movement) MovementRecordedEvent {
	return MovementRecordedEvent{
		MovementID: m.ID.String(),
		OccurredAt: m.At.UTC(),
		ActorRole:  string(m.Role),
		ActorID:    m.ActorID,
		Action:     string(m.Action),
		Product:    m.Product,
		Quantity:   m.Quantity.String(),
	}
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishMovement(context.Context, ledger.Movement) error { return nil }
func (NopPublisher) Close() error                                          { return nil }

// NewPublisher returns a Kafka publisher when enabled, falling back to
// NopPublisher if the producer cannot be created.
func NewPublisher(cfg *config.Config, logger *zap.Logger) Publisher {
	if !cfg.KafkaEnabled {
		logger.Info("Kafka disabled, movement events will not be published")
		return NopPublisher{}
	}

	publisher, err := NewKafkaPublisher(cfg, logger)
	if err != nil {
		logger.Warn("Failed to create Kafka publisher, movement events will not be published",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return NopPublisher{}
	}
	logger.Info("Kafka publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopicMovements),
	)
	return publisher
}
