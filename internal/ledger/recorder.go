package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recorder appends movements to the ledger.
type Recorder struct {
	store     MovementStore
	publisher MovementPublisher
	metrics   *metrics.Registry
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecorder creates a recorder. publisher and m may be nil.
func NewRecorder(store MovementStore, publisher MovementPublisher, m *metrics.Registry, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Record validates and appends one movement, returning the new balance.
// A failed write is returned to the caller; a failed publish is only logged.
func (r *Recorder) Record(ctx context.Context, role Role, actorID int64, product string, action Action, qty decimal.Decimal) (Applied, error) {
	product = strings.TrimSpace(product)
	switch {
	case !role.Valid():
		return Applied{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	case !action.Valid():
		return Applied{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	case product == "":
		return Applied{}, ErrEmptyProduct
	case qty.IsNegative():
		return Applied{}, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}

	m := Movement{
		ID:       uuid.New(),
		At:       r.now().UTC().Truncate(time.Second),
		Role:     role,
		ActorID:  actorID,
		Action:   action,
		Product:  product,
		Quantity: qty,
	}

	balance, err := r.store.AppendMovement(ctx, m)
	if err != nil {
		r.metrics.MovementFailed(string(action))
		return Applied{}, fmt.Errorf("failed to record movement: %w", err)
	}
	r.metrics.MovementRecorded(string(action))

	r.logger.Info("Movement recorded",
		zap.String("movement_id", m.ID.String()),
		zap.String("action", string(action)),
		zap.String("role", string(role)),
		zap.Int64("actor_id", actorID),
		zap.String("product", product),
		zap.String("quantity", qty.String()),
		zap.String("balance", balance.String()),
	)
	if balance.IsNegative() {
		r.logger.Warn("Balance went negative, likely a data-entry error",
			zap.String("product", product),
			zap.String("balance", balance.String()),
		)
	}

	if r.publisher != nil {
		if err := r.publisher.PublishMovement(ctx, m); err != nil {
			// The ledger is the source of truth; the stream is best-effort
			r.metrics.PublishFailed()
			r.logger.Warn("Failed to publish movement event",
				zap.String("movement_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}

	return Applied{Movement: m, Balance: balance}, nil
}
