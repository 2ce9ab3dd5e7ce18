package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MovementStore appends movements and applies their balance effect.
// AppendMovement must write the log entry and the balance row as one unit
// and return the resulting balance.
type MovementStore interface {
	AppendMovement(ctx context.Context, m Movement) (decimal.Decimal, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
	CountMovements(ctx context.Context) (int, error)
}

type BalanceStore interface {
	GetBalance(ctx context.Context, product string) (decimal.Decimal, error)
	ListBalances(ctx context.Context) ([]Balance, error)
}

type ThresholdStore interface {
	GetThreshold(ctx context.Context, product string) (Threshold, error)
	UpsertThreshold(ctx context.Context, product string, mode Mode, value decimal.Decimal) error
	EnsureThresholds(ctx context.Context, products []string) (int, error)
	ListThresholds(ctx context.Context) ([]Threshold, error)
}

type ExpiryStore interface {
	AddExpiry(ctx context.Context, lot ExpiryLot) (ExpiryLot, error)
	ListExpiry(ctx context.Context) ([]ExpiryLot, error)
	ListExpiryOn(ctx context.Context, date time.Time) ([]ExpiryLot, error)
}

// MovementPublisher forwards recorded movements to downstream consumers.
type MovementPublisher interface {
	PublishMovement(ctx context.Context, m Movement) error
}

// ProductLister supplies the current catalog product list.
type ProductLister interface {
	Products() []string
}
