package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultHorizonDays is how far ahead the daily sweep looks.
const DefaultHorizonDays = 30

// ExpiryTracker records expiry lots and finds the ones due at the horizon.
type ExpiryTracker struct {
	store  ExpiryStore
	logger *zap.Logger
}

func NewExpiryTracker(store ExpiryStore, logger *zap.Logger) *ExpiryTracker {
	return &ExpiryTracker{store: store, logger: logger}
}

// Record adds qty to the (product, date) lot, creating it if needed.
func (t *ExpiryTracker) Record(ctx context.Context, product string, date time.Time, qty decimal.Decimal) (ExpiryLot, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return ExpiryLot{}, ErrEmptyProduct
	}
	if qty.IsNegative() {
		return ExpiryLot{}, fmt.Errorf("%w: %s", ErrInvalidQuantity, qty)
	}

	lot, err := t.store.AddExpiry(ctx, ExpiryLot{Product: product, Date: Day(date), Quantity: qty})
	if err != nil {
		return ExpiryLot{}, fmt.Errorf("failed to record expiry: %w", err)
	}

	t.logger.Info("Expiry lot recorded",
		zap.String("product", product),
		zap.String("date", lot.Date.Format(time.DateOnly)),
		zap.String("added", qty.String()),
		zap.String("lot_quantity", lot.Quantity.String()),
	)
	return lot, nil
}

// Sweep returns lots expiring exactly horizonDays after today. A lot is
// therefore reported on a single calendar day only.
func (t *ExpiryTracker) Sweep(ctx context.Context, today time.Time, horizonDays int) ([]ExpiryLot, error) {
	due := Day(today).AddDate(0, 0, horizonDays)
	lots, err := t.store.ListExpiryOn(ctx, due)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep expiry lots: %w", err)
	}
	return lots, nil
}

func (t *ExpiryTracker) Lots(ctx context.Context) ([]ExpiryLot, error) {
	lots, err := t.store.ListExpiry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiry lots: %w", err)
	}
	return lots, nil
}
