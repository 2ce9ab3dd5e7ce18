package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ThresholdRegistry manages per-product reorder thresholds.
type ThresholdRegistry struct {
	store   ThresholdStore
	catalog ProductLister
	logger  *zap.Logger
}

func NewThresholdRegistry(store ThresholdStore, catalog ProductLister, logger *zap.Logger) *ThresholdRegistry {
	return &ThresholdRegistry{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// Thresholds returns every threshold row in row order, first provisioning
// 0/0 rows for catalog products that have none.
func (r *ThresholdRegistry) Thresholds(ctx context.Context) ([]Threshold, error) {
	added, err := r.store.EnsureThresholds(ctx, r.catalog.Products())
	if err != nil {
		return nil, fmt.Errorf("failed to provision thresholds: %w", err)
	}
	if added > 0 {
		r.logger.Info("Provisioned missing thresholds", zap.Int("count", added))
	}

	rows, err := r.store.ListThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list thresholds: %w", err)
	}
	return rows, nil
}

// Get returns the thresholds of one product; products without a row read as 0/0.
func (r *ThresholdRegistry) Get(ctx context.Context, product string) (Threshold, error) {
	t, err := r.store.GetThreshold(ctx, product)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Threshold{Product: product}, nil
	}
	return Threshold{}, fmt.Errorf("failed to get threshold: %w", err)
}

// Set upserts the threshold of one mode. A new row gets 0 for the other mode.
func (r *ThresholdRegistry) Set(ctx context.Context, product string, mode Mode, value decimal.Decimal) error {
	product = strings.TrimSpace(product)
	if product == "" {
		return ErrEmptyProduct
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if value.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, value)
	}

	if err := r.store.UpsertThreshold(ctx, product, mode, value); err != nil {
		return fmt.Errorf("failed to set threshold: %w", err)
	}

	r.logger.Info("Threshold set",
		zap.String("product", product),
		zap.String("mode", string(mode)),
		zap.String("value", value.String()),
	)
	return nil
}
