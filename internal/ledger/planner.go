package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ThresholdSource lists threshold rows in row order without provisioning.
type ThresholdSource interface {
	ListThresholds(ctx context.Context) ([]Threshold, error)
}

// Planner computes reorder shortfalls. It only reads; catalog products
// without a threshold row count as 0/0 and never show a need.
type Planner struct {
	thresholds ThresholdSource
	balances   BalanceStore
}

func NewPlanner(thresholds ThresholdSource, balances BalanceStore) *Planner {
	return &Planner{thresholds: thresholds, balances: balances}
}

// Shortfall returns need = max(0, threshold(mode) − balance) for every
// threshold row with a positive need, in threshold row order.
func (p *Planner) Shortfall(ctx context.Context, mode Mode) ([]Need, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	rows, err := p.thresholds.ListThresholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list thresholds: %w", err)
	}
	balances, err := p.balances.ListBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	onHand := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		onHand[b.Product] = b.Quantity
	}

	return shortfall(rows, onHand, mode), nil
}

func shortfall(rows []Threshold, onHand map[string]decimal.Decimal, mode Mode) []Need {
	out := make([]Need, 0)
	for _, row := range rows {
		need := row.For(mode).Sub(onHand[row.Product])
		if need.IsPositive() {
			out = append(out, Need{Product: row.Product, Quantity: need})
		}
	}
	return out
}
