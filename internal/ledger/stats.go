package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionReport sums consume movements over a trailing window.
type ConsumptionReport struct {
	Days int
	// NoData is set when the movement log is empty altogether.
	NoData bool
	// Totals is sorted by quantity, largest first.
	Totals []Need
}

// Reporter builds read-only reports from the movement log.
type Reporter struct {
	movements MovementStore
}

func NewReporter(movements MovementStore) *Reporter {
	return &Reporter{movements: movements}
}

func (r *Reporter) Consumption(ctx context.Context, now time.Time, days int) (ConsumptionReport, error) {
	report := ConsumptionReport{Days: days}

	count, err := r.movements.CountMovements(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to count movements: %w", err)
	}
	if count == 0 {
		report.NoData = true
		return report, nil
	}

	moves, err := r.movements.ListMovements(ctx, MovementFilter{
		Since:  now.AddDate(0, 0, -days),
		Action: ActionConsume,
	})
	if err != nil {
		return report, fmt.Errorf("failed to list movements: %w", err)
	}

	report.Totals = totals(moves)
	return report, nil
}

func totals(moves []Movement) []Need {
	sums := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, m := range moves {
		if _, ok := sums[m.Product]; !ok {
			order = append(order, m.Product)
		}
		sums[m.Product] = sums[m.Product].Add(m.Quantity)
	}

	out := make([]Need, 0, len(order))
	for _, p := range order {
		out = append(out, Need{Product: p, Quantity: sums[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity.GreaterThan(out[j].Quantity)
	})
	return out
}
