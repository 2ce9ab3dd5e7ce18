package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
)

func (swdb *SingleWriterDB) GetThreshold(ctx context.Context, product string) (ledger.Threshold, error) {
	t := ledger.Threshold{Product: product}
	err := swdb.db.QueryRowContext(ctx,
		`SELECT poor, luxe FROM thresholds WHERE product = ?`, product,
	).Scan(&t.Poor, &t.Luxe)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Threshold{}, ledger.ErrNotFound
	}
	if err != nil {
		return ledger.Threshold{}, fmt.Errorf("failed to get threshold: %w", err)
	}
	return t, nil
}

// UpsertThreshold sets one mode's value, creating the row with the other
// mode at zero when the product has none.
func (swdb *SingleWriterDB) UpsertThreshold(ctx context.Context, product string, mode ledger.Mode, value decimal.Decimal) error {
	var column string
	switch mode {
	case ledger.ModePoor:
		column = "poor"
	case ledger.ModeLuxe:
		column = "luxe"
	default:
		return fmt.Errorf("%w: %q", ledger.ErrInvalidMode, mode)
	}

	// column comes from the switch above, never from input
	query := fmt.Sprintf(`
		INSERT INTO thresholds (product, %[1]s, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(product) DO UPDATE SET %[1]s = excluded.%[1]s, updated_at = excluded.updated_at
	`, column)

	return swdb.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, product, value.String(), swdb.timestamp()); err != nil {
			return fmt.Errorf("failed to upsert threshold: %w", err)
		}
		return nil
	})
}

// EnsureThresholds inserts 0/0 rows, in the given order, for products that
// have no row yet and returns how many were inserted.
func (swdb *SingleWriterDB) EnsureThresholds(ctx context.Context, products []string) (int, error) {
	added := 0
	err := swdb.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO thresholds (product, poor, luxe, updated_at) VALUES (?, '0', '0', ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare threshold seed: %w", err)
		}
		defer stmt.Close()

		now := swdb.timestamp()
		for _, p := range products {
			res, err := stmt.ExecContext(ctx, p, now)
			if err != nil {
				return fmt.Errorf("failed to seed threshold: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ListThresholds returns threshold rows in insertion order.
func (swdb *SingleWriterDB) ListThresholds(ctx context.Context) ([]ledger.Threshold, error) {
	rows, err := swdb.db.QueryContext(ctx,
		`SELECT product, poor, luxe FROM thresholds ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list thresholds: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.Threshold, 0)
	for rows.Next() {
		var t ledger.Threshold
		if err := rows.Scan(&t.Product, &t.Poor, &t.Luxe); err != nil {
			return nil, fmt.Errorf("failed to scan threshold: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate thresholds: %w", err)
	}
	return out, nil
}
