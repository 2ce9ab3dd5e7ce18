package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
)

// AddExpiry adds lot.Quantity to the (product, date) lot and returns the
// merged lot.
func (swdb *SingleWriterDB) AddExpiry(ctx context.Context, lot ledger.ExpiryLot) (ledger.ExpiryLot, error) {
	date := lot.Date.Format(dateLayout)
	merged := ledger.ExpiryLot{Product: lot.Product, Date: ledger.Day(lot.Date)}

	err := swdb.withTx(ctx, func(tx *sql.Tx) error {
		var current decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM expiry_lots WHERE product = ? AND expiry_date = ?`,
			lot.Product, date,
		).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read expiry lot: %w", err)
		}

		merged.Quantity = current.Add(lot.Quantity)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expiry_lots (product, expiry_date, quantity, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(product, expiry_date) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at
		`, lot.Product, date, merged.Quantity.String(), swdb.timestamp()); err != nil {
			return fmt.Errorf("failed to upsert expiry lot: %w", err)
		}
		return nil
	})
	if err != nil {
		return ledger.ExpiryLot{}, err
	}
	return merged, nil
}

// ListExpiry returns every lot ordered by date, then product.
func (swdb *SingleWriterDB) ListExpiry(ctx context.Context) ([]ledger.ExpiryLot, error) {
	return swdb.queryExpiry(ctx,
		`SELECT product, expiry_date, quantity FROM expiry_lots ORDER BY expiry_date, rowid`)
}

// ListExpiryOn returns the lots expiring on the given calendar day.
func (swdb *SingleWriterDB) ListExpiryOn(ctx context.Context, date time.Time) ([]ledger.ExpiryLot, error) {
	return swdb.queryExpiry(ctx,
		`SELECT product, expiry_date, quantity FROM expiry_lots WHERE expiry_date = ? ORDER BY rowid`,
		date.Format(dateLayout))
}

func (swdb *SingleWriterDB) queryExpiry(ctx context.Context, query string, args ...interface{}) ([]ledger.ExpiryLot, error) {
	rows, err := swdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiry lots: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.ExpiryLot, 0)
	for rows.Next() {
		var (
			lot  ledger.ExpiryLot
			date string
		)
		if err := rows.Scan(&lot.Product, &date, &lot.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan expiry lot: %w", err)
		}
		if lot.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse expiry date %q: %w", date, err)
		}
		out = append(out, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expiry lots: %w", err)
	}
	return out, nil
}
