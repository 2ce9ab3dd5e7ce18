package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
)

// GetBalance returns ledger.ErrNotFound for a product without a balance row.
func (swdb *SingleWriterDB) GetBalance(ctx context.Context, product string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := swdb.db.QueryRowContext(ctx,
		`SELECT quantity FROM balances WHERE product = ?`, product,
	).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.ErrNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return qty, nil
}

// UpsertBalance overwrites a balance row. Movements should go through
// AppendMovement; this exists for corrections and tests.
func (swdb *SingleWriterDB) UpsertBalance(ctx context.Context, product string, qty decimal.Decimal) error {
	return swdb.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO balances (product, quantity, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(product) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at
		`, product, qty.String(), swdb.timestamp())
		if err != nil {
			return fmt.Errorf("failed to upsert balance: %w", err)
		}
		return nil
	})
}

// EnsureBalances creates zero balance rows for products that have none and
// returns how many were created.
func (swdb *SingleWriterDB) EnsureBalances(ctx context.Context, products []string) (int, error) {
	added := 0
	err := swdb.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO balances (product, quantity, updated_at) VALUES (?, '0', ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare balance seed: %w", err)
		}
		defer stmt.Close()

		now := swdb.timestamp()
		for _, p := range products {
			res, err := stmt.ExecContext(ctx, p, now)
			if err != nil {
				return fmt.Errorf("failed to seed balance: %w", err)
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

// ListBalances returns all balance rows in insertion order.
func (swdb *SingleWriterDB) ListBalances(ctx context.Context) ([]ledger.Balance, error) {
	rows, err := swdb.db.QueryContext(ctx,
		`SELECT product, unit, quantity FROM balances ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.Balance, 0)
	for rows.Next() {
		var b ledger.Balance
		if err := rows.Scan(&b.Product, &b.Unit, &b.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return out, nil
}
