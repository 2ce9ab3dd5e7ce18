package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppendMovement logs m and applies it to the product's balance in one
// transaction, returning the new balance. An unknown product gets a new row
// opened at m.OpeningBalance.
func (swdb *SingleWriterDB) AppendMovement(ctx context.Context, m ledger.Movement) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := swdb.withTx(ctx, func(tx *sql.Tx) error {
		var current decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM balances WHERE product = ?`, m.Product,
		).Scan(&current)

		now := swdb.timestamp()
		switch {
		case errors.Is(err, sql.ErrNoRows):
			balance = m.OpeningBalance()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO balances (product, quantity, updated_at) VALUES (?, ?, ?)`,
				m.Product, balance.String(), now,
			); err != nil {
				return fmt.Errorf("failed to create balance: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to read balance: %w", err)
		default:
			balance = current.Add(m.Delta())
			if _, err := tx.ExecContext(ctx,
				`UPDATE balances SET quantity = ?, updated_at = ? WHERE product = ?`,
				balance.String(), now, m.Product,
			); err != nil {
				return fmt.Errorf("failed to update balance: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO movements (id, occurred_at, actor_role, actor_id, action, product, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			m.ID.String(), m.At.UTC().Format(timeLayout), string(m.Role), m.ActorID,
			string(m.Action), m.Product, m.Quantity.String(),
		); err != nil {
			return fmt.Errorf("failed to append movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// ListMovements returns movements matching filter, oldest first.
func (swdb *SingleWriterDB) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.Movement, error) {
	q := sq.Select("id", "occurred_at", "actor_role", "actor_id", "action", "product", "quantity").
		From("movements").
		OrderBy("occurred_at", "rowid")

	if !filter.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"occurred_at": filter.Since.UTC().Format(timeLayout)})
	}
	if filter.Action != "" {
		q = q.Where(sq.Eq{"action": string(filter.Action)})
	}
	if filter.Product != "" {
		q = q.Where(sq.Eq{"product": filter.Product})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build movements query: %w", err)
	}

	rows, err := swdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.Movement, 0)
	for rows.Next() {
		var (
			m          ledger.Movement
			id, at     string
			role, kind string
		)
		if err := rows.Scan(&id, &at, &role, &m.ActorID, &kind, &m.Product, &m.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse movement id %q: %w", id, err)
		}
		if m.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("failed to parse movement time %q: %w", at, err)
		}
		m.Role = ledger.Role(role)
		m.Action = ledger.Action(kind)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}
	return out, nil
}

func (swdb *SingleWriterDB) CountMovements(ctx context.Context) (int, error) {
	var n int
	if err := swdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movements: %w", err)
	}
	return n, nil
}
