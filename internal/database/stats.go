package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var ledgerTables = []string{"balances", "movements", "thresholds", "expiry_lots"}

// TableCounts returns the row count of every ledger table.
func (swdb *SingleWriterDB) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(ledgerTables))
	for _, table := range ledgerTables {
		query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build count query: %w", err)
		}

		var n int
		if err := swdb.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
