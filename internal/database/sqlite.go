package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	timeLayout = time.RFC3339
	dateLayout = time.DateOnly
)

// SingleWriterDB implements Single Writer Principle for SQLite.
// Every read-modify-write runs in a transaction while holding mu, so two
// writers can never interleave on the same row.
type SingleWriterDB struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewSingleWriterDB opens the ledger database and applies migrations.
func NewSingleWriterDB(cfg *config.Config, logger *zap.Logger) (*SingleWriterDB, error) {
	db, err := sql.Open("sqlite3", cfg.SQLitePath+"?_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	swdb := &SingleWriterDB{
		db:     db,
		logger: logger,
		now:    time.Now,
	}

	if err := swdb.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return swdb, nil
}

func (swdb *SingleWriterDB) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, swdb.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		swdb.logger.Info("Migration applied",
			zap.Int64("version", r.Source.Version),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Ping checks the database connection
func (swdb *SingleWriterDB) Ping(ctx context.Context) error {
	return swdb.db.PingContext(ctx)
}

// Close closes the database connection
func (swdb *SingleWriterDB) Close() error {
	return swdb.db.Close()
}

// withTx runs fn in a transaction under the writer lock.
func (swdb *SingleWriterDB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	swdb.mu.Lock()
	defer swdb.mu.Unlock()

	tx, err := swdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			swdb.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (swdb *SingleWriterDB) timestamp() string {
	return swdb.now().UTC().Format(timeLayout)
}
