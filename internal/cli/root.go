// Package cli implements the barkeeper commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/catalog"
	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dbPath string

// RootCmd runs the bot.
var RootCmd = &cobra.Command{
	Use:           "barkeeper",
	Short:         "Bar inventory Telegram bot",
	Long:          "Telegram bot that keeps the bar's stock ledger: barmen report consumption, admins receive goods, set reorder thresholds and get expiry reminders.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite ledger path (default: $SQLITE_PATH or ./barkeeper.db)")
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if dbPath != "" {
		cfg.SQLitePath = dbPath
	}
	return cfg
}

// openLedger opens the database, seeds zero balances for the built-in
// catalog and restores ad-hoc products from earlier runs.
func openLedger(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.SingleWriterDB, *catalog.Catalog, error) {
	db, err := database.NewSingleWriterDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.Default()
	seeded, err := db.EnsureBalances(ctx, cat.Builtins())
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to seed balances: %w", err)
	}

	balances, err := db.ListBalances(ctx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load balances: %w", err)
	}
	names := make([]string, 0, len(balances))
	for _, b := range balances {
		names = append(names, b.Product)
	}
	restored := cat.Restore(names)

	logger.Info("Ledger opened",
		zap.String("path", cfg.SQLitePath),
		zap.Int("seeded_balances", seeded),
		zap.Int("restored_products", restored),
	)
	return db, cat, nil
}
