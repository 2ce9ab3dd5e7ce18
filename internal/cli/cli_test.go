package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/database"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() { dbPath = "" })
	err := RootCmd.Execute()
	return out.String(), err
}

func seedLedger(t *testing.T, path string) *database.SingleWriterDB {
	t.Helper()
	db, cat, err := openLedger(context.Background(), &config.Config{SQLitePath: path}, zap.NewNop())
	require.NoError(t, err)

	rec := ledger.NewRecorder(db, nil, nil, zap.NewNop())
	_, err = rec.Record(context.Background(), ledger.RoleAdmin, 1, "Квас", ledger.ActionReceive, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = rec.Record(context.Background(), ledger.RoleAdmin, 1, "Тоник", ledger.ActionReceive, decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.False(t, cat.Contains("Тоник"))
	return db
}

func TestOpenLedger_RestoresAdHocProducts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, seedLedger(t, path).Close())

	db, cat, err := openLedger(context.Background(), &config.Config{SQLitePath: path}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, cat.Contains("Тоник"))
	assert.Equal(t, len(cat.Builtins())+1, len(cat.Products()))
}

func TestVerifyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, seedLedger(t, path).Close())

	out, err := execute(t, "verify", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"movements": 2`)
}

func TestVerifyCommand_Drift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db := seedLedger(t, path)
	require.NoError(t, db.UpsertBalance(context.Background(), "Квас", decimal.NewFromInt(1)))
	require.NoError(t, db.Close())

	out, err := execute(t, "verify", "--db", path)
	assert.ErrorIs(t, err, ErrLedgerDrift)
	assert.Contains(t, out, "Квас")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")
	require.NoError(t, seedLedger(t, path).Close())

	target := filepath.Join(dir, "out.xlsx")
	_, err := execute(t, "export", "--db", path, "--out", target)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestParseSchedule(t *testing.T) {
	cfg := &config.Config{
		Timezone:        "UTC",
		ExpiryCheckTime: "09:00",
		ReminderWeekday: "Tuesday",
		ReminderTime:    "10:30",
	}
	s, err := parseSchedule(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, s.location)
	assert.Equal(t, 9, s.expiryAt.Hour)
	assert.Equal(t, time.Tuesday, s.weekday)
	assert.Equal(t, 30, s.remindAt.Minute)

	cfg.ReminderTime = "25:00"
	_, err = parseSchedule(cfg)
	assert.Error(t, err)
}
