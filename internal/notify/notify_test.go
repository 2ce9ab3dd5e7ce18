package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/admins"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
	"github.com/spolyanaa/MyBarKeeperBot/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

type stubSweeper struct {
	lots      []ledger.ExpiryLot
	err       error
	gotToday  time.Time
	gotWindow int
}

func (s *stubSweeper) Sweep(_ context.Context, today time.Time, horizonDays int) ([]ledger.ExpiryLot, error) {
	s.gotToday = today
	s.gotWindow = horizonDays
	return s.lots, s.err
}

func registry(t *testing.T, ids ...int64) *admins.InMemory {
	t.Helper()
	r := admins.NewInMemory()
	for _, id := range ids {
		require.NoError(t, r.Add(context.Background(), id))
	}
	return r
}

func TestExpirySweep_FansOutToAdmins(t *testing.T) {
	sweeper := &stubSweeper{lots: []ledger.ExpiryLot{
		{Product: "Миллер ЖБ", Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Quantity: decimal.NewFromInt(5)},
		{Product: "Aperol", Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Quantity: decimal.RequireFromString("1.5")},
	}}
	want := "Упс! Кажется, через месяц истекает срок годности:\n" +
		"• Миллер ЖБ — срок до 25.12.2025 (5 шт.)\n" +
		"• Aperol — срок до 25.12.2025 (1.5 шт.)"

	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, int64(1), want).Return(nil).Once()
	notifier.On("Notify", mock.Anything, int64(2), want).Return(nil).Once()

	loc := time.FixedZone("MSK", 3*60*60)
	jobs := NewJobs(sweeper, registry(t, 2, 1), notifier, zap.NewNop(), Options{Location: loc, HorizonDays: 30})
	jobs.now = func() time.Time { return time.Date(2025, 11, 24, 22, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.ExpirySweep(context.Background()))
	notifier.AssertExpectations(t)

	assert.Equal(t, 30, sweeper.gotWindow)
	assert.Equal(t, "2025-11-25", sweeper.gotToday.Format(time.DateOnly))
}

func TestExpirySweep_NothingDue(t *testing.T) {
	notifier := new(mockNotifier)
	jobs := NewJobs(&stubSweeper{}, registry(t, 1), notifier, zap.NewNop(), Options{HorizonDays: 30})

	require.NoError(t, jobs.ExpirySweep(context.Background()))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpirySweep_ReadFailure(t *testing.T) {
	notifier := new(mockNotifier)
	boom := errors.New("database is closed")
	jobs := NewJobs(&stubSweeper{err: boom}, registry(t, 1), notifier, zap.NewNop(), Options{})

	err := jobs.ExpirySweep(context.Background())
	assert.ErrorIs(t, err, boom)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminder_FailedRecipientDoesNotStopLoop(t *testing.T) {
	m := metrics.NewRegistry()
	notifier := new(mockNotifier)
	notifier.On("Notify", mock.Anything, int64(1), "Алё? Пора закупаться!").Return(errors.New("bot was blocked")).Once()
	notifier.On("Notify", mock.Anything, int64(2), "Алё? Пора закупаться!").Return(nil).Once()
	notifier.On("Notify", mock.Anything, int64(3), "Алё? Пора закупаться!").Return(nil).Once()

	jobs := NewJobs(&stubSweeper{}, registry(t, 1, 2, 3), notifier, zap.NewNop(), Options{Metrics: m})

	require.NoError(t, jobs.Reminder(context.Background()))
	notifier.AssertExpectations(t)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Notifications.WithLabelValues(JobReminder, "delivered")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Notifications.WithLabelValues(JobReminder, "failed")))
}

func TestReminder_NoAdmins(t *testing.T) {
	notifier := new(mockNotifier)
	jobs := NewJobs(&stubSweeper{}, admins.NewInMemory(), notifier, zap.NewNop(), Options{})

	require.NoError(t, jobs.Reminder(context.Background()))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
