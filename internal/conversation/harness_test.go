package conversation

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/admins"
	"github.com/spolyanaa/MyBarKeeperBot/internal/catalog"
	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/database"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	mu    sync.Mutex
	menus map[int64][]Menu
	notes map[int64][]string
	docs  map[int64][]Document
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		menus: make(map[int64][]Menu),
		notes: make(map[int64][]string),
		docs:  make(map[int64][]Document),
	}
}

func (f *fakeTransport) RenderMenu(_ context.Context, chatID int64, menu Menu) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus[chatID] = append(f.menus[chatID], menu)
	return nil
}

func (f *fakeTransport) SendDocument(_ context.Context, chatID int64, doc Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[chatID] = append(f.docs[chatID], doc)
	return nil
}

func (f *fakeTransport) Notify(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[chatID] = append(f.notes[chatID], text)
	return nil
}

func (f *fakeTransport) lastMenu(chatID int64) Menu {
	f.mu.Lock()
	defer f.mu.Unlock()
	menus := f.menus[chatID]
	if len(menus) == 0 {
		return Menu{}
	}
	return menus[len(menus)-1]
}

func (f *fakeTransport) lastNote(chatID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := f.notes[chatID]
	if len(notes) == 0 {
		return ""
	}
	return notes[len(notes)-1]
}

type fakeExporter struct {
	data []byte
	err  error
}

func (f fakeExporter) Export(context.Context) ([]byte, error) {
	return f.data, f.err
}

type harness struct {
	t         *testing.T
	ctx       context.Context
	engine    *Engine
	store     *database.SingleWriterDB
	catalog   *catalog.Catalog
	admins    *admins.InMemory
	planner   *ledger.Planner
	transport *fakeTransport
}

func newHarness(t *testing.T, cat *catalog.Catalog) *harness {
	t.Helper()
	if cat == nil {
		cat = catalog.Default()
	}

	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}
	store, err := database.NewSingleWriterDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.EnsureBalances(ctx, cat.Builtins())
	require.NoError(t, err)

	logger := zap.NewNop()
	thresholds := ledger.NewThresholdRegistry(store, cat, logger)
	planner := ledger.NewPlanner(store, store)
	registry := admins.NewInMemory()
	transport := newFakeTransport()

	engine := NewEngine(Deps{
		Catalog:    cat,
		Recorder:   ledger.NewRecorder(store, nil, nil, logger),
		Thresholds: thresholds,
		Planner:    planner,
		Expiry:     ledger.NewExpiryTracker(store, logger),
		Reporter:   ledger.NewReporter(store),
		Exporter:   fakeExporter{data: []byte("xlsx")},
		Admins:     registry,
		Transport:  transport,
		Logger:     logger,
		Now:        func() time.Time { return time.Now().Add(time.Minute) },
	})

	return &harness{
		t:         t,
		ctx:       ctx,
		engine:    engine,
		store:     store,
		catalog:   cat,
		admins:    registry,
		planner:   planner,
		transport: transport,
	}
}

func (h *harness) user(id int64) User {
	return User{ID: id, ChatID: id}
}

// press clicks the button labelled label on the user's last menu.
func (h *harness) press(id int64, label string) {
	h.t.Helper()
	menu := h.transport.lastMenu(id)
	for _, row := range menu.Rows {
		for _, b := range row {
			if b.Label == label {
				require.NoError(h.t, h.engine.OnButton(h.ctx, h.user(id), b.Data))
				return
			}
		}
	}
	h.t.Fatalf("button %q not found in menu %q", label, menu.Text)
}

func (h *harness) send(id int64, text string) {
	h.t.Helper()
	require.NoError(h.t, h.engine.OnText(h.ctx, h.user(id), text))
}

func (h *harness) start(id int64) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Start(h.ctx, h.user(id)))
}

func (h *harness) state(id int64) State {
	h.t.Helper()
	sess, ok := h.engine.Session(id)
	require.True(h.t, ok)
	return sess.State
}

func (h *harness) balance(product string) decimal.Decimal {
	h.t.Helper()
	qty, err := h.store.GetBalance(h.ctx, product)
	require.NoError(h.t, err)
	return qty
}

func (h *harness) movements() int {
	h.t.Helper()
	n, err := h.store.CountMovements(h.ctx)
	require.NoError(h.t, err)
	return n
}

func labels(menu Menu) []string {
	var out []string
	for _, row := range menu.Rows {
		for _, b := range row {
			out = append(out, b.Label)
		}
	}
	return out
}
