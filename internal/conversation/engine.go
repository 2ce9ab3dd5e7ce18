// Package conversation implements the per-user dialogue that drives the
// ledger: a barman flow for reporting consumption and an admin flow for
// reports, reorder thresholds and receiving goods.
//
// Every input is handled under the user's session lock. Button payloads are
// checked against the current state; a button that does not belong to it
// just re-renders the current menu.
package conversation

import (
	"context"
	"slices"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/admins"
	"github.com/spolyanaa/MyBarKeeperBot/internal/catalog"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
	"github.com/spolyanaa/MyBarKeeperBot/internal/metrics"

	"go.uber.org/zap"
)

// Exporter renders the ledger as a spreadsheet.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// Deps are the collaborators of the engine. Metrics and Now are optional.
type Deps struct {
	Catalog    *catalog.Catalog
	Recorder   *ledger.Recorder
	Thresholds *ledger.ThresholdRegistry
	Planner    *ledger.Planner
	Expiry     *ledger.ExpiryTracker
	Reporter   *ledger.Reporter
	Exporter   Exporter
	Admins     admins.Registry
	Transport  Transport
	Metrics    *metrics.Registry
	Logger     *zap.Logger
	Now        func() time.Time
}

type Engine struct {
	catalog    *catalog.Catalog
	recorder   *ledger.Recorder
	thresholds *ledger.ThresholdRegistry
	planner    *ledger.Planner
	expiry     *ledger.ExpiryTracker
	reporter   *ledger.Reporter
	exporter   Exporter
	admins     admins.Registry
	transport  Transport
	metrics    *metrics.Registry
	logger     *zap.Logger
	now        func() time.Time
	sessions   *Sessions
}

func NewEngine(deps Deps) *Engine {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		catalog:    deps.Catalog,
		recorder:   deps.Recorder,
		thresholds: deps.Thresholds,
		planner:    deps.Planner,
		expiry:     deps.Expiry,
		reporter:   deps.Reporter,
		exporter:   deps.Exporter,
		admins:     deps.Admins,
		transport:  deps.Transport,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        now,
		sessions:   NewSessions(),
	}
}

// Session returns a copy of the user's session.
func (e *Engine) Session(userID int64) (Session, bool) {
	return e.sessions.Get(userID)
}

// Start resets the user's session and greets them with the role menu.
func (e *Engine) Start(ctx context.Context, u User) error {
	sess, release := e.sessions.Acquire(u.ID)
	defer release()

	e.metrics.ConversationInput("start")
	sess.Reset()

	menu := roleMenu(textGreeting)
	menu.Fresh = true
	return e.transport.RenderMenu(ctx, u.ChatID, menu)
}

// OnButton handles a click on an inline option.
func (e *Engine) OnButton(ctx context.Context, u User, data string) error {
	sess, release := e.sessions.Acquire(u.ID)
	defer release()

	e.metrics.ConversationInput("button")
	cmd := parseCommand(data)

	switch cmd.kind {
	case "home":
		sess.Reset()
		return e.show(ctx, u, sess, "", false)
	case "back":
		if parent, ok := Parent(sess.State); ok {
			sess.enter(parent)
		}
		return e.show(ctx, u, sess, "", false)
	}

	handled, err := e.dispatch(ctx, u, sess, cmd)
	if err != nil {
		return err
	}
	if !handled {
		e.logger.Debug("Button does not apply to state",
			zap.Int64("user_id", u.ID),
			zap.String("data", data),
			zap.Stringer("state", sess.State),
		)
		return e.show(ctx, u, sess, "", false)
	}
	return nil
}

// OnText handles a typed reply.
func (e *Engine) OnText(ctx context.Context, u User, text string) error {
	sess, release := e.sessions.Acquire(u.ID)
	defer release()

	e.metrics.ConversationInput("text")
	if !sess.State.acceptsText() {
		return e.show(ctx, u, sess, "", true)
	}

	switch sess.State {
	case StateBarmanQuantity:
		return e.consume(ctx, u, sess, text)
	case StateThresholdValue:
		return e.setThreshold(ctx, u, sess, text)
	case StateReceiveQuantity:
		return e.receive(ctx, u, sess, text)
	case StateNewProductName:
		return e.newProductName(ctx, u, sess, text)
	case StateNewProductQuantity:
		return e.newProductQuantity(ctx, u, sess, text)
	case StateExpiryDateQty:
		return e.recordExpiry(ctx, u, sess, text)
	}
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) dispatch(ctx context.Context, u User, sess *Session, cmd command) (bool, error) {
	switch sess.State {
	case StateRoleSelect:
		if cmd.kind == "role" {
			return e.selectRole(ctx, u, sess, cmd.arg)
		}
	case StateBarmanCategory, StateThresholdCategory, StateReceiveCategory:
		if cmd.kind == "cat" {
			return e.selectCategory(ctx, u, sess, cmd.arg)
		}
	case StateBarmanItem, StateThresholdItem, StateReceiveItem, StateExpiryItem:
		switch cmd.kind {
		case "page":
			page, ok := cmd.index()
			if !ok {
				return false, nil
			}
			sess.Page = page
			return true, e.show(ctx, u, sess, "", false)
		case "item":
			return e.selectItem(ctx, u, sess, cmd)
		}
	case StateBarmanConfirm:
		if cmd.kind == "b" {
			return e.confirmMore(ctx, u, sess, cmd.arg)
		}
	case StateAdminMenu:
		if cmd.kind == "admin" {
			return e.adminAction(ctx, u, sess, cmd.arg)
		}
	case StateStatsMenu:
		if cmd.kind == "stats" {
			return e.stats(ctx, u, cmd)
		}
	case StateDodepMenu:
		if cmd.kind == "dodep" {
			return e.dodepAction(ctx, u, sess, cmd.arg)
		}
	case StateThresholdMode:
		if cmd.kind == "mode" {
			return e.selectMode(ctx, u, sess, cmd.arg)
		}
	case StateReceiveMenu:
		if cmd.kind == "recv" {
			return e.receiveAction(ctx, u, sess, cmd.arg)
		}
	}
	return false, nil
}

func (e *Engine) selectRole(ctx context.Context, u User, sess *Session, role string) (bool, error) {
	switch ledger.Role(role) {
	case ledger.RoleBarman:
		sess.Role = ledger.RoleBarman
		sess.enter(StateBarmanCategory)
		return true, e.show(ctx, u, sess, textBarmanIntro, false)

	case ledger.RoleAdmin:
		sess.Role = ledger.RoleAdmin
		if err := e.admins.Add(ctx, u.ID); err != nil {
			e.logger.Warn("Failed to register admin", zap.Int64("user_id", u.ID), zap.Error(err))
		}
		sess.enter(StateAdminMenu)
		return true, e.show(ctx, u, sess, "", false)
	}
	return false, nil
}

func (e *Engine) selectCategory(ctx context.Context, u User, sess *Session, key string) (bool, error) {
	if _, ok := e.catalog.Category(key); !ok {
		return false, nil
	}

	switch sess.State {
	case StateBarmanCategory:
		sess.Flow = BarmanFlow{Category: key}
		sess.enter(StateBarmanItem)
	case StateThresholdCategory:
		f, _ := sess.Flow.(ThresholdFlow)
		sess.Flow = ThresholdFlow{Mode: f.Mode, Category: key}
		sess.enter(StateThresholdItem)
	case StateReceiveCategory:
		sess.Flow = ReceiveFlow{Category: key}
		sess.enter(StateReceiveItem)
	}
	return true, e.show(ctx, u, sess, "", false)
}

func (e *Engine) selectItem(ctx context.Context, u User, sess *Session, cmd command) (bool, error) {
	idx, ok := cmd.index()
	if !ok {
		return false, nil
	}
	product, ok := e.catalog.ProductAt(idx)
	if !ok {
		return false, nil
	}
	if sess.State != StateExpiryItem {
		cat, ok := e.categoryOf(sess)
		if !ok || !slices.Contains(cat.Items, product) {
			return false, nil
		}
	}

	switch f := sess.Flow.(type) {
	case BarmanFlow:
		f.Product = product
		sess.Flow = f
		sess.enter(StateBarmanQuantity)
	case ThresholdFlow:
		f.Product = product
		sess.Flow = f
		sess.enter(StateThresholdValue)
	case ReceiveFlow:
		f.Product = product
		sess.Flow = f
		sess.enter(StateReceiveQuantity)
	default:
		sess.Flow = ExpiryFlow{Product: product}
		sess.enter(StateExpiryDateQty)
	}
	return true, e.show(ctx, u, sess, "", false)
}

// show renders the session's state. A non-empty text replaces the menu's
// default text.
func (e *Engine) show(ctx context.Context, u User, sess *Session, text string, fresh bool) error {
	menu := e.menuFor(sess)
	if text != "" {
		menu.Text = text
		menu.HTML = false
	}
	menu.Fresh = fresh

	e.logger.Debug("Rendering state",
		zap.Int64("user_id", u.ID),
		zap.Stringer("state", sess.State),
	)
	return e.transport.RenderMenu(ctx, u.ChatID, menu)
}

// reprompt asks for the same input again without changing state.
func (e *Engine) reprompt(ctx context.Context, u User, hint string) error {
	menu := withNav(hint)
	menu.Fresh = true
	return e.transport.RenderMenu(ctx, u.ChatID, menu)
}

func (e *Engine) readFailed(ctx context.Context, u User, op string, err error) error {
	e.logger.Warn("Read failed",
		zap.String("operation", op),
		zap.Int64("user_id", u.ID),
		zap.Error(err),
	)
	return e.transport.Notify(ctx, u.ChatID, textReadFailed)
}

// writeFailed reports a failed write. The session stays in its input state
// so the user can retry.
func (e *Engine) writeFailed(ctx context.Context, u User, op string, err error) error {
	e.logger.Error("Write failed",
		zap.String("operation", op),
		zap.Int64("user_id", u.ID),
		zap.Error(err),
	)
	return e.reprompt(ctx, u, textWriteFailed)
}
