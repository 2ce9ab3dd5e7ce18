package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spolyanaa/MyBarKeeperBot/internal/catalog"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

	"go.uber.org/zap"
)

var statsPeriods = map[int]bool{1: true, 4: true, 30: true}

func (e *Engine) adminAction(ctx context.Context, u User, sess *Session, action string) (bool, error) {
	switch action {
	case "share":
		return true, e.share(ctx, u)
	case "stats":
		sess.enter(StateStatsMenu)
	case "dodep":
		sess.enter(StateDodepMenu)
	case "receive":
		sess.enter(StateReceiveMenu)
	default:
		return false, nil
	}
	return true, e.show(ctx, u, sess, "", false)
}

func (e *Engine) share(ctx context.Context, u User) error {
	data, err := e.exporter.Export(ctx)
	if err != nil {
		e.logger.Warn("Failed to export ledger", zap.Int64("user_id", u.ID), zap.Error(err))
		return e.transport.Notify(ctx, u.ChatID, textShareFailed)
	}

	doc := Document{Name: shareFileName, Caption: textShareCaption, Data: data}
	if err := e.transport.SendDocument(ctx, u.ChatID, doc); err != nil {
		e.logger.Warn("Failed to send ledger", zap.Int64("user_id", u.ID), zap.Error(err))
		return e.transport.Notify(ctx, u.ChatID, textShareFailed)
	}
	return nil
}

func (e *Engine) stats(ctx context.Context, u User, cmd command) (bool, error) {
	days, err := strconv.Atoi(cmd.arg)
	if err != nil || !statsPeriods[days] {
		return false, nil
	}

	report, err := e.reporter.Consumption(ctx, e.now(), days)
	if err != nil {
		return true, e.readFailed(ctx, u, "stats", err)
	}

	var body string
	switch {
	case report.NoData:
		body = textStatsNoData
	case len(report.Totals) == 0:
		body = textStatsEmpty
	default:
		lines := make([]string, 0, len(report.Totals))
		for _, t := range report.Totals {
			lines = append(lines, fmt.Sprintf("• %s: %s", t.Product, t.Quantity.String()))
		}
		body = strings.Join(lines, "\n")
	}
	return true, e.transport.Notify(ctx, u.ChatID, fmt.Sprintf(textStatsReport, days, body))
}

func (e *Engine) dodepAction(ctx context.Context, u User, sess *Session, action string) (bool, error) {
	switch action {
	case "poor", "luxe":
		mode := ledger.Mode(action)
		needs, err := e.planner.Shortfall(ctx, mode)
		if err != nil {
			return true, e.readFailed(ctx, u, "shortfall", err)
		}
		sess.LastOrderMode = mode
		return true, e.transport.Notify(ctx, u.ChatID, formatShortfall(mode, needs))

	case "setup":
		sess.enter(StateThresholdMode)
		return true, e.show(ctx, u, sess, "", false)
	}
	return false, nil
}

func formatShortfall(mode ledger.Mode, needs []ledger.Need) string {
	if len(needs) == 0 {
		if mode == ledger.ModeLuxe {
			return textNoShortfallLuxe
		}
		return textNoShortfallPoor
	}

	header := textShortfallPoor
	if mode == ledger.ModeLuxe {
		header = textShortfallLuxe
	}
	lines := make([]string, 0, len(needs))
	for _, n := range needs {
		lines = append(lines, fmt.Sprintf("• %s — %s", n.Product, n.Quantity.String()))
	}
	return header + strings.Join(lines, "\n")
}

func (e *Engine) selectMode(ctx context.Context, u User, sess *Session, arg string) (bool, error) {
	mode, err := ledger.ParseMode(arg)
	if err != nil {
		return false, nil
	}
	sess.Flow = ThresholdFlow{Mode: mode}
	sess.enter(StateThresholdCategory)
	return true, e.show(ctx, u, sess, "", false)
}

func (e *Engine) setThreshold(ctx context.Context, u User, sess *Session, text string) error {
	value, ok := parseQuantity(text)
	if !ok {
		return e.reprompt(ctx, u, textThresholdBad)
	}
	f, ok := sess.Flow.(ThresholdFlow)
	if !ok || f.Product == "" {
		sess.enter(StateThresholdCategory)
		return e.show(ctx, u, sess, textThresholdNoItem, true)
	}

	if err := e.thresholds.Set(ctx, f.Product, f.Mode, value); err != nil {
		return e.writeFailed(ctx, u, "threshold", err)
	}
	sess.LastOrderMode = f.Mode

	if err := e.transport.Notify(ctx, u.ChatID,
		fmt.Sprintf(textThresholdSaved, f.Mode.Title(), f.Product, value.String())); err != nil {
		return err
	}
	sess.enter(StateDodepMenu)
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) receiveAction(ctx context.Context, u User, sess *Session, action string) (bool, error) {
	switch action {
	case "auto":
		return true, e.autoReceive(ctx, u, sess)
	case "manual":
		sess.enter(StateReceiveCategory)
	case "new":
		sess.enter(StateNewProductName)
	case "expiry":
		sess.enter(StateExpiryItem)
	default:
		return false, nil
	}
	return true, e.show(ctx, u, sess, "", false)
}

// autoReceive receives the whole shortfall of the last order mode.
func (e *Engine) autoReceive(ctx context.Context, u User, sess *Session) error {
	mode := sess.orderMode()
	needs, err := e.planner.Shortfall(ctx, mode)
	if err != nil {
		return e.readFailed(ctx, u, "auto_receive", err)
	}
	if len(needs) == 0 {
		return e.transport.Notify(ctx, u.ChatID, textNothingToOrder)
	}

	for i, n := range needs {
		if _, err := e.recorder.Record(ctx, ledger.RoleAdmin, u.ID, n.Product, ledger.ActionReceive, n.Quantity); err != nil {
			e.logger.Error("Auto-receive stopped",
				zap.String("mode", string(mode)),
				zap.Int("applied", i),
				zap.Int("total", len(needs)),
				zap.Error(err),
			)
			return e.transport.Notify(ctx, u.ChatID, textWriteFailed)
		}
	}

	e.logger.Info("Order received",
		zap.Int64("user_id", u.ID),
		zap.String("mode", string(mode)),
		zap.Int("products", len(needs)),
	)
	return e.transport.Notify(ctx, u.ChatID, textAutoReceived)
}

func (e *Engine) receive(ctx context.Context, u User, sess *Session, text string) error {
	qty, ok := parseQuantity(text)
	if !ok {
		return e.reprompt(ctx, u, textReceiveBadQty)
	}
	f, ok := sess.Flow.(ReceiveFlow)
	if !ok || f.Product == "" {
		sess.enter(StateReceiveCategory)
		return e.show(ctx, u, sess, textReceiveNoItem, true)
	}

	if _, err := e.recorder.Record(ctx, ledger.RoleAdmin, u.ID, f.Product, ledger.ActionReceive, qty); err != nil {
		return e.writeFailed(ctx, u, "receive", err)
	}
	if err := e.transport.Notify(ctx, u.ChatID, fmt.Sprintf(textReceived, f.Product, qty.String())); err != nil {
		return err
	}
	sess.enter(StateReceiveMenu)
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) newProductName(ctx context.Context, u User, sess *Session, text string) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return e.reprompt(ctx, u, textNewProductNoName)
	}
	sess.Flow = NewProductFlow{Name: name}
	sess.enter(StateNewProductQuantity)
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) newProductQuantity(ctx context.Context, u User, sess *Session, text string) error {
	qty, ok := parseQuantity(text)
	if !ok {
		return e.reprompt(ctx, u, textNewProductBadQty)
	}
	f, ok := sess.Flow.(NewProductFlow)
	if !ok || f.Name == "" {
		sess.enter(StateNewProductName)
		return e.show(ctx, u, sess, "", true)
	}

	if _, err := e.recorder.Record(ctx, ledger.RoleAdmin, u.ID, f.Name, ledger.ActionReceive, qty); err != nil {
		return e.writeFailed(ctx, u, "new_product", err)
	}
	if err := e.catalog.Add(f.Name); err != nil && !errors.Is(err, catalog.ErrDuplicateProduct) {
		e.logger.Warn("Failed to add product to catalog", zap.String("product", f.Name), zap.Error(err))
	}

	if err := e.transport.Notify(ctx, u.ChatID, fmt.Sprintf(textNewProductAdded, f.Name, qty.String())); err != nil {
		return err
	}
	sess.enter(StateReceiveMenu)
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) recordExpiry(ctx context.Context, u User, sess *Session, text string) error {
	date, qty, result := parseExpiry(text)
	switch result {
	case expiryBadFormat:
		return e.reprompt(ctx, u, textExpiryBadFmt)
	case expiryBadDate:
		return e.reprompt(ctx, u, textExpiryBadDate)
	}
	f, ok := sess.Flow.(ExpiryFlow)
	if !ok || f.Product == "" {
		sess.enter(StateExpiryItem)
		return e.show(ctx, u, sess, textExpiryNoItem, true)
	}

	lot, err := e.expiry.Record(ctx, f.Product, date, qty)
	if err != nil {
		return e.writeFailed(ctx, u, "expiry", err)
	}
	if err := e.transport.Notify(ctx, u.ChatID,
		fmt.Sprintf(textExpirySaved, f.Product, lot.Date.Format(dateFormat), qty.String())); err != nil {
		return err
	}
	sess.enter(StateReceiveMenu)
	return e.show(ctx, u, sess, "", true)
}
