package conversation

import (
	"context"

	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
)

func (e *Engine) consume(ctx context.Context, u User, sess *Session, text string) error {
	qty, ok := parseQuantity(text)
	if !ok {
		return e.reprompt(ctx, u, textBarmanBadQty)
	}
	f, ok := sess.Flow.(BarmanFlow)
	if !ok || f.Product == "" {
		sess.enter(StateBarmanCategory)
		return e.show(ctx, u, sess, textBarmanNoItem, true)
	}

	if _, err := e.recorder.Record(ctx, ledger.RoleBarman, u.ID, f.Product, ledger.ActionConsume, qty); err != nil {
		return e.writeFailed(ctx, u, "consume", err)
	}

	f.Recorded = qty
	sess.Flow = f
	sess.enter(StateBarmanConfirm)
	return e.show(ctx, u, sess, "", true)
}

func (e *Engine) confirmMore(ctx context.Context, u User, sess *Session, choice string) (bool, error) {
	switch choice {
	case "more":
		sess.enter(StateBarmanCategory)
		return true, e.show(ctx, u, sess, textBarmanMore, false)

	case "done":
		sess.enter(StateRoleSelect)
		if err := e.transport.RenderMenu(ctx, u.ChatID, Menu{Text: textBarmanDone}); err != nil {
			return true, err
		}
		return true, e.show(ctx, u, sess, "", true)
	}
	return false, nil
}
