package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/spolyanaa/MyBarKeeperBot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// BotAPI is the subset of *tgbotapi.BotAPI the bot uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type originKey struct{}

// WithOrigin marks ctx as handling a click on messageID, so menus are edited
// in place instead of sent anew.
func WithOrigin(ctx context.Context, messageID int) context.Context {
	return context.WithValue(ctx, originKey{}, messageID)
}

func origin(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(originKey{}).(int)
	return id, ok && id > 0
}

// Transport implements conversation.Transport over the Bot API.
type Transport struct {
	api    BotAPI
	logger *zap.Logger
}

func NewTransport(api BotAPI, logger *zap.Logger) *Transport {
	return &Transport{api: api, logger: logger}
}

// RenderMenu edits the clicked message when there is one and the menu is not
// marked fresh; otherwise it sends a new message.
func (t *Transport) RenderMenu(ctx context.Context, chatID int64, menu conversation.Menu) error {
	markup := keyboard(menu.Rows)

	if messageID, ok := origin(ctx); ok && !menu.Fresh {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, menu.Text)
		if markup != nil {
			edit.ReplyMarkup = markup
		}
		if menu.HTML {
			edit.ParseMode = tgbotapi.ModeHTML
		}
		_, err := t.api.Request(edit)
		switch {
		case err == nil:
			return nil
		case strings.Contains(err.Error(), "message is not modified"):
			return nil
		default:
			t.logger.Debug("Edit failed, sending new message",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", messageID),
				zap.Error(err),
			)
		}
	}

	msg := tgbotapi.NewMessage(chatID, menu.Text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if menu.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send menu: %w", err)
	}
	return nil
}

func (t *Transport) SendDocument(_ context.Context, chatID int64, doc conversation.Document) error {
	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: doc.Name, Bytes: doc.Data})
	msg.Caption = doc.Caption
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

func (t *Transport) Notify(_ context.Context, chatID int64, text string) error {
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func keyboard(rows [][]conversation.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &markup
}
