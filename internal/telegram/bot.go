// Package telegram connects the conversation engine to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	pollTimeout = 30
	pongText    = "понг"
)

// Handler receives user input. *conversation.Engine implements it.
type Handler interface {
	Start(ctx context.Context, u conversation.User) error
	OnButton(ctx context.Context, u conversation.User, data string) error
	OnText(ctx context.Context, u conversation.User, text string) error
}

type Bot struct {
	api        BotAPI
	handler    Handler
	transport  *Transport
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewBotAPI logs in with the configured token.
func NewBotAPI(cfg *config.Config, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	api.Debug = cfg.BotDebug
	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))
	return api, nil
}

func NewBot(api BotAPI, handler Handler, transport *Transport, logger *zap.Logger) *Bot {
	return &Bot{
		api:        api,
		handler:    handler,
		transport:  transport,
		dispatcher: NewDispatcher(),
		logger:     logger,
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// updates to finish.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started polling")
	defer func() {
		b.api.StopReceivingUpdates()
		b.dispatcher.Wait()
		b.logger.Info("Bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.Dispatch(ctx, update)
		}
	}
}

// Dispatch queues update on its sender's queue.
func (b *Bot) Dispatch(ctx context.Context, update tgbotapi.Update) {
	user := update.SentFrom()
	if user == nil {
		return
	}
	b.dispatcher.Submit(user.ID, func() {
		if err := b.handle(ctx, update); err != nil {
			b.logger.Error("Failed to handle update",
				zap.Int("update_id", update.UpdateID),
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	})
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Debug("Failed to answer callback", zap.Error(err))
	}
	if q.Message == nil {
		return nil
	}

	user := conversation.User{ID: q.From.ID, ChatID: q.Message.Chat.ID}
	return b.handler.OnButton(WithOrigin(ctx, q.Message.MessageID), user, q.Data)
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m.From == nil {
		return nil
	}
	user := conversation.User{ID: m.From.ID, ChatID: m.Chat.ID}

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			return b.handler.Start(ctx, user)
		case "ping":
			return b.transport.Notify(ctx, user.ChatID, pongText)
		}
		return nil
	}
	return b.handler.OnText(ctx, user, m.Text)
}
