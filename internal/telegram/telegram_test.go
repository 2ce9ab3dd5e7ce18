package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	requestErr error
	updates    chan tgbotapi.Update
	stopped    bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 16)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok && f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

var menu = conversation.Menu{
	Text: "Вы выбрали: <b>Квас</b>",
	HTML: true,
	Rows: [][]conversation.Button{{{Label: "⬅️ Назад", Data: "back"}, {Label: "🏠 В начало", Data: "home"}}},
}

func TestRenderMenu_SendsWithoutOrigin(t *testing.T) {
	api := newFakeAPI()
	tr := NewTransport(api, zap.NewNop())

	require.NoError(t, tr.RenderMenu(context.Background(), 7, menu))

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "back", *markup.InlineKeyboard[0][0].CallbackData)
}

func TestRenderMenu_EditsOrigin(t *testing.T) {
	api := newFakeAPI()
	tr := NewTransport(api, zap.NewNop())

	require.NoError(t, tr.RenderMenu(WithOrigin(context.Background(), 55), 7, menu))

	assert.Empty(t, api.sent)
	require.Len(t, api.requests, 1)
	edit, ok := api.requests[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 55, edit.MessageID)
	assert.Equal(t, menu.Text, edit.Text)
	require.NotNil(t, edit.ReplyMarkup)
}

func TestRenderMenu_FreshIgnoresOrigin(t *testing.T) {
	api := newFakeAPI()
	tr := NewTransport(api, zap.NewNop())

	fresh := menu
	fresh.Fresh = true
	require.NoError(t, tr.RenderMenu(WithOrigin(context.Background(), 55), 7, fresh))

	assert.Empty(t, api.requests)
	assert.Len(t, api.sent, 1)
}

func TestRenderMenu_NotModifiedIsSuccess(t *testing.T) {
	api := newFakeAPI()
	api.requestErr = errors.New("Bad Request: message is not modified")
	tr := NewTransport(api, zap.NewNop())

	require.NoError(t, tr.RenderMenu(WithOrigin(context.Background(), 55), 7, menu))
	assert.Empty(t, api.sent)
}

func TestRenderMenu_EditFailureFallsBackToSend(t *testing.T) {
	api := newFakeAPI()
	api.requestErr = errors.New("Bad Request: message to edit not found")
	tr := NewTransport(api, zap.NewNop())

	require.NoError(t, tr.RenderMenu(WithOrigin(context.Background(), 55), 7, menu))
	assert.Len(t, api.sent, 1)
}

func TestSendDocument(t *testing.T) {
	api := newFakeAPI()
	tr := NewTransport(api, zap.NewNop())

	doc := conversation.Document{Name: "data.xlsx", Caption: "Текущая таблица учёта (Excel).", Data: []byte("xlsx")}
	require.NoError(t, tr.SendDocument(context.Background(), 7, doc))

	require.Len(t, api.sent, 1)
	cfg, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, doc.Caption, cfg.Caption)
	file, ok := cfg.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "data.xlsx", file.Name)
}

func TestDispatcher_OrderPerKey(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, key := range []int64{1, 2, 3} {
			i, key := i, key
			d.Submit(key, func() {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
			})
		}
	}
	d.Wait()

	for _, key := range []int64{1, 2, 3} {
		require.Len(t, got[key], 50)
		for i, v := range got[key] {
			assert.Equal(t, i, v)
		}
	}
}

func TestDispatcher_KeysRunConcurrently(t *testing.T) {
	d := NewDispatcher()
	release := make(chan struct{})
	done := make(chan struct{})

	d.Submit(1, func() { <-release })
	d.Submit(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("key 2 blocked behind key 1")
	}
	close(release)
	d.Wait()
}

type call struct {
	kind string
	user conversation.User
	arg  string
	msg  int
}

type recordingHandler struct {
	mu    sync.Mutex
	calls []call
}

func (h *recordingHandler) record(c call) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, c)
}

func (h *recordingHandler) Start(_ context.Context, u conversation.User) error {
	h.record(call{kind: "start", user: u})
	return nil
}

func (h *recordingHandler) OnButton(ctx context.Context, u conversation.User, data string) error {
	id, _ := origin(ctx)
	h.record(call{kind: "button", user: u, arg: data, msg: id})
	return nil
}

func (h *recordingHandler) OnText(_ context.Context, u conversation.User, text string) error {
	h.record(call{kind: "text", user: u, arg: text})
	return nil
}

func command(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: userID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestBot_RoutesUpdates(t *testing.T) {
	api := newFakeAPI()
	handler := &recordingHandler{}
	bot := NewBot(api, handler, NewTransport(api, zap.NewNop()), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	api.updates <- command(10, "/start")
	api.updates <- tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 10},
		Message: &tgbotapi.Message{MessageID: 99, Chat: &tgbotapi.Chat{ID: 10}},
		Data:    "role:barman",
	}}
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 10},
		Chat: &tgbotapi.Chat{ID: 10},
		Text: "5",
	}}
	api.updates <- command(10, "/ping")

	require.Eventually(t, func() bool {
		handler.mu.Lock()
		defer handler.mu.Unlock()
		return len(handler.calls) == 3
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.sent) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []call{
		{kind: "start", user: conversation.User{ID: 10, ChatID: 10}},
		{kind: "button", user: conversation.User{ID: 10, ChatID: 10}, arg: "role:barman", msg: 99},
		{kind: "text", user: conversation.User{ID: 10, ChatID: 10}, arg: "5"},
	}, handler.calls)

	pong, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "понг", pong.Text)

	callback, ok := api.requests[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb1", callback.CallbackQueryID)
	assert.True(t, api.stopped)
}
