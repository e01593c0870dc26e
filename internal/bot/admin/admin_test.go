package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/state"
	"github.com/sukalov/lyricsfmt/internal/users"
)

type fakeAPI struct {
	sent []string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last() string {
	return f.sent[len(f.sent)-1]
}

type fakeStoplist struct {
	n       int
	err     error
	updated time.Time
}

func (f *fakeStoplist) Refresh(context.Context) (int, error) {
	if f.err == nil {
		f.updated = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return f.n, f.err
}

func (f *fakeStoplist) UpdatedAt() time.Time { return f.updated }

type fakeStats struct{}

func (fakeStats) Stats(context.Context) (db.Stats, error) {
	return db.Stats{Users: 3, Records: 10, CleanRecords: 7}, nil
}

type fakeCounts map[int64]int

func (f fakeCounts) GetFormatCounts(context.Context) (map[int64]int, error) {
	return f, nil
}

func commandFrom(user, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 7},
		From:     &tgbotapi.User{UserName: user},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func press(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		Data:    data,
		From:    &tgbotapi.User{UserName: "boss"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}}
}

func setup(stoplist Stoplist) (*fakeAPI, *bot.Bot, bot.Handlers, *state.StateManager) {
	api := &fakeAPI{}
	sm := state.NewStateManager(users.DefaultSettings(), nil, nil)
	h := NewAdminHandlers(Deps{
		State:    sm,
		Stoplist: stoplist,
		Stats:    fakeStats{},
		Counts:   fakeCounts{1: 2, 2: 9, 3: 2},
		Admins:   []string{"@boss"},
	})
	return api, bot.NewWithAPI("admin", api), h.Handlers(), sm
}

func TestOnlyAdmins(t *testing.T) {
	api, b, h, _ := setup(&fakeStoplist{})
	b.Handle(commandFrom("stranger", "/stats"), h)
	assert.Equal(t, "you are not an admin", api.last())
}

func TestRefreshStoplist(t *testing.T) {
	api, b, h, _ := setup(&fakeStoplist{n: 120})
	b.Handle(commandFrom("boss", "/refresh_stoplist"), h)
	assert.Equal(t, "stoplist refreshed: 120 words", api.last())

	api, b, h, _ = setup(&fakeStoplist{err: errors.New("HTTP error! status: 500")})
	b.Handle(commandFrom("boss", "/refresh_stoplist"), h)
	assert.Equal(t, "refresh failed: HTTP error! status: 500", api.last())

	api, b, h, _ = setup(nil)
	b.Handle(commandFrom("boss", "/refresh_stoplist"), h)
	assert.Equal(t, "stoplist is not configured", api.last())
}

func TestStats(t *testing.T) {
	api, b, h, sm := setup(&fakeStoplist{})
	_, err := sm.Update(context.Background(), 1, func(p *users.Profile) { p.Settings.AutoLowercase = true })
	assert.NoError(t, err)

	b.Handle(commandFrom("boss", "/stats"), h)
	want := "chats with settings: 1\n" +
		"users: 3\nformatted: 10 (clean: 7)\n" +
		"stoplist updated: never\n\n" +
		"top chats:\n1. 2: 9\n2. 1: 2\n3. 3: 2"
	assert.Equal(t, want, api.last())
}

func TestClearSettings(t *testing.T) {
	api, b, h, sm := setup(nil)
	_, err := sm.Update(context.Background(), 1, func(p *users.Profile) { p.Settings.AutoLowercase = true })
	assert.NoError(t, err)

	b.Handle(commandFrom("boss", "/clear_settings"), h)
	b.Handle(press("abort_clear_settings"), h)
	assert.Equal(t, "ok, cancelled", api.last())
	assert.Equal(t, 1, sm.Count())

	b.Handle(press("confirm_clear_settings"), h)
	assert.Equal(t, "that button no longer works", api.last())

	b.Handle(commandFrom("boss", "/clear_settings"), h)
	b.Handle(press("confirm_clear_settings"), h)
	assert.Equal(t, "settings reset", api.last())
	assert.Equal(t, 0, sm.Count())
}

func TestTopCounts(t *testing.T) {
	got := topCounts(map[int64]int{5: 1, 6: 3, 7: 2}, 2)
	assert.Equal(t, []chatCount{{6, 3}, {7, 2}}, got)
}
