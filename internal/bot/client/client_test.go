package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
	"github.com/sukalov/lyricsfmt/internal/lyrics/parsers/amdm"
	"github.com/sukalov/lyricsfmt/internal/state"
	"github.com/sukalov/lyricsfmt/internal/users"
)

const chatID int64 = 42

type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) texts() []string {
	var out []string
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeAPI) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

type fakeHistory struct {
	registered []int64
	records    []db.Record
	formatted  int
}

func (f *fakeHistory) known(chatID int64) bool {
	for _, id := range f.registered {
		if id == chatID {
			return true
		}
	}
	return false
}

func (f *fakeHistory) RegisterUser(_ context.Context, chatID int64, _, _ string) (bool, error) {
	f.registered = append(f.registered, chatID)
	return true, nil
}

func (f *fakeHistory) IncrementFormatted(_ context.Context, chatID int64) error {
	if !f.known(chatID) {
		return db.ErrNotFound
	}
	f.formatted++
	return nil
}

func (f *fakeHistory) RecentRecords(_ context.Context, chatID int64, limit int) ([]db.Record, error) {
	var out []db.Record
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].ChatID == chatID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeHistory) GetUser(_ context.Context, chatID int64) (db.User, error) {
	if !f.known(chatID) {
		return db.User{}, db.ErrNotFound
	}
	return db.User{ChatID: chatID, TimesFormatted: f.formatted}, nil
}

func (f *fakeHistory) SaveRecord(_ context.Context, rec db.Record) (db.Record, error) {
	rec.ID = "id"
	rec.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.records = append(f.records, rec)
	return rec, nil
}

type fakeCounter struct{ n int }

func (f *fakeCounter) IncrementFormatCount(context.Context, int64) error {
	f.n++
	return nil
}

type harness struct {
	api      *fakeAPI
	bot      *bot.Bot
	handlers bot.Handlers
	state    *state.StateManager
	history  *fakeHistory
	counter  *fakeCounter
}

func newHarness(t *testing.T, svc *lyrics.Service) *harness {
	t.Helper()
	h := &harness{
		api:     &fakeAPI{},
		state:   state.NewStateManager(users.DefaultSettings(), nil, nil),
		history: &fakeHistory{},
		counter: &fakeCounter{},
	}
	h.bot = bot.NewWithAPI("client", h.api)
	h.handlers = NewClientHandlers(Deps{
		State:   h.state,
		Lyrics:  svc,
		History: h.history,
		Counter: h.counter,
	}).Handlers()
	return h
}

func (h *harness) text(s string) {
	h.bot.Handle(tgbotapi.Update{Message: &tgbotapi.Message{
		Text: s,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{UserName: "singer", FirstName: "Ann"},
	}}, h.handlers)
}

func (h *harness) command(s string) {
	h.bot.Handle(commandUpdate(s), h.handlers)
}

func (h *harness) press(data string) {
	h.bot.Handle(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q",
		Data:    data,
		From:    &tgbotapi.User{UserName: "singer"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}, h.handlers)
}

func commandUpdate(s string) tgbotapi.Update {
	name := strings.Fields(s)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     s,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{UserName: "singer", FirstName: "Ann"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func TestTextIsFormatted(t *testing.T) {
	h := newHarness(t, nil)
	h.text("im gonna cuz i cant")

	assert.Equal(t, []string{
		"I'm gonna 'cause I can't",
		"formatted ✓  L70:0  V10:0  #nums:0",
	}, h.api.texts())

	require.Len(t, h.history.records, 1)
	rec := h.history.records[0]
	assert.Equal(t, chatID, rec.ChatID)
	assert.Equal(t, "telegram", rec.Source)
	assert.Equal(t, formatter.LangEN, rec.Lang)
	assert.Equal(t, "I'm gonna 'cause I can't", rec.Output)
	// first format registers the chat
	assert.Equal(t, []int64{chatID}, h.history.registered)
	assert.Equal(t, 1, h.history.formatted)
	assert.Equal(t, 1, h.counter.n)
}

func TestBlankTextIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.text("   ")
	assert.Empty(t, h.api.sent)
}

func TestStartRegistersUser(t *testing.T) {
	h := newHarness(t, nil)
	h.command("/start")
	assert.Equal(t, []int64{chatID}, h.history.registered)
	assert.Contains(t, h.api.last(), "/settings")
}

func TestLanguageSetting(t *testing.T) {
	h := newHarness(t, nil)

	h.command("/lang ru")
	assert.Equal(t, "language: RU", h.api.last())
	assert.Equal(t, formatter.LangRU, h.state.Get(chatID).Settings.Lang)
	assert.Equal(t, "singer", h.state.Get(chatID).Username)

	h.text("[Припев]\nя люблю тебя")
	texts := h.api.texts()
	assert.Equal(t, "#CHORUS\nЯ люблю тебя", texts[len(texts)-2])

	h.command("/lang klingon")
	assert.Contains(t, h.api.last(), `unknown language "klingon"`)
	assert.Equal(t, formatter.LangRU, h.state.Get(chatID).Settings.Lang)

	h.command("/lang")
	require.NotNil(t, h.api.sent[len(h.api.sent)-1].ReplyMarkup)

	h.press("lang_ES")
	assert.Equal(t, formatter.LangES, h.state.Get(chatID).Settings.Lang)
	assert.Equal(t, 1, h.api.requests)
}

func TestToggles(t *testing.T) {
	h := newHarness(t, nil)

	h.command("/numbers")
	assert.False(t, h.state.Get(chatID).Settings.AggressiveNumbers)
	assert.Contains(t, h.api.last(), "aggressive numbers: off")

	h.command("/bv")
	assert.False(t, h.state.Get(chatID).Settings.FixBackingVocals)

	h.press("toggle_lower")
	assert.True(t, h.state.Get(chatID).Settings.AutoLowercase)
	assert.Contains(t, h.api.last(), "lowercase output: on")

	h.command("/numbers")
	assert.True(t, h.state.Get(chatID).Settings.AggressiveNumbers)

	h.command("/settings")
	assert.Contains(t, h.api.last(), "language: EN")
}

func TestCheck(t *testing.T) {
	t.Run("waits for the next message", func(t *testing.T) {
		h := newHarness(t, nil)
		h.command("/check")
		assert.Equal(t, "send the text to check", h.api.last())

		h.text("I have 2 dogs")
		assert.Contains(t, h.api.last(), "#nums:1")
		assert.Contains(t, h.api.last(), "line 1")
		assert.Empty(t, h.history.records)

		// the next message is formatted again
		h.text("hello")
		assert.Len(t, h.history.records, 1)
	})

	t.Run("arguments", func(t *testing.T) {
		h := newHarness(t, nil)
		h.command("/check All good here")
		assert.Equal(t, "all good: L70:0  V10:0  #nums:0", h.api.last())
	})

	t.Run("reply", func(t *testing.T) {
		h := newHarness(t, nil)
		update := commandUpdate("/check")
		update.Message.ReplyToMessage = &tgbotapi.Message{Text: strings.Repeat("la ", 30)}
		h.bot.Handle(update, h.handlers)
		assert.Contains(t, h.api.last(), "L70:1")
	})
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, nil)
	h.command("/dance")
	assert.Equal(t, "unknown command, see /help", h.api.last())
	assert.Empty(t, h.history.records)
}

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestAmdmLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`<html><body><pre itemprop="chordsBlock" class="podbor__text"><div class="podbor__keyword">[Припев]:</div>
ла-ла-ла
</pre></body></html>`))
	}))
	defer srv.Close()

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client := &http.Client{Transport: rewriteTransport{target: target}}
	h := newHarness(t, lyrics.NewService(amdm.NewParser(amdm.WithHTTPClient(client))))

	h.command("/lang ru")
	h.text("https://amdm.ru/akkordi/x/1/song/")

	texts := h.api.texts()
	assert.Equal(t, "#CHORUS\nЛа-ла-ла", texts[len(texts)-2])
	require.Len(t, h.history.records, 1)
	assert.Equal(t, "amdm.ru", h.history.records[0].Source)
	assert.Equal(t, "[Припев]\nла-ла-ла", h.history.records[0].Input)

	h.text("https://amdm.ru/missing/")
	assert.Equal(t, "couldn't get lyrics from that link", h.api.last())
}

func TestFormatCommand(t *testing.T) {
	h := newHarness(t, nil)

	h.command("/format 3 little birds")
	assert.Equal(t, "Three little birds", h.api.texts()[0])

	update := commandUpdate("/format")
	update.Message.ReplyToMessage = &tgbotapi.Message{Text: "im here"}
	h.bot.Handle(update, h.handlers)
	texts := h.api.texts()
	assert.Equal(t, "I'm here", texts[len(texts)-2])

	h.command("/format")
	assert.Equal(t, "send the text to format", h.api.last())
	h.text("im back")
	texts = h.api.texts()
	assert.Equal(t, "I'm back", texts[len(texts)-2])
	assert.Len(t, h.history.records, 3)
}

func TestCancel(t *testing.T) {
	h := newHarness(t, nil)

	h.command("/cancel")
	assert.Equal(t, "nothing to cancel", h.api.last())

	h.command("/check")
	h.command("/cancel")
	assert.Equal(t, "cancelled", h.api.last())

	// formatted, not checked
	h.text("im here")
	texts := h.api.texts()
	assert.Equal(t, "I'm here", texts[len(texts)-2])
}

func TestHistory(t *testing.T) {
	h := newHarness(t, nil)

	h.command("/history")
	assert.Equal(t, "nothing formatted yet", h.api.last())

	h.text("[Verse 1]\nim gonna cuz i cant")
	h.text("hello there")
	h.command("/history")

	want := "formatted so far: 2\n" +
		"\n1. 2026-03-01 12:00:00  EN  telegram\nL70:0  V10:0  #nums:0\nHello there\n" +
		"\n2. 2026-03-01 12:00:00  EN  telegram\nL70:0  V10:0  #nums:0\nI'm gonna 'cause I can't"
	assert.Equal(t, want, h.api.last())
}

func TestHistoryText(t *testing.T) {
	rec := db.Record{
		Lang:      formatter.LangRU,
		Source:    "amdm.ru",
		Output:    "#VERSE\n" + strings.Repeat("ля", 30),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	got := historyText([]db.Record{rec}, 7)
	assert.Equal(t, "formatted so far: 7\n\n1. 2026-03-01 12:00:00  RU  amdm.ru\nL70:0  V10:0  #nums:0\n"+strings.Repeat("ля", 19)+"л…", got)
}
