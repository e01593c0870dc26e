package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/bot/common"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
	"github.com/sukalov/lyricsfmt/internal/state"
	"github.com/sukalov/lyricsfmt/internal/users"
	"github.com/sukalov/lyricsfmt/internal/utils"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

const (
	historyLimit   = 5
	previewLength  = 40
	lyricsTimeout  = 30 * time.Second
	storageTimeout = 5 * time.Second
)

// History keeps users and what they formatted.
type History interface {
	RegisterUser(ctx context.Context, chatID int64, username, tgName string) (bool, error)
	IncrementFormatted(ctx context.Context, chatID int64) error
	SaveRecord(ctx context.Context, rec db.Record) (db.Record, error)
	RecentRecords(ctx context.Context, chatID int64, limit int) ([]db.Record, error)
	GetUser(ctx context.Context, chatID int64) (db.User, error)
}

// Counter tracks formats per chat across instances.
type Counter interface {
	IncrementFormatCount(ctx context.Context, chatID int64) error
}

// Deps are the collaborators of the client bot. Everything except State may
// be nil.
type Deps struct {
	State    *state.StateManager
	Pending  *users.PendingManager
	Lyrics   *lyrics.Service
	Stoplist *wordlist.Cache
	History  History
	Counter  Counter
	// StoplistMaxAge triggers a background refresh of older lists.
	StoplistMaxAge time.Duration
}

type ClientHandlers struct {
	Deps
}

func NewClientHandlers(deps Deps) *ClientHandlers {
	if deps.Pending == nil {
		deps.Pending = users.NewPendingManager()
	}
	if deps.Lyrics == nil {
		deps.Lyrics = lyrics.NewService(nil)
	}
	return &ClientHandlers{Deps: deps}
}

// options takes the settings snapshot for one format call.
func (h *ClientHandlers) options(chatID int64) formatter.Options {
	opts := h.State.Get(chatID).Settings.Options()
	if h.Stoplist != nil {
		opts.Stoplist = h.Stoplist.Snapshot()
		if h.StoplistMaxAge > 0 && time.Since(h.Stoplist.UpdatedAt()) > h.StoplistMaxAge {
			h.Stoplist.RefreshAsync()
		}
	}
	return opts
}

func tgName(from *tgbotapi.User) string {
	if from == nil {
		return ""
	}
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}

func username(from *tgbotapi.User) string {
	if from == nil {
		return ""
	}
	return from.UserName
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if h.History != nil {
		_, err := h.History.RegisterUser(context.Background(), message.Chat.ID, username(message.From), tgName(message.From))
		if err != nil {
			log.Printf("error registering user: %v", err)
		}
	}

	return b.SendMessage(message.Chat.ID, "hi!\n\n"+common.HelpText)
}

func (h *ClientHandlers) settingsHandler(b *bot.Bot, update tgbotapi.Update) error {
	s := h.State.Get(update.Message.Chat.ID).Settings
	return b.SendMessageWithButtons(update.Message.Chat.ID, common.SettingsText(s), common.SettingsKeyboard(s))
}

func (h *ClientHandlers) langHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	arg := message.CommandArguments()
	if arg == "" {
		return b.SendMessageWithButtons(message.Chat.ID, "pick the lyrics language", common.LangKeyboard())
	}

	lang, ok := formatter.ParseLang(arg)
	if !ok {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("unknown language %q. try one of: %s", arg, langList()))
	}
	return h.setLang(b, message.Chat.ID, message.From, lang)
}

func langList() string {
	names := make([]string, len(formatter.Langs))
	for i, l := range formatter.Langs {
		names[i] = string(l)
	}
	return strings.Join(names, " ")
}

func (h *ClientHandlers) setLang(b *bot.Bot, chatID int64, from *tgbotapi.User, lang formatter.Lang) error {
	p, err := h.State.Update(context.Background(), chatID, func(p *users.Profile) {
		p.Settings.Lang = lang
		touchProfile(p, from)
	})
	if err != nil {
		return b.SendMessage(chatID, "couldn't save settings, try again later")
	}
	return b.SendMessage(chatID, fmt.Sprintf("language: %s", p.Settings.Lang))
}

func touchProfile(p *users.Profile, from *tgbotapi.User) {
	if from == nil {
		return
	}
	p.Username = username(from)
	p.TgName = tgName(from)
}

// toggle flips one switch and reports the new settings.
func (h *ClientHandlers) toggle(b *bot.Bot, chatID int64, from *tgbotapi.User, flip func(s *users.Settings)) error {
	p, err := h.State.Update(context.Background(), chatID, func(p *users.Profile) {
		flip(&p.Settings)
		touchProfile(p, from)
	})
	if err != nil {
		return b.SendMessage(chatID, "couldn't save settings, try again later")
	}
	return b.SendMessageWithButtons(chatID, common.SettingsText(p.Settings), common.SettingsKeyboard(p.Settings))
}

func flipNumbers(s *users.Settings) { s.AggressiveNumbers = !s.AggressiveNumbers }
func flipLower(s *users.Settings)   { s.AutoLowercase = !s.AutoLowercase }
func flipBV(s *users.Settings)      { s.FixBackingVocals = !s.FixBackingVocals }

func (h *ClientHandlers) toggleCommand(flip func(s *users.Settings)) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		return h.toggle(b, update.Message.Chat.ID, update.Message.From, flip)
	}
}

func (h *ClientHandlers) toggleCallback(flip func(s *users.Settings)) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		query := update.CallbackQuery
		if err := b.AnswerCallback(query, "saved"); err != nil {
			log.Printf("error answering callback: %v", err)
		}
		return h.toggle(b, query.Message.Chat.ID, query.From, flip)
	}
}

func (h *ClientHandlers) langCallback(lang formatter.Lang) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		query := update.CallbackQuery
		if err := b.AnswerCallback(query, string(lang)); err != nil {
			log.Printf("error answering callback: %v", err)
		}
		return h.setLang(b, query.Message.Chat.ID, query.From, lang)
	}
}

func (h *ClientHandlers) checkHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if reply := message.ReplyToMessage; reply != nil && reply.Text != "" {
		return b.SendMessage(message.Chat.ID, common.CheckReport(formatter.Check(reply.Text)))
	}
	if arg := message.CommandArguments(); arg != "" {
		return b.SendMessage(message.Chat.ID, common.CheckReport(formatter.Check(arg)))
	}

	h.Pending.Add(message.Chat.ID, users.StageAwaitingCheck)
	return b.SendMessage(message.Chat.ID, "send the text to check")
}

// textHandler formats any non-command message.
func (h *ClientHandlers) textHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if message == nil || strings.TrimSpace(message.Text) == "" {
		return nil
	}
	chatID := message.Chat.ID
	if message.IsCommand() {
		return b.SendMessage(chatID, "unknown command, see /help")
	}

	if p, ok := h.Pending.Take(chatID); ok && p.Stage == users.StageAwaitingCheck {
		return b.SendMessage(chatID, common.CheckReport(formatter.Check(message.Text)))
	}
	return h.formatAndReply(b, message, message.Text)
}

// formatHandler formats the replied text or the command arguments. Without
// either it waits for the next message.
func (h *ClientHandlers) formatHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message

	if reply := message.ReplyToMessage; reply != nil && reply.Text != "" {
		return h.formatAndReply(b, message, reply.Text)
	}
	if arg := message.CommandArguments(); strings.TrimSpace(arg) != "" {
		return h.formatAndReply(b, message, arg)
	}

	h.Pending.Add(message.Chat.ID, users.StageAwaitingFormat)
	return b.SendMessage(message.Chat.ID, "send the text to format")
}

func (h *ClientHandlers) cancelHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if _, ok := h.Pending.Get(chatID); !ok {
		return b.SendMessage(chatID, "nothing to cancel")
	}
	h.Pending.DeleteByChatID(chatID)
	return b.SendMessage(chatID, "cancelled")
}

func (h *ClientHandlers) formatAndReply(b *bot.Bot, message *tgbotapi.Message, text string) error {
	chatID := message.Chat.ID
	opts := h.options(chatID)
	input, source := text, "telegram"
	var output string

	if lyrics.IsSupported(text) {
		ctx, cancel := context.WithTimeout(context.Background(), lyricsTimeout)
		defer cancel()
		res, err := h.Lyrics.FormatLyrics(ctx, text, opts)
		if err != nil {
			log.Printf("error fetching lyrics: %v", err)
			return b.SendMessage(chatID, "couldn't get lyrics from that link")
		}
		input, output, source = res.Text, res.Formatted, res.Source
	} else {
		output = formatter.Format(input, opts)
	}

	if output == "" {
		return b.SendMessage(chatID, "nothing left to format")
	}

	metrics := formatter.Check(output)
	h.record(message.From, chatID, db.NewRecord(chatID, source, opts.Lang, input, output, metrics))

	if err := b.SendLong(chatID, output); err != nil {
		return err
	}
	return b.SendMessage(chatID, common.Footer(metrics))
}

func (h *ClientHandlers) historyHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.History == nil {
		return b.SendMessage(chatID, "history is not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	records, err := h.History.RecentRecords(ctx, chatID, historyLimit)
	if err != nil {
		log.Printf("error loading history: %v", err)
		return b.SendMessage(chatID, "couldn't load history")
	}
	if len(records) == 0 {
		return b.SendMessage(chatID, "nothing formatted yet")
	}

	total := len(records)
	if u, err := h.History.GetUser(ctx, chatID); err == nil {
		total = u.TimesFormatted
	}
	return b.SendMessage(chatID, historyText(records, total))
}

func historyText(records []db.Record, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "formatted so far: %d\n", total)
	for i, rec := range records {
		fmt.Fprintf(&sb, "\n%d. %s  %s  %s\nL70:%d  V10:%d  #nums:%d\n%s\n",
			i+1,
			utils.FormatTimestamp(rec.CreatedAt),
			rec.Lang,
			rec.Source,
			rec.Over70, rec.LongStanzas, rec.NumeralIssues,
			utils.Truncate(firstLine(rec.Output), previewLength),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// firstLine skips tags and blank lines.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

// record stores the result. Failures only get logged.
func (h *ClientHandlers) record(from *tgbotapi.User, chatID int64, rec db.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if h.History != nil {
		if _, err := h.History.SaveRecord(ctx, rec); err != nil {
			log.Printf("error saving record: %v", err)
		}
		err := h.History.IncrementFormatted(ctx, chatID)
		if errors.Is(err, db.ErrNotFound) {
			if _, err = h.History.RegisterUser(ctx, chatID, username(from), tgName(from)); err == nil {
				err = h.History.IncrementFormatted(ctx, chatID)
			}
		}
		if err != nil {
			log.Printf("error counting format: %v", err)
		}
	}
	if h.Counter != nil {
		if err := h.Counter.IncrementFormatCount(ctx, chatID); err != nil {
			log.Printf("error counting format: %v", err)
		}
	}
}

func (h *ClientHandlers) Handlers() bot.Handlers {
	commandHandlers := common.GetCommandHandlers()
	commandHandlers["start"] = h.startHandler
	commandHandlers["settings"] = h.settingsHandler
	commandHandlers["lang"] = h.langHandler
	commandHandlers["numbers"] = h.toggleCommand(flipNumbers)
	commandHandlers["lower"] = h.toggleCommand(flipLower)
	commandHandlers["bv"] = h.toggleCommand(flipBV)
	commandHandlers["check"] = h.checkHandler
	commandHandlers["format"] = h.formatHandler
	commandHandlers["cancel"] = h.cancelHandler
	commandHandlers["history"] = h.historyHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers[common.ToggleNumbers] = h.toggleCallback(flipNumbers)
	callbackHandlers[common.ToggleLower] = h.toggleCallback(flipLower)
	callbackHandlers[common.ToggleBV] = h.toggleCallback(flipBV)
	for _, l := range formatter.Langs {
		callbackHandlers[common.LangPrefix+string(l)] = h.langCallback(l)
	}

	return bot.Handlers{
		Commands:  commandHandlers,
		Messages:  []bot.HandlerFunc{h.textHandler},
		Callbacks: callbackHandlers,
	}
}

func SetupHandlers(clientBot *bot.Bot, deps Deps) {
	handlers := NewClientHandlers(deps)
	go clientBot.Start(handlers.Handlers())
}
