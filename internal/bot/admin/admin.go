package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/bot/common"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/state"
	"github.com/sukalov/lyricsfmt/internal/utils"
)

// StatsSource reports totals from the database.
type StatsSource interface {
	Stats(ctx context.Context) (db.Stats, error)
}

// CountSource reports formats per chat.
type CountSource interface {
	GetFormatCounts(ctx context.Context) (map[int64]int, error)
}

// Stoplist is the refreshable exclusion list.
type Stoplist interface {
	Refresh(ctx context.Context) (int, error)
	UpdatedAt() time.Time
}

type Deps struct {
	State    *state.StateManager
	Stoplist Stoplist
	Stats    StatsSource
	Counts   CountSource
	Admins   []string
}

type AdminHandlers struct {
	Deps
	admins          map[string]bool
	clearInProgress atomic.Bool
}

// topChats is how many chats /stats lists.
const topChats = 5

func NewAdminHandlers(deps Deps) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range deps.Admins {
		admins[strings.TrimPrefix(username, "@")] = true
	}

	return &AdminHandlers{
		Deps:   deps,
		admins: admins,
	}
}

// onlyAdmins wraps a command so other users get a refusal.
func (h *AdminHandlers) onlyAdmins(next bot.HandlerFunc) bot.HandlerFunc {
	return func(b *bot.Bot, update tgbotapi.Update) error {
		message := update.Message
		if message.From == nil || !h.admins[message.From.UserName] {
			return b.SendMessage(message.Chat.ID, "you are not an admin")
		}
		return next(b, update)
	}
}

func (h *AdminHandlers) refreshStoplistHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.Stoplist == nil {
		return b.SendMessage(chatID, "stoplist is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := h.Stoplist.Refresh(ctx)
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("refresh failed: %v", err))
	}
	return b.SendMessage(chatID, fmt.Sprintf("stoplist refreshed: %d words", n))
}

func (h *AdminHandlers) statsHandler(b *bot.Bot, update tgbotapi.Update) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.SendMessage(update.Message.Chat.ID, h.statsText(ctx))
}

func (h *AdminHandlers) statsText(ctx context.Context) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "chats with settings: %d", h.State.Count())

	if h.Stats != nil {
		s, err := h.Stats.Stats(ctx)
		if err != nil {
			fmt.Fprintf(&sb, "\ndatabase: %v", err)
		} else {
			fmt.Fprintf(&sb, "\nusers: %d\nformatted: %d (clean: %d)", s.Users, s.Records, s.CleanRecords)
		}
	}

	if h.Stoplist != nil {
		updated := "never"
		if ts := h.Stoplist.UpdatedAt(); !ts.IsZero() {
			updated = utils.FormatTimestamp(ts)
		}
		fmt.Fprintf(&sb, "\nstoplist updated: %s", updated)
	}

	if h.Counts != nil {
		counts, err := h.Counts.GetFormatCounts(ctx)
		if err != nil {
			fmt.Fprintf(&sb, "\ncounts: %v", err)
		} else if len(counts) > 0 {
			sb.WriteString("\n\ntop chats:")
			for i, c := range topCounts(counts, topChats) {
				fmt.Fprintf(&sb, "\n%d. %d: %d", i+1, c.chatID, c.n)
			}
		}
	}
	return sb.String()
}

type chatCount struct {
	chatID int64
	n      int
}

func topCounts(counts map[int64]int, limit int) []chatCount {
	list := make([]chatCount, 0, len(counts))
	for id, n := range counts {
		list = append(list, chatCount{id, n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].n != list[j].n {
			return list[i].n > list[j].n
		}
		return list[i].chatID < list[j].chatID
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (h *AdminHandlers) clearSettingsHandler(b *bot.Bot, update tgbotapi.Update) error {
	h.clearInProgress.Store(true)
	return b.SendMessageWithButtons(update.Message.Chat.ID, "all chat settings will be reset to defaults. sure?",
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("reset", "confirm_clear_settings"),
				tgbotapi.NewInlineKeyboardButtonData("cancel", "abort_clear_settings"),
			),
		),
	)
}

func (h *AdminHandlers) confirmHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID
	if !h.clearInProgress.CompareAndSwap(true, false) {
		return b.SendMessage(chatID, "that button no longer works")
	}
	if err := h.State.Clear(context.Background()); err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("reset failed: %v", err))
	}
	return b.SendMessage(chatID, "settings reset")
}

func (h *AdminHandlers) abortHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID
	if h.clearInProgress.CompareAndSwap(true, false) {
		return b.SendMessage(chatID, "ok, cancelled")
	}
	return b.SendMessage(chatID, "that button no longer works")
}

func (h *AdminHandlers) Handlers() bot.Handlers {
	commandHandlers := common.GetCommandHandlers()
	commandHandlers["refresh_stoplist"] = h.onlyAdmins(h.refreshStoplistHandler)
	commandHandlers["stats"] = h.onlyAdmins(h.statsHandler)
	commandHandlers["clear_settings"] = h.onlyAdmins(h.clearSettingsHandler)

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["abort_clear_settings"] = h.abortHandler
	callbackHandlers["confirm_clear_settings"] = h.confirmHandler

	return bot.Handlers{Commands: commandHandlers, Callbacks: callbackHandlers}
}

func SetupHandlers(adminBot *bot.Bot, deps Deps) {
	handlers := NewAdminHandlers(deps)
	go adminBot.Start(handlers.Handlers())
}
