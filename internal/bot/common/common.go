package common

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/users"
)

const HelpText = `send me lyrics and i'll send them back formatted.

an amdm.ru link works too: i'll fetch the song and format it.

/settings - show and change formatting switches
/lang <code> - lyrics language (EN RU ES PT FR IT EL)
/numbers - toggle aggressive number handling
/lower - toggle lowercase output
/bv - toggle backing vocal fixes
/check - check text without formatting it
/format <text> - format text given with the command
/cancel - forget a pending /check or /format
/history - your last formats`

func GetCommandHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"help": helpHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{}
}

func helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, HelpText)
}

// Footer is the one-line summary sent after formatted text.
func Footer(m formatter.Metrics) string {
	mark := "✓"
	if !m.Clean() {
		mark = "⚠"
	}
	return fmt.Sprintf("formatted %s  %s", mark, m.String())
}

// CheckReport lists what the checker found in text.
func CheckReport(m formatter.Metrics) string {
	if m.Clean() {
		return "all good: " + m.String()
	}
	return m.String() + "\n\n" + m.Report()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func SettingsText(s users.Settings) string {
	return fmt.Sprintf(
		"current settings:\n\nlanguage: %s\naggressive numbers: %s\nlowercase output: %s\nbacking vocal fixes: %s",
		s.Lang,
		onOff(s.AggressiveNumbers),
		onOff(s.AutoLowercase),
		onOff(s.FixBackingVocals),
	)
}

// Callback data of the settings keyboard.
const (
	ToggleNumbers = "toggle_numbers"
	ToggleLower   = "toggle_lower"
	ToggleBV      = "toggle_bv"
	LangPrefix    = "lang_"
)

func SettingsKeyboard(s users.Settings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("numbers: "+onOff(s.AggressiveNumbers), ToggleNumbers),
			tgbotapi.NewInlineKeyboardButtonData("lower: "+onOff(s.AutoLowercase), ToggleLower),
			tgbotapi.NewInlineKeyboardButtonData("bv: "+onOff(s.FixBackingVocals), ToggleBV),
		),
	)
}

func LangKeyboard() tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, l := range formatter.Langs {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(l), LangPrefix+string(l)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
