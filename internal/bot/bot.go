package bot

import (
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

// API is the part of tgbotapi.BotAPI the bots use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type HandlerFunc func(b *Bot, update tgbotapi.Update) error

// Handlers routes updates: commands by name, callbacks by data, and
// everything else through the message handlers in order.
type Handlers struct {
	Commands  map[string]HandlerFunc
	Messages  []HandlerFunc
	Callbacks map[string]HandlerFunc
}

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     API
	Username   string
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		Username:   botClient.Self.UserName,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// NewWithAPI wraps an existing client. The bot receives no updates by
// itself; feed them to Handle.
func NewWithAPI(name string, api API) *Bot {
	return &Bot{
		Client:   api,
		stopChan: make(chan struct{}),
		name:     name,
	}
}

// Start processes updates until Stop is called.
func (b *Bot) Start(h Handlers) {
	log.Printf("[%s] authorized on account %s", b.name, b.Username)

	for {
		select {
		case update := <-b.updateChan:
			go b.Handle(update, h)
		case <-b.stopChan:
			return
		}
	}
}

// Handle dispatches one update.
func (b *Bot) Handle(update tgbotapi.Update, h Handlers) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := h.Commands[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] command handler error: %v", b.name, err)
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		if handler, exists := h.Callbacks[update.CallbackQuery.Data]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] callback handler error: %v", b.name, err)
			}
			return
		}
	}

	for _, handler := range h.Messages {
		if err := handler(b, update); err != nil {
			log.Printf("[%s] message handler error: %v", b.name, err)
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChan <- struct{}{}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.Client.Send(msg)
	return err
}

// SendLong sends text in as many messages as the length limit needs.
func (b *Bot) SendLong(chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := b.SendMessage(chatID, part); err != nil {
			return err
		}
	}
	return nil
}

// AnswerCallback stops the spinner on the pressed button.
func (b *Bot) AnswerCallback(query *tgbotapi.CallbackQuery, text string) error {
	_, err := b.Client.Request(tgbotapi.NewCallback(query.ID, text))
	return err
}
