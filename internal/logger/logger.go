package logger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sukalov/lyricsfmt/internal/utils"
	"github.com/sukalov/lyricsfmt/internal/utils/e"
)

var (
	ChannelID int64
	once      sync.Once
	mu        sync.RWMutex
	botClient BotClient
	debug     = true
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init mirrors every log line to the Telegram channel channelID. Without it
// the logger writes to stderr only.
func Init(client BotClient, channelID int64) error {
	if channelID == 0 {
		return fmt.Errorf("log channel id is not set")
	}

	initErr := fmt.Errorf("logger already initialized")
	once.Do(func() {
		mu.Lock()
		ChannelID = channelID
		botClient = client
		mu.Unlock()
		initErr = nil
	})

	return initErr
}

// SetDebug turns Debug messages on or off.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	mu.RLock()
	enabled := debug
	mu.RUnlock()
	if !enabled {
		return
	}
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	log.Printf("%s %s", prefix, message)

	mu.RLock()
	client, channelID := botClient, ChannelID
	mu.RUnlock()
	if client == nil {
		return
	}

	timestamp := utils.FormatTimestamp(time.Now())
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channelID, logMessage); err != nil {
			log.Printf("failed to send log to channel: %v", err)
		}
	}()
}

// LogWithErr logs message as an error when err is set and returns err
// wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return e.Wrap(message, err)
}
