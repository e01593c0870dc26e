package users

import (
	"sync"
	"time"

	"github.com/sukalov/lyricsfmt/internal/formatter"
)

// Settings are the formatter switches a chat can change.
type Settings struct {
	Lang              formatter.Lang `json:"lang"`
	AggressiveNumbers bool           `json:"aggressive_numbers"`
	AutoLowercase     bool           `json:"auto_lowercase"`
	FixBackingVocals  bool           `json:"fix_backing_vocals"`
}

type Profile struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	TgName    string    `json:"tg_name"`
	Settings  Settings  `json:"settings"`
	UpdatedAt time.Time `json:"updated_at"`
}

func SettingsFromOptions(o formatter.Options) Settings {
	return Settings{
		Lang:              o.Lang,
		AggressiveNumbers: o.AggressiveNumbers,
		AutoLowercase:     o.AutoLowercase,
		FixBackingVocals:  o.FixBackingVocals,
	}
}

func DefaultSettings() Settings {
	return SettingsFromOptions(formatter.DefaultOptions())
}

// Options builds the snapshot one Format call uses.
func (s Settings) Options() formatter.Options {
	opts := formatter.DefaultOptions()
	opts.Lang, _ = formatter.ParseLang(string(s.Lang))
	opts.AggressiveNumbers = s.AggressiveNumbers
	opts.AutoLowercase = s.AutoLowercase
	opts.FixBackingVocals = s.FixBackingVocals
	return opts
}

const (
	StageAwaitingCheck  = "awaiting_check"
	StageAwaitingFormat = "awaiting_format"
)

// Pending is a command waiting for the chat's next message.
type Pending struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Stage     string    `json:"stage"`
	TimeAdded time.Time `json:"time_added"`
}

// PendingManager tracks pending commands with thread-safety
type PendingManager struct {
	pending []Pending
	mu      sync.RWMutex
	nextID  int64
}

func NewPendingManager() *PendingManager {
	return &PendingManager{
		pending: []Pending{},
		nextID:  1,
	}
}

// Add replaces whatever the chat was waiting for and returns the new ID.
func (m *PendingManager) Add(chatID int64, stage string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteLocked(chatID)
	p := Pending{
		ID:        m.nextID,
		ChatID:    chatID,
		Stage:     stage,
		TimeAdded: time.Now(),
	}
	m.pending = append(m.pending, p)
	m.nextID++

	return p.ID
}

// Get retrieves the pending command of a chat
func (m *PendingManager) Get(chatID int64) (Pending, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.pending {
		if p.ChatID == chatID {
			return p, true
		}
	}
	return Pending{}, false
}

// Take returns and removes the pending command of a chat.
func (m *PendingManager) Take(chatID int64) (Pending, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.pending {
		if p.ChatID == chatID {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return p, true
		}
	}
	return Pending{}, false
}

func (m *PendingManager) DeleteByChatID(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(chatID)
}

func (m *PendingManager) deleteLocked(chatID int64) {
	var remaining []Pending
	for _, p := range m.pending {
		if p.ChatID != chatID {
			remaining = append(remaining, p)
		}
	}
	m.pending = remaining
}

// GetAll returns all pending commands
func (m *PendingManager) GetAll() []Pending {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Pending(nil), m.pending...)
}

// Clear removes all pending commands
func (m *PendingManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = []Pending{}
	m.nextID = 1
}
