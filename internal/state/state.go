package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/users"
)

// Store persists chat profiles. *redis.DBManager implements it.
type Store interface {
	GetProfiles(ctx context.Context) ([]users.Profile, error)
	SetProfiles(ctx context.Context, list []users.Profile) error
}

// Publisher announces a profile change to other instances.
type Publisher interface {
	PublishProfile(ctx context.Context, p users.Profile) error
}

// StateManager keeps every chat's settings in memory. Readers get a copy, so
// a settings change never alters a format run already in progress.
type StateManager struct {
	mu sync.RWMutex
	// saveMu orders saves, so the store always ends with the newest list.
	saveMu    sync.Mutex
	profiles  map[int64]users.Profile
	defaults  users.Settings
	store     Store
	publisher Publisher
}

type ByUpdated []users.Profile

func (a ByUpdated) Len() int           { return len(a) }
func (a ByUpdated) Less(i, j int) bool { return a[i].UpdatedAt.Before(a[j].UpdatedAt) }
func (a ByUpdated) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// NewStateManager builds a manager. store and publisher may be nil, which
// keeps everything in memory.
func NewStateManager(defaults users.Settings, store Store, publisher Publisher) *StateManager {
	return &StateManager{
		profiles:  map[int64]users.Profile{},
		defaults:  defaults,
		store:     store,
		publisher: publisher,
	}
}

func (sm *StateManager) Init(ctx context.Context) error {
	if sm.store == nil {
		return nil
	}
	list, err := sm.store.GetProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, p := range list {
		sm.profiles[p.ChatID] = p
	}
	return nil
}

// Get returns the profile of a chat, or a fresh one with the default settings.
func (sm *StateManager) Get(chatID int64) users.Profile {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if p, ok := sm.profiles[chatID]; ok {
		return p
	}
	return users.Profile{ChatID: chatID, Settings: sm.defaults}
}

// Update applies fn to the chat's profile, saves the whole list and
// publishes the change.
func (sm *StateManager) Update(ctx context.Context, chatID int64, fn func(p *users.Profile)) (users.Profile, error) {
	sm.saveMu.Lock()
	defer sm.saveMu.Unlock()

	sm.mu.Lock()
	p, ok := sm.profiles[chatID]
	if !ok {
		p = users.Profile{ChatID: chatID, Settings: sm.defaults}
	}
	fn(&p)
	p.ChatID = chatID
	p.UpdatedAt = time.Now()
	sm.profiles[chatID] = p
	list := sm.listLocked()
	sm.mu.Unlock()

	if sm.store != nil {
		if err := sm.store.SetProfiles(ctx, list); err != nil {
			return p, logger.LogWithErr("error happened while saving profiles", err)
		}
	}
	if sm.publisher != nil {
		if err := sm.publisher.PublishProfile(ctx, p); err != nil {
			logger.LogWithErr("error happened while publishing profile", err)
		}
	}
	return p, nil
}

// Apply takes a profile announced by another instance. Older copies are
// ignored.
func (sm *StateManager) Apply(p users.Profile) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if cur, ok := sm.profiles[p.ChatID]; ok && cur.UpdatedAt.After(p.UpdatedAt) {
		return
	}
	sm.profiles[p.ChatID] = p
}

// GetAll returns every profile, oldest change first.
func (sm *StateManager) GetAll() []users.Profile {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.listLocked()
}

func (sm *StateManager) listLocked() []users.Profile {
	list := make([]users.Profile, 0, len(sm.profiles))
	for _, p := range sm.profiles {
		list = append(list, p)
	}
	sort.Sort(ByUpdated(list))
	return list
}

func (sm *StateManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.profiles)
}

func (sm *StateManager) Sync(ctx context.Context) error {
	sm.saveMu.Lock()
	defer sm.saveMu.Unlock()
	return sm.syncLocked(ctx)
}

func (sm *StateManager) syncLocked(ctx context.Context) error {
	if sm.store == nil {
		return nil
	}
	if err := sm.store.SetProfiles(ctx, sm.GetAll()); err != nil {
		return logger.LogWithErr("error happened while syncing profiles", err)
	}
	return nil
}

func (sm *StateManager) Clear(ctx context.Context) error {
	sm.saveMu.Lock()
	defer sm.saveMu.Unlock()

	sm.mu.Lock()
	sm.profiles = map[int64]users.Profile{}
	sm.mu.Unlock()
	return sm.syncLocked(ctx)
}
