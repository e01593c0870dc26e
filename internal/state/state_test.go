package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/users"
)

type memStore struct {
	mu      sync.Mutex
	list    []users.Profile
	saveErr error
}

func (m *memStore) GetProfiles(context.Context) ([]users.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]users.Profile(nil), m.list...), nil
}

func (m *memStore) SetProfiles(_ context.Context, list []users.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.list = list
	return nil
}

type recordingPublisher struct {
	published []users.Profile
}

func (r *recordingPublisher) PublishProfile(_ context.Context, p users.Profile) error {
	r.published = append(r.published, p)
	return nil
}

func TestStateManager(t *testing.T) {
	ctx := context.Background()
	store := &memStore{list: []users.Profile{{ChatID: 1, Settings: users.Settings{Lang: formatter.LangRU}}}}
	pub := &recordingPublisher{}
	sm := NewStateManager(users.DefaultSettings(), store, pub)
	require.NoError(t, sm.Init(ctx))

	assert.Equal(t, formatter.LangRU, sm.Get(1).Settings.Lang)

	fresh := sm.Get(2)
	assert.Equal(t, int64(2), fresh.ChatID)
	assert.Equal(t, users.DefaultSettings(), fresh.Settings)

	p, err := sm.Update(ctx, 2, func(p *users.Profile) {
		p.Settings.AutoLowercase = true
	})
	require.NoError(t, err)
	assert.True(t, p.Settings.AutoLowercase)
	assert.True(t, sm.Get(2).Settings.AutoLowercase)
	assert.Len(t, store.list, 2)
	require.Len(t, pub.published, 1)
	assert.Equal(t, int64(2), pub.published[0].ChatID)
	assert.Equal(t, 2, sm.Count())
}

func TestStateManagerSnapshot(t *testing.T) {
	sm := NewStateManager(users.DefaultSettings(), nil, nil)
	before := sm.Get(7)
	_, err := sm.Update(context.Background(), 7, func(p *users.Profile) {
		p.Settings.Lang = formatter.LangES
	})
	require.NoError(t, err)
	assert.Equal(t, formatter.LangEN, before.Settings.Lang)
	assert.Equal(t, formatter.LangES, sm.Get(7).Settings.Lang)
}

func TestStateManagerApply(t *testing.T) {
	sm := NewStateManager(users.DefaultSettings(), nil, nil)
	now := time.Now()

	sm.Apply(users.Profile{ChatID: 3, Settings: users.Settings{Lang: formatter.LangIT}, UpdatedAt: now})
	sm.Apply(users.Profile{ChatID: 3, Settings: users.Settings{Lang: formatter.LangPT}, UpdatedAt: now.Add(-time.Minute)})
	assert.Equal(t, formatter.LangIT, sm.Get(3).Settings.Lang)

	sm.Apply(users.Profile{ChatID: 3, Settings: users.Settings{Lang: formatter.LangEL}, UpdatedAt: now.Add(time.Minute)})
	assert.Equal(t, formatter.LangEL, sm.Get(3).Settings.Lang)
}

func TestStateManagerStoreError(t *testing.T) {
	store := &memStore{saveErr: errors.New("down")}
	sm := NewStateManager(users.DefaultSettings(), store, nil)
	_, err := sm.Update(context.Background(), 1, func(p *users.Profile) {})
	assert.Error(t, err)
	assert.Equal(t, int64(1), sm.Get(1).ChatID)
}

func TestStateManagerGetAllOrder(t *testing.T) {
	sm := NewStateManager(users.DefaultSettings(), nil, nil)
	now := time.Now()
	sm.Apply(users.Profile{ChatID: 1, UpdatedAt: now})
	sm.Apply(users.Profile{ChatID: 2, UpdatedAt: now.Add(-time.Hour)})

	all := sm.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ChatID)

	require.NoError(t, sm.Clear(context.Background()))
	assert.Zero(t, sm.Count())
}

func TestConcurrentUpdatesSaveNewestList(t *testing.T) {
	store := &memStore{}
	sm := NewStateManager(users.DefaultSettings(), store, nil)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			_, err := sm.Update(context.Background(), chatID, func(p *users.Profile) { p.Username = "u" })
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	saved, err := store.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, 20)
}
