package wordlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sukalov/lyricsfmt/internal/logger"
)

// Store persists the last fetched list so a restart does not fall back to
// the embedded one.
type Store interface {
	LoadStoplist(ctx context.Context) (Set, error)
	SaveStoplist(ctx context.Context, words Set) error
}

// Cache serves the current stoplist. Readers get an immutable snapshot and
// never wait for a refresh.
type Cache struct {
	url        string
	httpClient *http.Client
	store      Store

	current    atomic.Pointer[Set]
	refreshing atomic.Bool
	updatedAt  atomic.Int64
}

// NewCache builds a cache that refreshes from url. Both url and store may be
// empty, leaving the embedded list in place.
func NewCache(url string, store Store) *Cache {
	return &Cache{
		url:        url,
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Snapshot returns the list in effect right now.
func (c *Cache) Snapshot() Set {
	if p := c.current.Load(); p != nil {
		return *p
	}
	return Default()
}

// UpdatedAt is the time of the last successful load or refresh.
func (c *Cache) UpdatedAt() time.Time {
	ts := c.updatedAt.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(0, ts)
}

func (c *Cache) set(words Set) {
	merged := Default().Merge(words)
	c.current.Store(&merged)
	c.updatedAt.Store(time.Now().UnixNano())
}

// Load reads the persisted list, if any.
func (c *Cache) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	words, err := c.store.LoadStoplist(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stoplist: %w", err)
	}
	if words.Len() > 0 {
		c.set(words)
	}
	return nil
}

// Refresh downloads the list, swaps it in and persists it. It returns the
// number of words fetched.
func (c *Cache) Refresh(ctx context.Context) (int, error) {
	if c.url == "" {
		return 0, fmt.Errorf("no stoplist url configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch stoplist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	words, err := Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, err
	}
	if words.Len() == 0 {
		return 0, fmt.Errorf("stoplist at %s is empty", c.url)
	}
	c.set(words)

	if c.store != nil {
		if err := c.store.SaveStoplist(ctx, words); err != nil {
			return words.Len(), fmt.Errorf("failed to save stoplist: %w", err)
		}
	}
	return words.Len(), nil
}

// RefreshAsync starts a refresh in the background unless one is running.
// Failures are logged and the previous list stays in effect.
func (c *Cache) RefreshAsync() {
	if c.url == "" || !c.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.refreshing.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := c.Refresh(ctx)
		if err != nil {
			logger.LogWithErr("stoplist refresh failed", err)
			return
		}
		logger.Success(fmt.Sprintf("stoplist refreshed: %d words", n))
	}()
}

// RefreshEvery refreshes in the background on every tick until ctx is done.
func (c *Cache) RefreshEvery(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.RefreshAsync()
		case <-ctx.Done():
			return
		}
	}
}
