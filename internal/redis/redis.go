package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/users"
)

const (
	profilesKey     = "profiles"
	formatCountsKey = "stats:formats"
	stoplistKey     = "stoplist"
	settingsChannel = "settings"
)

type DBManager struct {
	client *redisClient.Client
}

func NewDBManager(cfg config.Redis) (*DBManager, error) {
	opt, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	return &DBManager{client: redisClient.NewClient(opt)}, nil
}

// redisOptions accepts a full redis:// or rediss:// URL, or a bare host:port
// that is reached over TLS with the default user.
func redisOptions(cfg config.Redis) (*redisClient.Options, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis url is not configured")
	}
	url := cfg.URL
	if !strings.Contains(url, "://") {
		url = fmt.Sprintf("rediss://default:%s@%s", cfg.Password, cfg.URL)
	}
	opt, err := redisClient.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opt.Password == "" && cfg.Password != "" {
		opt.Password = cfg.Password
	}
	return opt, nil
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// SetProfiles stores the entire list of chat profiles
func (redis *DBManager) SetProfiles(ctx context.Context, list []users.Profile) error {
	listJSON, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, profilesKey, listJSON, 0).Err()
}

// GetProfiles retrieves the list of chat profiles
func (redis *DBManager) GetProfiles(ctx context.Context) ([]users.Profile, error) {
	data, err := redis.client.Get(ctx, profilesKey).Bytes()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return []users.Profile{}, nil
		}
		return nil, err
	}
	var list []users.Profile
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (redis *DBManager) IncrementFormatCount(ctx context.Context, chatID int64) error {
	err := redis.client.HIncrBy(ctx, formatCountsKey, strconv.FormatInt(chatID, 10), 1).Err()
	if err != nil {
		return fmt.Errorf("failed to increment format count for chat %d: %w", chatID, err)
	}
	return nil
}

// GetFormatCounts retrieves the number of formatted texts per chat
func (redis *DBManager) GetFormatCounts(ctx context.Context) (map[int64]int, error) {
	raw, err := redis.client.HGetAll(ctx, formatCountsKey).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return map[int64]int{}, nil
		}
		return nil, err
	}
	return parseCounts(raw), nil
}

func parseCounts(raw map[string]string) map[int64]int {
	result := make(map[int64]int, len(raw))
	for chat, count := range raw {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			continue
		}
		countInt, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[chatID] = countInt
	}
	return result
}
