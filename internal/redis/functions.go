package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/users"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

// PublishProfile tells every other instance that a chat changed its settings.
func (redis *DBManager) PublishProfile(ctx context.Context, p users.Profile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return redis.client.Publish(ctx, settingsChannel, payload).Err()
}

// Subscribe calls fn for every profile published until ctx is done.
func (redis *DBManager) Subscribe(ctx context.Context, fn func(users.Profile)) error {
	sub := redis.client.Subscribe(ctx, settingsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				p, err := decodeProfile(msg.Payload)
				if err != nil {
					logger.LogWithErr("failed to decode settings notification", err)
					continue
				}
				fn(p)
			}
		}
	}()
	return nil
}

func decodeProfile(payload string) (users.Profile, error) {
	var p users.Profile
	err := json.Unmarshal([]byte(payload), &p)
	return p, err
}

// LoadStoplist returns the cached stoplist, or nil when none was saved.
func (redis *DBManager) LoadStoplist(ctx context.Context) (wordlist.Set, error) {
	data, err := redis.client.Get(ctx, stoplistKey).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return wordlist.Parse(strings.NewReader(data))
}

func (redis *DBManager) SaveStoplist(ctx context.Context, words wordlist.Set) error {
	return redis.client.Set(ctx, stoplistKey, words.Format(), 0).Err()
}
