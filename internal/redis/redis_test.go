package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/formatter"
)

func TestRedisOptions(t *testing.T) {
	t.Run("bare host uses tls", func(t *testing.T) {
		opt, err := redisOptions(config.Redis{URL: "cache.example.com:6379", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "cache.example.com:6379", opt.Addr)
		assert.Equal(t, "default", opt.Username)
		assert.Equal(t, "secret", opt.Password)
		assert.NotNil(t, opt.TLSConfig)
	})

	t.Run("full url", func(t *testing.T) {
		opt, err := redisOptions(config.Redis{URL: "redis://localhost:6379/2", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opt.Addr)
		assert.Equal(t, 2, opt.DB)
		assert.Equal(t, "pw", opt.Password)
		assert.Nil(t, opt.TLSConfig)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := redisOptions(config.Redis{})
		assert.Error(t, err)
	})
}

func TestParseCounts(t *testing.T) {
	got := parseCounts(map[string]string{"42": "3", "-100": "1", "bad": "2", "7": "x"})
	assert.Equal(t, map[int64]int{42: 3, -100: 1}, got)
}

func TestDecodeProfile(t *testing.T) {
	p, err := decodeProfile(`{"chat_id":5,"settings":{"lang":"RU","fix_backing_vocals":true}}`)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ChatID)
	assert.Equal(t, formatter.LangRU, p.Settings.Lang)
	assert.True(t, p.Settings.FixBackingVocals)

	_, err = decodeProfile("{")
	assert.Error(t, err)
}
