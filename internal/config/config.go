package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/utils"
	"gopkg.in/yaml.v3"
)

type Format struct {
	Lang              string `yaml:"lang"`
	AggressiveNumbers bool   `yaml:"aggressive_numbers"`
	AutoLowercase     bool   `yaml:"auto_lowercase"`
	FixBackingVocals  bool   `yaml:"fix_backing_vocals"`
}

type Redis struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Database selects the history store. A remote URL wins over the local path.
type Database struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
	Path      string `yaml:"path"`
}

type Bot struct {
	Token        string   `yaml:"token"`
	AdminToken   string   `yaml:"admin_token"`
	LogChannelID int64    `yaml:"log_channel_id"`
	Admins       []string `yaml:"admins"`
}

type HTTP struct {
	Address     string   `yaml:"address"`
	RateLimit   int      `yaml:"rate_limit"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type Stoplist struct {
	URL             string        `yaml:"url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type Config struct {
	Format   Format   `yaml:"format"`
	Redis    Redis    `yaml:"redis"`
	Database Database `yaml:"database"`
	Bot      Bot      `yaml:"bot"`
	HTTP     HTTP     `yaml:"http"`
	Stoplist Stoplist `yaml:"stoplist"`
}

var envVars = []string{
	"BOT_TOKEN",
	"ADMIN_BOT_TOKEN",
	"LOG_CHANNEL_ID",
	"ADMINS",
	"REDIS_URL",
	"REDIS_PASSWORD",
	"TURSO_DATABASE_URL",
	"TURSO_AUTH_TOKEN",
	"LYRICS_DB_PATH",
	"STOPLIST_URL",
	"HTTP_ADDR",
	"FORMAT_LANG",
}

func Defaults() Config {
	opts := formatter.DefaultOptions()
	return Config{
		Format: Format{
			Lang:              string(opts.Lang),
			AggressiveNumbers: opts.AggressiveNumbers,
			AutoLowercase:     opts.AutoLowercase,
			FixBackingVocals:  opts.FixBackingVocals,
		},
		Database: Database{
			Path: "lyricsfmt.db",
		},
		HTTP: HTTP{
			Address:     ":8080",
			RateLimit:   10,
			CORSOrigins: []string{"*"},
		},
		Stoplist: Stoplist{
			RefreshInterval: 24 * time.Hour,
		},
	}
}

// Load reads the optional YAML file at path on top of the defaults, then
// applies .env and environment overrides.
func Load(path string) (*Config, error) {
	c := Defaults()

	if path != "" {
		if err := parseFile(path, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(utils.LoadOptionalEnv(envVars)); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func parseFile(path string, c *Config) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return err
	}

	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) applyEnv(env map[string]string) error {
	set := func(key string, dst *string) {
		if v, ok := env[key]; ok {
			*dst = v
		}
	}

	set("BOT_TOKEN", &c.Bot.Token)
	set("ADMIN_BOT_TOKEN", &c.Bot.AdminToken)
	set("REDIS_URL", &c.Redis.URL)
	set("REDIS_PASSWORD", &c.Redis.Password)
	set("TURSO_DATABASE_URL", &c.Database.URL)
	set("TURSO_AUTH_TOKEN", &c.Database.AuthToken)
	set("LYRICS_DB_PATH", &c.Database.Path)
	set("STOPLIST_URL", &c.Stoplist.URL)
	set("HTTP_ADDR", &c.HTTP.Address)
	set("FORMAT_LANG", &c.Format.Lang)

	if v, ok := env["LOG_CHANNEL_ID"]; ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
		}
		c.Bot.LogChannelID = id
	}

	if v, ok := env["ADMINS"]; ok {
		c.Bot.Admins = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimPrefix(strings.TrimSpace(name), "@"); name != "" {
				c.Bot.Admins = append(c.Bot.Admins, name)
			}
		}
	}

	return nil
}

func (c *Config) validate() error {
	if _, ok := formatter.ParseLang(c.Format.Lang); !ok {
		return fmt.Errorf("unsupported format language %q", c.Format.Lang)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http rate limit must not be negative")
	}
	return nil
}

// Options converts the format section into formatter options.
func (f Format) Options() formatter.Options {
	opts := formatter.DefaultOptions()
	opts.Lang, _ = formatter.ParseLang(f.Lang)
	opts.AggressiveNumbers = f.AggressiveNumbers
	opts.AutoLowercase = f.AutoLowercase
	opts.FixBackingVocals = f.FixBackingVocals
	return opts
}

// Remote reports whether the history store should use libsql.
func (d Database) Remote() bool {
	return d.URL != ""
}
