package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/lyricsfmt/internal/bot"
	"github.com/sukalov/lyricsfmt/internal/bot/admin"
	"github.com/sukalov/lyricsfmt/internal/bot/client"
	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
	"github.com/sukalov/lyricsfmt/internal/redis"
	"github.com/sukalov/lyricsfmt/internal/state"
	"github.com/sukalov/lyricsfmt/internal/users"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Bot.Token == "" || cfg.Bot.AdminToken == "" {
		log.Fatal("BOT_TOKEN and ADMIN_BOT_TOKEN are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientBot, err := bot.New("client", cfg.Bot.Token)
	if err != nil {
		log.Fatalf("failed to start client bot: %v", err)
	}
	adminBot, err := bot.New("admin", cfg.Bot.AdminToken)
	if err != nil {
		log.Fatalf("failed to start admin bot: %v", err)
	}

	if err := logger.Init(adminBot, cfg.Bot.LogChannelID); err != nil {
		log.Printf("channel logging disabled: %v", err)
	}

	store, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	clientDeps := client.Deps{
		Pending:        users.NewPendingManager(),
		Lyrics:         lyrics.NewService(nil),
		History:        store,
		StoplistMaxAge: cfg.Stoplist.RefreshInterval,
	}
	adminDeps := admin.Deps{
		Stats:  store,
		Admins: cfg.Bot.Admins,
	}

	var (
		profiles      state.Store
		publisher     state.Publisher
		stoplistStore wordlist.Store = store
	)

	if cfg.Redis.URL != "" {
		rdb, err := redis.NewDBManager(cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		if err := rdb.Ping(ctx); err != nil {
			log.Fatalf("failed to ping redis: %v", err)
		}

		profiles, publisher, stoplistStore = rdb, rdb, rdb
		clientDeps.Counter = rdb
		adminDeps.Counts = rdb
	}

	defaults := users.SettingsFromOptions(cfg.Format.Options())
	sm := state.NewStateManager(defaults, profiles, publisher)
	if err := sm.Init(ctx); err != nil {
		log.Fatalf("failed to load chat settings: %v", err)
	}

	if rdb, ok := publisher.(*redis.DBManager); ok {
		go func() {
			if err := rdb.Subscribe(ctx, sm.Apply); err != nil && ctx.Err() == nil {
				logger.LogWithErr("settings subscription stopped", err)
			}
		}()
	}

	stoplist := wordlist.NewCache(cfg.Stoplist.URL, stoplistStore)
	if err := stoplist.Load(ctx); err != nil {
		logger.LogWithErr("using the embedded stoplist", err)
	}
	stoplist.RefreshAsync()
	go stoplist.RefreshEvery(ctx, cfg.Stoplist.RefreshInterval)

	clientDeps.State, clientDeps.Stoplist = sm, stoplist
	adminDeps.State, adminDeps.Stoplist = sm, stoplist

	client.SetupHandlers(clientBot, clientDeps)
	admin.SetupHandlers(adminBot, adminDeps)

	logger.Success(fmt.Sprintf("bots started: @%s, @%s", clientBot.Username, adminBot.Username))

	<-ctx.Done()
	logger.Info("shutting down")
	clientBot.Stop()
	adminBot.Stop()
	if err := sm.Sync(context.Background()); err != nil {
		log.Printf("failed to sync settings on shutdown: %v", err)
	}
}

