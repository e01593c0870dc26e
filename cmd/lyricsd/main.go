package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/server"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	logger.SetDebug(*debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	stoplist := wordlist.NewCache(cfg.Stoplist.URL, store)
	if err := stoplist.Load(ctx); err != nil {
		logger.LogWithErr("using the embedded stoplist", err)
	}
	stoplist.RefreshAsync()
	go stoplist.RefreshEvery(ctx, cfg.Stoplist.RefreshInterval)

	srv := server.New(cfg.HTTP, cfg.Format.Options(),
		server.WithStoplist(stoplist),
		server.WithHistory(store),
	)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
	logger.Info("http server stopped")
}
