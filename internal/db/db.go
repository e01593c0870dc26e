// Package db keeps the format history, registered chats and the last fetched
// stoplist. It talks to Turso through libsql when a remote URL is set and to
// a local sqlite file otherwise.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/logger"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// fixed width so text order matches time order
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	sql    *sql.DB
	remote bool
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		chat_id INTEGER PRIMARY KEY,
		username TEXT,
		tg_name TEXT,
		added_at TEXT NOT NULL,
		times_formatted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		source TEXT NOT NULL,
		lang TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		over70 INTEGER NOT NULL DEFAULT 0,
		long_stanzas INTEGER NOT NULL DEFAULT 0,
		numeral_issues INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_chat_id ON history(chat_id)`,
	`CREATE TABLE IF NOT EXISTS stoplist (
		word TEXT PRIMARY KEY
	)`,
}

// remoteDSN adds the auth token to a libsql URL.
func remoteDSN(cfg config.Database) string {
	if cfg.AuthToken == "" {
		return cfg.URL
	}
	sep := "?"
	if strings.Contains(cfg.URL, "?") {
		sep = "&"
	}
	return cfg.URL + sep + "authToken=" + url.QueryEscape(cfg.AuthToken)
}

// Open connects to the configured database and creates missing tables.
func Open(ctx context.Context, cfg config.Database) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	if cfg.Remote() {
		conn, err = sql.Open("libsql", remoteDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open db %s: %w", cfg.URL, err)
		}
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(5 * time.Minute)
	} else {
		conn, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open db %s: %w", cfg.Path, err)
		}
		// sqlite allows one writer
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to init schema: %w", err)
		}
	}

	return &DB{sql: conn, remote: cfg.Remote()}, nil
}

// Close closes the database connection safely
func (d *DB) Close() {
	if d == nil || d.sql == nil {
		return
	}
	if err := d.sql.Close(); err != nil {
		logger.Error(fmt.Sprintf("error closing database: %v", err))
	}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Remote reports whether the store is a libsql database.
func (d *DB) Remote() bool {
	return d.remote
}
