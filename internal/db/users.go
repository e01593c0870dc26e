package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sukalov/lyricsfmt/internal/logger"
)

type User struct {
	ChatID         int64
	Username       sql.NullString
	TgName         sql.NullString
	AddedAt        time.Time
	TimesFormatted int
}

var ErrNotFound = errors.New("not found")

// RegisterUser inserts the chat unless it is known. It reports whether a row
// was created.
func (d *DB) RegisterUser(ctx context.Context, chatID int64, username, tgName string) (bool, error) {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM users WHERE chat_id = ?)`
	if err := d.sql.QueryRowContext(ctx, checkQuery, chatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	if exists {
		return false, nil
	}

	insertQuery := `
		INSERT INTO users (
			chat_id,
			username,
			tg_name,
			added_at,
			times_formatted
		) VALUES (?, ?, ?, ?, ?)
	`
	_, err := d.sql.ExecContext(ctx, insertQuery,
		chatID,
		sql.NullString{String: username, Valid: username != ""},
		sql.NullString{String: tgName, Valid: tgName != ""},
		time.Now().UTC().Format(timeFormat),
		0,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert new user: %w", err)
	}

	logger.Info(fmt.Sprintf("new user registered: ID: %d, username: %s", chatID, username))
	return true, nil
}

func (d *DB) GetUser(ctx context.Context, chatID int64) (User, error) {
	var (
		u       User
		addedAt string
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT chat_id, username, tg_name, added_at, times_formatted FROM users WHERE chat_id = ?`,
		chatID,
	).Scan(&u.ChatID, &u.Username, &u.TgName, &addedAt, &u.TimesFormatted)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to fetch user %d: %w", chatID, err)
	}
	u.AddedAt = parseTime(addedAt)
	return u, nil
}

func (d *DB) IncrementFormatted(ctx context.Context, chatID int64) error {
	result, err := d.sql.ExecContext(ctx, `UPDATE users SET times_formatted = times_formatted + 1 WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to increment format counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no user found with chat id %d: %w", chatID, ErrNotFound)
	}
	return nil
}
