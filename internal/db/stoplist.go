package db

import (
	"context"
	"fmt"

	"github.com/sukalov/lyricsfmt/internal/utils/e"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

// LoadStoplist returns the saved stoplist. An empty table gives an empty set.
func (d *DB) LoadStoplist(ctx context.Context) (wordlist.Set, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT word FROM stoplist`)
	if err != nil {
		return nil, fmt.Errorf("failed to read stoplist: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return wordlist.FromWords(words...), nil
}

// SaveStoplist replaces the saved stoplist.
func (d *DB) SaveStoplist(ctx context.Context, words wordlist.Set) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stoplist`); err != nil {
		return fmt.Errorf("failed to clear stoplist: %w", err)
	}
	for _, w := range words.Words() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO stoplist (word) VALUES (?)`, w); err != nil {
			return fmt.Errorf("failed to insert %q: %w", w, err)
		}
	}
	return e.WrapIfErr("failed to commit stoplist", tx.Commit())
}
