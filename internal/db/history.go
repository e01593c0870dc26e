package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sukalov/lyricsfmt/internal/formatter"
)

// Record is one formatted text.
type Record struct {
	ID            string
	ChatID        int64
	Source        string
	Lang          formatter.Lang
	Input         string
	Output        string
	Over70        int
	LongStanzas   int
	NumeralIssues int
	CreatedAt     time.Time
}

func NewRecord(chatID int64, source string, lang formatter.Lang, input, output string, m formatter.Metrics) Record {
	return Record{
		ChatID:        chatID,
		Source:        source,
		Lang:          lang,
		Input:         input,
		Output:        output,
		Over70:        m.Over70,
		LongStanzas:   len(m.LongStanzas),
		NumeralIssues: len(m.NumeralIssues),
	}
}

type Stats struct {
	Users        int
	Records      int
	CleanRecords int
}

// SaveRecord stores rec under a new id and returns it with id and time set.
func (d *DB) SaveRecord(ctx context.Context, rec Record) (Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO history (
			id, chat_id, source, lang, input, output,
			over70, long_stanzas, numeral_issues, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.sql.ExecContext(ctx, query,
		rec.ID, rec.ChatID, rec.Source, string(rec.Lang), rec.Input, rec.Output,
		rec.Over70, rec.LongStanzas, rec.NumeralIssues, rec.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to save record: %w", err)
	}
	return rec, nil
}

const recordColumns = `id, chat_id, source, lang, input, output, over70, long_stanzas, numeral_issues, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec       Record
		lang      string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.ChatID, &rec.Source, &lang, &rec.Input, &rec.Output,
		&rec.Over70, &rec.LongStanzas, &rec.NumeralIssues, &createdAt); err != nil {
		return Record{}, err
	}
	rec.Lang = formatter.Lang(lang)
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

func (d *DB) GetRecord(ctx context.Context, id string) (Record, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM history WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch record %s: %w", id, err)
	}
	return rec, nil
}

// RecentRecords returns the newest records of a chat first.
func (d *DB) RecentRecords(ctx context.Context, chatID int64, limit int) ([]Record, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM history WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return records, nil
}

func (d *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.Users); err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}
	err := d.sql.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN over70 = 0 AND long_stanzas = 0 AND numeral_issues = 0 THEN 1 ELSE 0 END), 0)
		FROM history
	`).Scan(&s.Records, &s.CleanRecords)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count records: %w", err)
	}
	return s, nil
}
