// Package journal records a row per watch cycle in a local SQLite database.
// The journal is advisory: it feeds the history command and never gates the
// pipeline, so append failures are logged and swallowed by the caller.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Record is one completed watch cycle.
type Record struct {
	CycleID          string
	StartedAt        time.Time
	FinishedAt       time.Time
	NewVideo         bool
	VideoID          string
	VideoTitle       string
	TranscriptChars  int
	SummaryGenerated bool
	NotificationSent bool
	Message          string
	Error            string
}

// Journal is the cycle history store.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := ensureSchemaVersion(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Journal{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append stores one cycle record.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	_, err := sq.Insert("cycles").
		Columns("cycle_id", "started_at", "finished_at", "new_video", "video_id",
			"video_title", "transcript_chars", "summary_generated",
			"notification_sent", "message", "error").
		Values(rec.CycleID,
			rec.StartedAt.UTC().Format(time.RFC3339Nano),
			rec.FinishedAt.UTC().Format(time.RFC3339Nano),
			rec.NewVideo,
			rec.VideoID,
			rec.VideoTitle,
			rec.TranscriptChars,
			rec.SummaryGenerated,
			rec.NotificationSent,
			rec.Message,
			rec.Error).
		RunWith(j.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert cycle record: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := sq.Select("cycle_id", "started_at", "finished_at", "new_video",
		"video_id", "video_title", "transcript_chars", "summary_generated",
		"notification_sent", "message", "error").
		From("cycles").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		RunWith(j.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query cycle records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var started, finished string
		if err := rows.Scan(&rec.CycleID, &started, &finished, &rec.NewVideo,
			&rec.VideoID, &rec.VideoTitle, &rec.TranscriptChars,
			&rec.SummaryGenerated, &rec.NotificationSent,
			&rec.Message, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan cycle record: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycle records: %w", err)
	}
	return records, nil
}

func ensureSchemaVersion(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}
