package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"docbind/internal/report"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore archives build reports in a local SQLite database so past
// runs can be inspected with `docbind history`.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates or opens the history database.
func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &HistoryStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT,
			finished_at TEXT,
			status TEXT,
			working_dir TEXT,
			output_path TEXT,
			commit_sha TEXT,
			lines INTEGER,
			bytes INTEGER,
			sections_included INTEGER,
			sections_total INTEGER,
			report JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// BuildRecord is one archived build, as listed by `docbind history`.
type BuildRecord struct {
	ID         int64
	StartedAt  string
	FinishedAt string
	Status     string
	WorkingDir string
	OutputPath string
	CommitSHA  string
	Lines      int
	Bytes      int64
	Included   int
	Total      int
}

// SaveReport appends one build report to the history.
func (s *HistoryStore) SaveReport(ctx context.Context, r *report.BuildReport) error {
	blob, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO builds (started_at, finished_at, status, working_dir, output_path, commit_sha, lines, bytes, sections_included, sections_total, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.StartedAt, r.FinishedAt, r.Status, r.WorkingDir, r.OutputPath, r.CommitSHA, r.Lines, r.Bytes, r.Included, r.Total, blob)

	return err
}

// Recent returns the latest builds, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, working_dir, output_path, commit_sha, lines, bytes, sections_included, sections_total
		FROM builds
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.FinishedAt, &rec.Status, &rec.WorkingDir, &rec.OutputPath, &rec.CommitSHA, &rec.Lines, &rec.Bytes, &rec.Included, &rec.Total); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
