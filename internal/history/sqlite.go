package history

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 10

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and if needed creates) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryHistory, "initialize schema").
			WithContext("path", dbPath).
			Build()
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		documents INTEGER NOT NULL,
		failures INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL REFERENCES builds(id),
		path TEXT NOT NULL,
		kind TEXT NOT NULL,
		outcome TEXT NOT NULL,
		fingerprint TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	CREATE INDEX IF NOT EXISTS idx_documents_build_id ON documents(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild stores the build row and its documents in one transaction.
func (s *SQLiteStore) RecordBuild(ctx context.Context, b Build, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return historyErr(err, "begin transaction", b.ID)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO builds (id, started, finished, outcome, documents, failures) VALUES (?, ?, ?, ?, ?, ?)",
		b.ID, b.Started.UnixNano(), b.Finished.UnixNano(), b.Outcome, b.Documents, b.Failures,
	)
	if err != nil {
		return historyErr(err, "insert build", b.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO documents (build_id, path, kind, outcome, fingerprint, error) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return historyErr(err, "prepare document insert", b.ID)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, b.ID, d.Path, d.Kind, d.Outcome, d.Fingerprint, d.Error); err != nil {
			return historyErr(err, "insert document", b.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return historyErr(err, "commit", b.ID)
	}
	return nil
}

// Recent returns the latest builds, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started, finished, outcome, documents, failures FROM builds ORDER BY started DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, historyErr(err, "query builds", "")
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var started, finished int64
		if err := rows.Scan(&b.ID, &started, &finished, &b.Outcome, &b.Documents, &b.Failures); err != nil {
			return nil, historyErr(err, "scan build", "")
		}
		b.Started = time.Unix(0, started)
		b.Finished = time.Unix(0, finished)
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr(err, "iterate builds", "")
	}
	return builds, nil
}

// Documents returns the document outcomes of a build in insertion order.
func (s *SQLiteStore) Documents(ctx context.Context, buildID string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, path, kind, outcome, COALESCE(fingerprint, ''), COALESCE(error, '') FROM documents WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, historyErr(err, "query documents", buildID)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.BuildID, &d.Path, &d.Kind, &d.Outcome, &d.Fingerprint, &d.Error); err != nil {
			return nil, historyErr(err, "scan document", buildID)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr(err, "iterate documents", buildID)
	}
	return docs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func historyErr(err error, msg, buildID string) error {
	b := errors.WrapError(err, errors.CategoryHistory, msg)
	if buildID != "" {
		b = b.WithContext("build_id", buildID)
	}
	return b.Build()
}
