// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cristianoliveira/jira-intray/internal/storage"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_handles (
	id         TEXT PRIMARY KEY,
	issue_key  TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	priority   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT '',
	urgency    TEXT NOT NULL DEFAULT '',
	actions    TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);
`

// Storage implements storage.Store using a local SQLite database.
type Storage struct {
	db *sqlx.DB
}

var _ storage.Store = (*Storage)(nil)

// New opens (or creates) the SQLite database at dbPath, enables WAL
// mode, and applies the schema.
func New(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite storage: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite storage: create schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying SQLite connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetValue returns the value stored under key, or "" when unset.
func (s *Storage) GetValue(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlite storage: get value %q: %w", key, err)
	}
	return value, nil
}

// SetValue stores value under key, replacing any previous value.
func (s *Storage) SetValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite storage: set value %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes key from the kv area.
func (s *Storage) DeleteValue(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("sqlite storage: delete value %q: %w", key, err)
	}
	return nil
}

// handleRow is the flat row shape for notification_handles.
type handleRow struct {
	ID        string `db:"id"`
	IssueKey  string `db:"issue_key"`
	Title     string `db:"title"`
	Message   string `db:"message"`
	Priority  string `db:"priority"`
	Status    string `db:"status"`
	Urgency   string `db:"urgency"`
	Actions   string `db:"actions"`
	CreatedAt string `db:"created_at"`
}

func (r handleRow) toHandle() (storage.Handle, error) {
	var actions []string
	if err := json.Unmarshal([]byte(r.Actions), &actions); err != nil {
		return storage.Handle{}, fmt.Errorf("sqlite storage: decode actions for handle %q: %w", r.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return storage.Handle{}, fmt.Errorf("sqlite storage: parse created_at for handle %q: %w", r.ID, err)
	}
	return storage.Handle{
		ID:        r.ID,
		IssueKey:  r.IssueKey,
		Title:     r.Title,
		Message:   r.Message,
		Priority:  r.Priority,
		Status:    r.Status,
		Urgency:   r.Urgency,
		Actions:   actions,
		CreatedAt: createdAt,
	}, nil
}

// SaveHandle persists a notification handle.
func (s *Storage) SaveHandle(h storage.Handle) error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("sqlite storage: handle id cannot be empty")
	}
	actions := h.Actions
	if actions == nil {
		actions = []string{}
	}
	encoded, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode actions: %w", err)
	}
	createdAt := h.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.db.Exec(
		`INSERT INTO notification_handles
			(id, issue_key, title, message, priority, status, urgency, actions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			issue_key = excluded.issue_key,
			title = excluded.title,
			message = excluded.message,
			priority = excluded.priority,
			status = excluded.status,
			urgency = excluded.urgency,
			actions = excluded.actions`,
		h.ID, h.IssueKey, h.Title, h.Message, h.Priority, h.Status, h.Urgency,
		string(encoded), createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("sqlite storage: save handle %q: %w", h.ID, err)
	}
	return nil
}

// GetHandle returns the handle with the given id.
func (s *Storage) GetHandle(id string) (storage.Handle, error) {
	var row handleRow
	err := s.db.Get(&row, "SELECT * FROM notification_handles WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Handle{}, storage.ErrHandleNotFound
	}
	if err != nil {
		return storage.Handle{}, fmt.Errorf("sqlite storage: get handle %q: %w", id, err)
	}
	return row.toHandle()
}

// DeleteHandle removes a handle.
func (s *Storage) DeleteHandle(id string) error {
	if _, err := s.db.Exec("DELETE FROM notification_handles WHERE id = ?", id); err != nil {
		return fmt.Errorf("sqlite storage: delete handle %q: %w", id, err)
	}
	return nil
}

// ListHandles returns all live handles, oldest first.
func (s *Storage) ListHandles() ([]storage.Handle, error) {
	var rows []handleRow
	err := s.db.Select(&rows, "SELECT * FROM notification_handles ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list handles: %w", err)
	}
	handles := make([]storage.Handle, 0, len(rows))
	for _, row := range rows {
		h, err := row.toHandle()
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}
