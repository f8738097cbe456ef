// Package store persists console transcripts in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"modeltron/internal/logging"
	"modeltron/internal/types"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one power-on of the console (or one CLI invocation).
type Session struct {
	ID        string
	ModelName string
	Source    string // console, cli
	StartedAt time.Time
	Messages  int
	Metrics   types.Metrics
}

// TranscriptStore records sessions and their messages.
type TranscriptStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewTranscriptStore opens (or creates) the database at path and applies migrations.
func NewTranscriptStore(path string) (*TranscriptStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewTranscriptStore")
	defer timer.Stop()

	logging.Store("Initializing TranscriptStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.StoreError("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &TranscriptStore{db: db, dbPath: path}
	if err := migrate(db); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Database schema initialized successfully")
	return s, nil
}

// Close closes the database.
func (s *TranscriptStore) Close() error {
	logging.Store("Closing TranscriptStore database connection")
	return s.db.Close()
}

// Path returns the database file path.
func (s *TranscriptStore) Path() string { return s.dbPath }

// StartSession creates a new session and returns its ID.
func (s *TranscriptStore) StartSession(modelName, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, model_name, source, started_at) VALUES (?, ?, ?, ?)`,
		id, modelName, source, time.Now().UnixMilli(),
	)
	if err != nil {
		logging.StoreError("Failed to start session: %v", err)
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	logging.Store("Session started: id=%s source=%s", id, source)
	return id, nil
}

// AppendMessage records msg as the next turn of the session.
func (s *TranscriptStore) AppendMessage(sessionID string, msg types.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	logging.StoreDebug("Appending message: session=%s role=%s len=%d", sessionID, msg.Role, len(msg.Content))
	_, err := s.db.Exec(
		`INSERT INTO messages (session_id, seq, role, mode, content, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE session_id = ?), ?, ?, ?, ?)`,
		sessionID, sessionID, string(msg.Role), string(msg.Mode), msg.Content, ts.UnixMilli(),
	)
	if err != nil {
		logging.StoreError("Failed to append message: session=%s: %v", sessionID, err)
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// UpdateMetrics stores the latest metrics snapshot for a session.
func (s *TranscriptStore) UpdateMetrics(sessionID string, m types.Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE sessions SET metrics_json = ? WHERE id = ?`, string(data), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update metrics: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Messages returns the session's messages in order.
func (s *TranscriptStore) Messages(sessionID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.sessionExists(sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT role, mode, content, created_at FROM messages WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []types.Message
	for rows.Next() {
		var role, mode, content string
		var created int64
		if err := rows.Scan(&role, &mode, &content, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, types.Message{
			Role:      types.Role(role),
			Mode:      types.Mode(mode),
			Content:   content,
			Timestamp: time.UnixMilli(created),
		})
	}
	return out, rows.Err()
}

// Sessions lists the most recent sessions first.
func (s *TranscriptStore) Sessions(limit int) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT s.id, s.model_name, s.source, s.started_at, s.metrics_json,
		        (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
		 FROM sessions s
		 ORDER BY s.started_at DESC, s.rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var started int64
		var metricsJSON string
		if err := rows.Scan(&sess.ID, &sess.ModelName, &sess.Source, &started, &metricsJSON, &sess.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.StartedAt = time.UnixMilli(started)
		sess.Metrics = types.DefaultMetrics()
		if metricsJSON != "" {
			if err := json.Unmarshal([]byte(metricsJSON), &sess.Metrics); err != nil {
				logging.StoreDebug("Ignoring bad metrics for session %s: %v", sess.ID, err)
			}
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *TranscriptStore) sessionExists(id string) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}
