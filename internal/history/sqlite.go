package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	"github.com/msto63/galnotes/pkg/core/version"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore opens or creates a transcript database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, historyError(err, "failed to create directory", "history.Open")
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, historyError(err, "failed to open database", "history.Open")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, historyError(err, "failed to initialize schema", "history.Open").
			WithDetail("path", cfg.Path)
	}

	return store, nil
}

// initSchema creates the tables and checks the stored schema version
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Recorded statements
	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		session_id TEXT NOT NULL,
		input TEXT NOT NULL,
		statement TEXT,
		output TEXT,
		halted INTEGER NOT NULL DEFAULT 0,
		error_code TEXT,
		error_message TEXT,
		program TEXT,
		elapsed_ns INTEGER NOT NULL DEFAULT 0
	);

	-- Store metadata
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Indices for efficient querying
	CREATE INDEX IF NOT EXISTS idx_statements_timestamp ON statements(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_statements_session ON statements(session_id);
	CREATE INDEX IF NOT EXISTS idx_statements_error ON statements(error_code);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var stored string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, version.HistorySchema)
		return err
	case err != nil:
		return err
	}

	ok, err := version.Compatible(stored, version.HistorySchema)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("history schema %s cannot be read by schema %s", stored, version.HistorySchema)
	}
	return nil
}

// SchemaVersion returns the schema version recorded in the database
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&v); err != nil {
		return "", historyError(err, "failed to read schema version", "history.SchemaVersion")
	}
	return v, nil
}

// Record stores a new entry
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)

	var programJSON []byte
	if len(entry.Program) > 0 {
		programJSON, _ = json.Marshal(entry.Program)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statements (id, timestamp, session_id, input, statement, output, halted,
			error_code, error_message, program, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.SessionID, entry.Input, entry.Statement, entry.Output, entry.Halted,
		entry.ErrorCode, entry.ErrorMessage, programJSON, int64(entry.Elapsed))

	if err != nil {
		return historyError(err, "failed to insert statement", "history.Record")
	}

	return nil
}

// Query retrieves entries based on filter criteria, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, session_id, input, statement, output, halted,
		error_code, error_message, program, elapsed_ns FROM statements WHERE 1=1`
	var args []interface{}

	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.ErrorsOnly {
		query += " AND error_code IS NOT NULL AND error_code != ''"
	}
	if !filter.StartTime.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndTime)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, historyError(err, "failed to query statements", "history.Query")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var statement, output, errorCode, errorMessage, programJSON sql.NullString
		var elapsed int64

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.SessionID, &entry.Input, &statement,
			&output, &entry.Halted, &errorCode, &errorMessage, &programJSON, &elapsed); err != nil {
			return nil, historyError(err, "failed to scan statement", "history.Query")
		}

		entry.Statement = statement.String
		entry.Output = output.String
		entry.ErrorCode = errorCode.String
		entry.ErrorMessage = errorMessage.String
		entry.Elapsed = time.Duration(elapsed)
		if programJSON.Valid && programJSON.String != "" {
			json.Unmarshal([]byte(programJSON.String), &entry.Program)
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Stats summarizes the recorded statements
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{ByCode: make(map[string]int64)}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN error_code IS NOT NULL AND error_code != '' THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT session_id)
		FROM statements
	`).Scan(&stats.Total, &stats.Failed, &stats.Sessions)
	if err != nil {
		return nil, historyError(err, "failed to count statements", "history.Stats")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT error_code, COUNT(*) FROM statements
		WHERE error_code IS NOT NULL AND error_code != ''
		GROUP BY error_code
	`)
	if err != nil {
		return nil, historyError(err, "failed to group statements", "history.Stats")
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var count int64
		if err := rows.Scan(&code, &count); err != nil {
			return nil, historyError(err, "failed to scan statement counts", "history.Stats")
		}
		stats.ByCode[code] = count
	}

	return stats, rows.Err()
}

// Prune deletes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	result, err := s.db.ExecContext(ctx, `DELETE FROM statements WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, historyError(err, "failed to prune statements", "history.Prune")
	}
	deleted, _ := result.RowsAffected()

	return deleted, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func prepare(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
}

func historyError(err error, message, operation string) *gnerror.Error {
	return gnerror.Wrap(err, message).
		WithCode(gnerror.CodeHistoryError).
		WithOperation(operation)
}
