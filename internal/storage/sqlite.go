// Package storage provides SQLite-based persistence for bridge sessions and
// the diagnostics they report.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/wasm-arcade/internal/bridge"
)

// Journal manages the SQLite database connection for the session journal.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Session is one run of a cartridge under a bridge.
type Session struct {
	ID        int64
	Cartridge string
	User      string // SSH user, empty for local play
	StartedAt time.Time
	EndedAt   time.Time // zero while the session is open
	Frames    uint64
	Halted    bool
	Error     string // terminal error, empty if the session ended cleanly
}

// DiagnosticEntry is one message reported during a session.
type DiagnosticEntry struct {
	ID        int64
	SessionID int64
	Level     string
	Message   string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Journal, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	j := &Journal{db: db, now: time.Now}

	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return j, nil
}

// migrate creates the database schema if it doesn't exist.
func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cartridge TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			halted INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_cartridge ON sessions(cartridge);

		CREATE TABLE IF NOT EXISTS diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_diagnostics_session ON diagnostics(session_id);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// StartSession records the start of a session and returns its ID.
func (j *Journal) StartSession(cartridge, user string) (int64, error) {
	result, err := j.db.Exec(
		"INSERT INTO sessions (cartridge, user, started_at) VALUES (?, ?, ?)",
		cartridge, user, formatTime(j.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot start session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// EndSession closes a session with its final frame count and terminal error.
func (j *Journal) EndSession(id int64, frames uint64, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	res, err := j.db.Exec(
		"UPDATE sessions SET ended_at = ?, frames = ?, halted = ?, error = ? WHERE id = ?",
		formatTime(j.now()), int64(frames), runErr != nil, msg, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: no session %d", id)
	}
	return nil
}

// Record appends a diagnostic to the given session.
func (j *Journal) Record(sessionID int64, level bridge.Level, message string) error {
	_, err := j.db.Exec(
		"INSERT INTO diagnostics (session_id, level, message, created_at) VALUES (?, ?, ?, ?)",
		sessionID, level.String(), message, formatTime(j.now()),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record diagnostic: %w", err)
	}
	return nil
}

// SessionSink returns a bridge sink that journals every report under the
// given session. Write failures are passed to onErr, which may be nil.
func (j *Journal) SessionSink(sessionID int64, onErr func(error)) bridge.Sink {
	return bridge.SinkFunc(func(level bridge.Level, message string) {
		if err := j.Record(sessionID, level, message); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

// RecentSessions retrieves the most recent sessions, newest first.
// An empty cartridge matches every cartridge.
func (j *Journal) RecentSessions(cartridge string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(
		`SELECT id, cartridge, user, started_at, ended_at, frames, halted, error
		 FROM sessions
		 WHERE ? = '' OR cartridge = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		cartridge, cartridge, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt, endedAt any
		var frames int64
		if err := rows.Scan(&s.ID, &s.Cartridge, &s.User, &startedAt, &endedAt, &frames, &s.Halted, &s.Error); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		s.Frames = uint64(frames)
		s.StartedAt = parseTime(startedAt)
		s.EndedAt = parseTime(endedAt)
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// Diagnostics retrieves every diagnostic of a session in report order.
func (j *Journal) Diagnostics(sessionID int64) ([]DiagnosticEntry, error) {
	rows, err := j.db.Query(
		`SELECT id, session_id, level, message, created_at
		 FROM diagnostics
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query diagnostics: %w", err)
	}
	defer rows.Close()

	var entries []DiagnosticEntry
	for rows.Next() {
		var e DiagnosticEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Level, &e.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearCartridge deletes every session of a cartridge and its diagnostics.
func (j *Journal) ClearCartridge(cartridge string) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(
		"DELETE FROM diagnostics WHERE session_id IN (SELECT id FROM sessions WHERE cartridge = ?)",
		cartridge,
	); err != nil {
		return fmt.Errorf("storage: cannot clear diagnostics: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE cartridge = ?", cartridge); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return tx.Commit()
}

const timeLayout = "2006-01-02 15:04:05.000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string datetimes; NULL yields zero.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
