// Package progress persists walkthrough sessions and their step history in
// SQLite so a run can be resumed and reviewed later.
package progress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/pcbuild/internal/errors"

	_ "modernc.org/sqlite"
)

// DBFileName is the default database file name inside the data directory.
const DBFileName = "progress.db"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	guide TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	cursor INTEGER NOT NULL DEFAULT 0,
	completed INTEGER NOT NULL DEFAULT 0,
	started_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_guide_updated ON sessions (guide, updated_at);
CREATE TABLE IF NOT EXISTS visits (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	op TEXT NOT NULL,
	step_index INTEGER NOT NULL,
	step_id TEXT NOT NULL,
	clamped INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	at TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
)`

// Session is one run of a guide.
type Session struct {
	ID          string
	Guide       string
	Fingerprint string
	Cursor      int
	Completed   bool
	StartedAt   time.Time
	UpdatedAt   time.Time
	Visits      int
}

// Visit is one recorded navigation outcome.
type Visit struct {
	Seq       int
	Op        string
	StepIndex int
	StepID    string
	Clamped   bool
	Error     string
	At        time.Time
}

// Store is the SQLite-backed session store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create progress directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}
	// One connection keeps PRAGMAs and transactions on the same handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("progress db %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize progress schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func notFound(id string) error {
	return errors.NewSessionError("session not found", errors.ErrSessionNotFound).WithSessionID(id)
}

// Start creates a new session for guide.
func (s *Store) Start(guide, fingerprint string) (Session, error) {
	now := s.stamp()
	sess := Session{
		ID:          uuid.NewString(),
		Guide:       guide,
		Fingerprint: fingerprint,
		StartedAt:   parseTime(now),
		UpdatedAt:   parseTime(now),
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, guide, fingerprint, cursor, completed, started_at, updated_at)
		 VALUES (?, ?, ?, 0, 0, ?, ?)`,
		sess.ID, guide, fingerprint, now, now,
	)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

// RecordVisit appends v to the session history and moves the session
// cursor to v.StepIndex. Seq and At are assigned by the store.
func (s *Store) RecordVisit(id string, v Visit) (Visit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Visit{}, fmt.Errorf("begin visit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.stamp()
	res, err := tx.Exec(`UPDATE sessions SET cursor = ?, updated_at = ? WHERE id = ?`, v.StepIndex, now, id)
	if err != nil {
		return Visit{}, fmt.Errorf("update session cursor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Visit{}, notFound(id)
	}

	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM visits WHERE session_id = ?`, id).Scan(&v.Seq); err != nil {
		return Visit{}, fmt.Errorf("next visit seq: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO visits (session_id, seq, op, step_index, step_id, clamped, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, v.Seq, v.Op, v.StepIndex, v.StepID, boolInt(v.Clamped), v.Error, now,
	)
	if err != nil {
		return Visit{}, fmt.Errorf("insert visit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Visit{}, fmt.Errorf("commit visit: %w", err)
	}
	v.At = parseTime(now)
	return v, nil
}

// Complete marks the session finished.
func (s *Store) Complete(id string) error {
	res, err := s.db.Exec(`UPDATE sessions SET completed = 1, updated_at = ? WHERE id = ?`, s.stamp(), id)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

const sessionColumns = `s.id, s.guide, s.fingerprint, s.cursor, s.completed, s.started_at, s.updated_at,
	(SELECT COUNT(*) FROM visits v WHERE v.session_id = s.id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var completed int
	var started, updated string
	if err := row.Scan(&sess.ID, &sess.Guide, &sess.Fingerprint, &sess.Cursor, &completed, &started, &updated, &sess.Visits); err != nil {
		return Session{}, err
	}
	sess.Completed = completed != 0
	sess.StartedAt = parseTime(started)
	sess.UpdatedAt = parseTime(updated)
	return sess, nil
}

// Get returns a session by ID.
func (s *Store) Get(id string) (Session, error) {
	sess, err := scanSession(s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions s WHERE s.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, notFound(id)
		}
		return Session{}, fmt.Errorf("query session %q: %w", id, err)
	}
	return sess, nil
}

// Latest returns the most recently updated unfinished session for guide.
func (s *Store) Latest(guide string) (Session, error) {
	sess, err := scanSession(s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions s
		 WHERE s.guide = ? AND s.completed = 0
		 ORDER BY s.updated_at DESC, s.rowid DESC LIMIT 1`, guide))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, errors.NewSessionError("no unfinished session for guide "+guide, errors.ErrSessionNotFound)
		}
		return Session{}, fmt.Errorf("query latest session: %w", err)
	}
	return sess, nil
}

// Resume returns the latest unfinished session for guide if it was recorded
// against the same guide fingerprint. A different fingerprint yields
// ErrGuideChanged together with the stale session.
func (s *Store) Resume(guide, fingerprint string) (Session, error) {
	sess, err := s.Latest(guide)
	if err != nil {
		return Session{}, err
	}
	if sess.Fingerprint != fingerprint {
		return sess, errors.NewSessionError("guide changed since session was recorded", errors.ErrGuideChanged).
			WithSessionID(sess.ID).
			WithSeverity(errors.SeverityWarning)
	}
	return sess, nil
}

// List returns sessions, most recent first. A limit below 1 means no limit.
func (s *Store) List(limit int) ([]Session, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT `+sessionColumns+` FROM sessions s ORDER BY s.updated_at DESC, s.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}

// Visits returns a session's history in order.
func (s *Store) Visits(id string) ([]Visit, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT seq, op, step_index, step_id, clamped, error, at FROM visits
		 WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	out := make([]Visit, 0)
	for rows.Next() {
		var v Visit
		var clamped int
		var at string
		if err := rows.Scan(&v.Seq, &v.Op, &v.StepIndex, &v.StepID, &clamped, &v.Error, &at); err != nil {
			return nil, fmt.Errorf("scan visit row: %w", err)
		}
		v.Clamped = clamped != 0
		v.At = parseTime(at)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit rows: %w", err)
	}
	return out, nil
}
