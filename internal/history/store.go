// Package history keeps an in-memory SQLite log of this session's analyses.
// Nothing is written to disk; the log is gone when the program exits.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/model"
)

// Entry is one finished analysis.
type Entry struct {
	ID       int64
	Keyword  string
	Category string
	Count    int
	Err      string // empty on success
	Dur      time.Duration
	At       time.Time
}

// OK reports whether the analysis succeeded.
func (e Entry) OK() bool { return e.Err == "" }

// Store is the session log.
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var dbCounter atomic.Uint64

// Open creates an empty session log. Each Store gets its own named
// in-memory database so stores never see each other's rows.
func Open() (*Store, error) {
	name := fmt.Sprintf("file:trendscout-history-%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// The in-memory database lives as long as one connection holds it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		count INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		dur_ms INTEGER NOT NULL,
		at_unix_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_keyword ON analyses(keyword);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Add inserts e and returns its id. A zero At is stamped with the current time.
func (s *Store) Add(e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.At.IsZero() {
		e.At = s.now()
	}
	res, err := s.db.Exec(
		`INSERT INTO analyses (keyword, category, count, error, dur_ms, at_unix_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Keyword, e.Category, e.Count, e.Err, e.Dur.Milliseconds(), e.At.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

// Record logs a finished request. Write failures are logged, not returned.
func (s *Store) Record(req model.AnalysisRequest, reqErr error, dur time.Duration) {
	e := Entry{
		Keyword:  req.Keyword,
		Category: req.Category,
		Count:    req.Count,
		Dur:      dur,
	}
	if reqErr != nil {
		e.Err = reqErr.Error()
	}
	if _, err := s.Add(e); err != nil {
		logging.Warn("history record failed", "error", err)
	}
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, keyword, category, count, error, dur_ms, at_unix_ms
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var durMs, atMs int64
		if err := rows.Scan(&e.ID, &e.Keyword, &e.Category, &e.Count, &e.Err, &durMs, &atMs); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		e.Dur = time.Duration(durMs) * time.Millisecond
		e.At = time.UnixMilli(atMs)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats returns the number of successful and failed analyses.
func (s *Store) Stats() (ok, failed int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0)
		FROM analyses`)
	if err := row.Scan(&ok, &failed); err != nil {
		return 0, 0, fmt.Errorf("stats: %w", err)
	}
	return ok, failed, nil
}

// Close releases the database; the log is discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
