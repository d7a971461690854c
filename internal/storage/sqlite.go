// Package storage provides SQLite-based persistence for board fixtures.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/bubblebot/internal/planner"
	"github.com/vovakirdan/bubblebot/internal/snapshot"
)

// ErrBoardNotFound is returned when no board has the requested name.
var ErrBoardNotFound = errors.New("storage: board not found")

// Store manages the SQLite database connection for board fixtures.
type Store struct {
	db *sql.DB
}

// BoardEntry is one stored board.
type BoardEntry struct {
	ID        int64
	Name      string
	Bubbles   int
	Snapshot  planner.Snapshot
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS boards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			document TEXT NOT NULL,
			bubbles INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveBoard stores snap under name, replacing any board with that name.
// Returns the ID of the stored record.
func (s *Store) SaveBoard(name string, snap planner.Snapshot) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("storage: board name is empty")
	}

	doc, err := snapshot.Encode(snap)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode board %q: %w", name, err)
	}

	var id int64
	err = s.db.QueryRow(
		`INSERT INTO boards (name, document, bubbles) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   document = excluded.document,
		   bubbles = excluded.bubbles,
		   created_at = CURRENT_TIMESTAMP
		 RETURNING id`,
		name, string(doc), len(snap.Bubbles),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save board %q: %w", name, err)
	}

	return id, nil
}

// Board loads the board stored under name.
func (s *Store) Board(name string) (*BoardEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, name, document, bubbles, created_at
		 FROM boards
		 WHERE name = ?`,
		name,
	)

	entry, err := scanBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListBoards returns every stored board ordered by name.
func (s *Store) ListBoards() ([]BoardEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, name, document, bubbles, created_at
		 FROM boards
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query boards: %w", err)
	}
	defer rows.Close()

	var entries []BoardEntry
	for rows.Next() {
		entry, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteBoard removes the board stored under name.
func (s *Store) DeleteBoard(name string) error {
	res, err := s.db.Exec("DELETE FROM boards WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete board %q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete board %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBoard(row scanner) (*BoardEntry, error) {
	var e BoardEntry
	var doc string
	var createdAt any

	if err := row.Scan(&e.ID, &e.Name, &doc, &e.Bubbles, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	snap, err := snapshot.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("storage: board %q: %w", e.Name, err)
	}
	e.Snapshot = snap
	e.CreatedAt = parseTime(createdAt)

	return &e, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
