package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fabric-cost/internal/storage/migrations"
)

// Storage is the workstation-local calculation history. Records saved here
// are pushed to the remote store by the sync service.
type Storage struct {
	db *sql.DB
}

// New opens the database at path, sets the pragmas and applies migrations.
// ":memory:" gives a private in-memory database.
func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: open sqlite database: %w", op, err)
	}

	// sqlite allows one writer; a single connection also keeps :memory: databases alive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: set sqlite pragmas: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping sqlite database: %w", op, err)
	}

	if err := migrations.Up(db, migrations.DialectSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
