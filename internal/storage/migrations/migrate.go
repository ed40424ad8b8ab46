package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql sqlite/*.sql
var embedded embed.FS

const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite3"
)

var dirs = map[string]string{
	DialectMySQL:  "mysql",
	DialectSQLite: "sqlite",
}

// goose keeps dialect and filesystem in package state
var mu sync.Mutex

// Up runs every pending migration embedded for the dialect.
func Up(db *sql.DB, dialect string) error {
	const op = "storage.migrations.Up"

	dir, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("%s: unsupported dialect %q", op, dialect)
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(embedded)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("%s: set goose dialect: %w", op, err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("%s: run goose up migrations: %w", op, err)
	}

	return nil
}
