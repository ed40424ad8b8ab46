package mysql

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"fabric-cost/internal/config"
	"fabric-cost/internal/storage/migrations"
)

// Storage is the remote calculation history shared by every workstation.
type Storage struct {
	db *sql.DB
}

func New(cfg config.MySQL) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		DBName:               cfg.Name,
		ParseTime:            true,
		Loc:                  time.UTC,
		AllowNativePasswords: true,
		ClientFoundRows:      true,
	}

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open db: %w", op, err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened connection pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate() error {
	const op = "storage.mysql.Migrate"

	if err := migrations.Up(s.db, migrations.DialectMySQL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
