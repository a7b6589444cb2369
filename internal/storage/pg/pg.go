package pg

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/talkboard-dev/talkboard/internal/config"
	"github.com/talkboard-dev/talkboard/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Storage owns the three content collections and their invariants. Every
// structural mutation adjusts ancestor counters in the same transaction as
// the entity write, so a committed mutation can never leave a counter behind.
type Storage struct {
	db  *sqlx.DB
	cfg *config.Config
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db")
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db, cfg}, nil
}

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	pgCfg := cfg.Private.Pg
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		pgCfg.Host, pgCfg.Port, pgCfg.User, pgCfg.Password, pgCfg.Dbname)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// now returns the timestamp used for created/newest stamps. The database
// rounds to microsecond anyway.
func now() time.Time {
	return time.Now().UTC().Round(time.Microsecond)
}

// retryable reports whether a transaction lost a race and is worth retrying:
// serialization failures, deadlocks and the unique-violation window of a
// concurrent like insert. Storage methods wrap driver errors, so unwrap
// through the chain.
func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "23505":
		return true
	}
	return false
}

// withRetry runs fn up to attempts times, backing off between tries.
// Only race-lost transactions are retried.
func withRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}
