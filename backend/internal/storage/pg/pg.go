package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/repospector/repospector/backend/internal/storage/pg/migrations"
	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/logger"
	sharedpg "github.com/repospector/repospector/shared/storage/pg"
)

type Querier = sharedpg.Querier

type Storage struct {
	db *sql.DB
}

// New connects to postgres and brings the schema up to date.
func New(ctx context.Context, cfg config.Pg, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	log := logger.Component("storage")
	log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("successfully connected to db")
	return &Storage{db: db}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping backs the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return sharedpg.WithTx(ctx, s.db, fn)
}
