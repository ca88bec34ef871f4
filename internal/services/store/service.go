// Package store is the read-side of the portal's Postgres database: gallery
// lookups, ordered photo listings and favorite lookups. The CRUD side of the
// portal owns writes; the export service only ever reads.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/services/store/migrations"
)

type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewService(dsn string, logger *zap.Logger) (*Service, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &Service{db: db, logger: logger}
	if err := s.runMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func (s *Service) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// Ping reports database reachability, for health checks.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) Close() error {
	return s.db.Close()
}
