// Package database owns the PostgreSQL pool behind the pgx stdlib driver.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/footprint/pkg/lifecycle"
)

// System exposes the pool and hooks it into the lifecycle.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

// New opens a lazy pool. No connection is made until the startup ping.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Lifetime())

	return &pool{
		db:      db,
		timeout: cfg.Timeout(),
		logger:  logger.With("system", "database"),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

// Start pings the server during startup and closes the pool once every
// drain hook has finished with it.
func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("database", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		if err := p.db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}

		p.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Drained()
		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}
		p.logger.Info("database connection closed")
	})

	return nil
}
