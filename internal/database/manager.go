package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/s3-uploads-api/internal/config"
	"github.com/s3-uploads-api/internal/logger"
)

// Manager owns the settings-store connection pool.
type Manager struct {
	cfg  *config.DatabaseConfig
	log  *logger.Logger
	pool *pgxpool.Pool
	mu   sync.RWMutex
}

func NewManager(cfg *config.DatabaseConfig, log *logger.Logger) *Manager {
	return &Manager{cfg: cfg, log: log.Subsystem("database")}
}

// InitPool connects and pings. Calling it again is a no-op.
func (m *Manager) InitPool(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return nil
	}

	poolConfig, err := pgxpool.ParseConfig(m.cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to parse db config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping db: %w", err)
	}

	m.pool = pool
	m.log.Info("settings DB pool initialized")
	return nil
}

func (m *Manager) Pool() *pgxpool.Pool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pool
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
		m.log.Info("settings DB pool closed")
	}
}
