// Package persistence is the PostgreSQL data layer: connection pool,
// schema migrations and the account repository.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lewisedginton/account_service/internal/accounts"
	pkgconfig "github.com/lewisedginton/account_service/pkg/config"
	"github.com/lewisedginton/account_service/pkg/logger"
)

// ErrNotInitialised is returned by operations on a Store before Init succeeded.
var ErrNotInitialised = errors.New("data layer not initialised")

// Store owns the connection pool. It is safe for concurrent use; metric
// scrapes may run while Init or Close swap the pool.
type Store struct {
	cfg pkgconfig.DatabaseConfig
	log logger.Logger

	mu       sync.RWMutex
	pool     *pgxpool.Pool
	accounts *AccountRepository
}

// NewStore creates a Store. No connection is made until Init.
func NewStore(cfg pkgconfig.DatabaseConfig, log logger.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

// Init connects, verifies the connection and applies pending migrations.
// Any failure leaves the Store unusable.
func (s *Store) Init(ctx context.Context) error {
	poolCfg, err := poolConfig(s.cfg)
	if err != nil {
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database %s: %w", poolCfg.ConnConfig.Host, err)
	}

	if err := NewMigrationManager(pool, s.log).RunMigrations(); err != nil {
		pool.Close()
		return err
	}

	s.mu.Lock()
	s.pool = pool
	s.accounts = NewAccountRepository(pool, s.log)
	s.mu.Unlock()

	s.log.Info("Database initialised",
		logger.StringField("host", poolCfg.ConnConfig.Host),
		logger.StringField("database", poolCfg.ConnConfig.Database),
		logger.IntField("max_connections", int(poolCfg.MaxConns)),
	)
	return nil
}

// poolConfig parses the connection string and applies the pool limits. The
// connection string itself is never rewritten.
func poolConfig(cfg pkgconfig.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = int32(cfg.MinConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	return poolCfg, nil
}

func (s *Store) currentPool() *pgxpool.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

// Ping checks that the database still answers.
func (s *Store) Ping(ctx context.Context) error {
	pool := s.currentPool()
	if pool == nil {
		return ErrNotInitialised
	}
	return pool.Ping(ctx)
}

// Accounts returns the account repository backed by this Store. Before Init
// every call fails with ErrNotInitialised.
func (s *Store) Accounts() accounts.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accounts == nil {
		return unavailableRepository{}
	}
	return s.accounts
}

// Collectors exposes pool statistics as Prometheus gauges.
func (s *Store) Collectors() []prometheus.Collector {
	stat := func(name, help string, value func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			pool := s.currentPool()
			if pool == nil {
				return 0
			}
			return value(pool.Stat())
		})
	}

	return []prometheus.Collector{
		stat("total_connections", "Connections currently open in the pool",
			func(st *pgxpool.Stat) float64 { return float64(st.TotalConns()) }),
		stat("acquired_connections", "Connections currently in use",
			func(st *pgxpool.Stat) float64 { return float64(st.AcquiredConns()) }),
		stat("idle_connections", "Connections currently idle",
			func(st *pgxpool.Stat) float64 { return float64(st.IdleConns()) }),
		stat("max_connections", "Configured pool size",
			func(st *pgxpool.Stat) float64 { return float64(st.MaxConns()) }),
	}
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.mu.Lock()
	pool := s.pool
	s.pool = nil
	s.accounts = nil
	s.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
}

type unavailableRepository struct{}

func (unavailableRepository) Create(context.Context, *accounts.Account) error {
	return ErrNotInitialised
}

func (unavailableRepository) Get(context.Context, accounts.ID) (*accounts.Account, error) {
	return nil, ErrNotInitialised
}

func (unavailableRepository) List(context.Context, accounts.ListFilter) ([]accounts.Account, int, error) {
	return nil, 0, ErrNotInitialised
}

func (unavailableRepository) Update(context.Context, *accounts.Account) error {
	return ErrNotInitialised
}

func (unavailableRepository) Delete(context.Context, accounts.ID) error {
	return ErrNotInitialised
}
