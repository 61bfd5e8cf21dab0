package database

import (
	"context"
	"fmt"
	"time"

	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	cfg "github.com/loopwear/marketplace-app/backend/config"
)

const (
	defaultMaxPoolSize       = 4
	defaultConnTimeout       = 5 * time.Second
	defaultHealthCheckPeriod = time.Minute
)

// Postgres wraps the pgx pool together with the transactor used to compose
// multi-statement atomic units. Repositories receive DBGetter and Transactor;
// statements issued through DBGetter inside a WithinTransaction callback join
// the surrounding transaction.
type Postgres struct {
	Pool       *pgxpool.Pool
	DBGetter   tx.DBGetter
	Transactor *tx.Transactor

	maxPoolSize       int32
	connTimeout       time.Duration
	healthCheckPeriod time.Duration
	isolation         pgx.TxIsoLevel
}

// Option configures the pool before it is created.
type Option func(*Postgres)

// MaxPoolSize sets the maximum number of pooled connections.
func MaxPoolSize(size int32) Option {
	return func(p *Postgres) {
		if size > 0 {
			p.maxPoolSize = size
		}
	}
}

// ConnTimeout sets the connect timeout in seconds.
func ConnTimeout(seconds int) Option {
	return func(p *Postgres) {
		if seconds > 0 {
			p.connTimeout = time.Duration(seconds) * time.Second
		}
	}
}

// HealthCheckPeriod sets the pool health check period in minutes.
func HealthCheckPeriod(minutes int) Option {
	return func(p *Postgres) {
		if minutes > 0 {
			p.healthCheckPeriod = time.Duration(minutes) * time.Minute
		}
	}
}

// Isolation sets the default transaction isolation level for the pool.
func Isolation(level pgx.TxIsoLevel) Option {
	return func(p *Postgres) {
		p.isolation = level
	}
}

// New connects to Postgres and wires the transactor.
func New(config *cfg.Config, opts ...Option) (*Postgres, error) {
	pg := &Postgres{
		maxPoolSize:       defaultMaxPoolSize,
		connTimeout:       defaultConnTimeout,
		healthCheckPeriod: defaultHealthCheckPeriod,
		isolation:         pgx.ReadCommitted,
	}

	for _, opt := range opts {
		opt(pg)
	}

	poolConfig, err := pgxpool.ParseConfig(config.DB.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	poolConfig.MaxConns = pg.maxPoolSize
	poolConfig.HealthCheckPeriod = pg.healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = pg.connTimeout
	poolConfig.ConnConfig.RuntimeParams["default_transaction_isolation"] = string(pg.isolation)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	transactor, dbGetter := tx.NewTransactorFromPool(pool)

	pg.Pool = pool
	pg.Transactor = transactor
	pg.DBGetter = dbGetter

	return pg, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
