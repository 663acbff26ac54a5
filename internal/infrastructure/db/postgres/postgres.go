package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultTimeout = 10 * time.Second

	uniqueViolation = "23505"
)

// Config captures the settings required to open a PostgreSQL pool.
type Config struct {
	DSN      string
	MaxConns int32
	Timeout  time.Duration
}

// Connect opens a pgx pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                    UUID PRIMARY KEY,
	email                 TEXT NOT NULL UNIQUE,
	display_name          TEXT NOT NULL,
	phone                 TEXT NOT NULL DEFAULT '',
	role                  TEXT NOT NULL,
	credential_hash       TEXT NOT NULL,
	must_reset_credential BOOLEAN NOT NULL DEFAULT TRUE,
	origin_key            TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
	id              UUID PRIMARY KEY,
	account_id      UUID NOT NULL REFERENCES accounts(id),
	course_id       TEXT NOT NULL,
	enrolled_at     TIMESTAMPTZ NOT NULL,
	progress        DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_access_at  TIMESTAMPTZ,
	transaction_key TEXT NOT NULL DEFAULT '',
	UNIQUE (account_id, course_id)
);

CREATE TABLE IF NOT EXISTS processed_transactions (
	dedup_key      TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL DEFAULT '',
	derived        BOOLEAN NOT NULL,
	account_id     UUID NOT NULL REFERENCES accounts(id),
	enrollment_id  UUID NOT NULL REFERENCES enrollments(id),
	recorded_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	published BOOLEAN NOT NULL DEFAULT FALSE
);
`

// EnsureSchema creates the pipeline tables and their unique constraints.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Pinger adapts a pool to the readiness probe.
type Pinger struct {
	pool *pgxpool.Pool
}

func NewPinger(pool *pgxpool.Pool) *Pinger { return &Pinger{pool: pool} }

func (p *Pinger) Name() string { return "postgres" }

func (p *Pinger) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }
