package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pranchal07/heal/internal/metrics"
)

// PoolConfig bounds the shared connection pool.
type PoolConfig struct {
	DSN            string
	MaxConns       int32
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
}

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.IdleTimeout > 0 {
		pc.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// OpenDB exposes pool through database/sql. Connections are still borrowed
// from and returned to pool; closing the *sql.DB does not close pool.
func OpenDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

// DB is the statement gateway every repository goes through. It logs each
// statement with its duration and records it in metrics; errors are returned
// unchanged.
type DB struct {
	db *sql.DB
}

// NewDB wraps db.
func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// Ping checks that a connection can be borrowed and used.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Exec runs a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(ctx, op, query, start, err)
	return res, err
}

// Query runs a statement returning rows. The caller must close the rows.
func (d *DB) Query(ctx context.Context, op, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(ctx, op, query, start, err)
	return rows, err
}

// QueryRow runs a single-row statement and scans it into dest.
// sql.ErrNoRows is returned as is.
func (d *DB) QueryRow(ctx context.Context, op, query string, args []any, dest ...any) error {
	start := time.Now()
	err := d.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	observed := err
	if errors.Is(err, sql.ErrNoRows) {
		observed = nil
	}
	d.observe(ctx, op, query, start, observed)
	return err
}

func (d *DB) observe(ctx context.Context, op, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.RecordQuery(op, elapsed, err)
	if err != nil {
		slog.ErrorContext(ctx, "query execution failed",
			"op", op,
			"query", query,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}
	slog.DebugContext(ctx, "query executed",
		"op", op,
		"query", query,
		"duration_ms", elapsed.Milliseconds(),
	)
}
