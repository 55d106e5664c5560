package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const DefaultMaxConns int32 = 5

var (
	ErrEmptyTarget = errors.New("connection string is empty")
	ErrConnect     = errors.New("connection failed")
)

type Options struct {
	MaxConns int32
	// ConnectTimeout bounds the initial dial. Zero keeps the connector's default.
	ConnectTimeout time.Duration
}

// Pool is a live, verified connection pool. It is safe for concurrent use.
type Pool struct {
	*pgxpool.Pool

	ID          uuid.UUID
	MaxConns    int32
	// Target describes the endpoint without credentials.
	Target      string
	ConnectedAt time.Time
}

type pinger interface {
	Ping(ctx context.Context) error
}

// NewDBPool opens a pool against connString and checks reachability with a
// single ping. Failures are not retried.
func NewDBPool(ctx context.Context, connString string, opts Options, logger logrus.FieldLogger) (*Pool, error) {
	return newDBPool(ctx, connString, opts, logger, func(pool *pgxpool.Pool) pinger { return pool })
}

// newDBPool lets tests substitute the reachability check for a pool.
func newDBPool(
	ctx context.Context,
	connString string,
	opts Options,
	logger logrus.FieldLogger,
	pingerFor func(*pgxpool.Pool) pinger,
) (*Pool, error) {
	if connString == "" {
		return nil, ErrEmptyTarget
	}

	cfg, err := poolConfig(connString, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if err := verify(ctx, pingerFor(pool)); err != nil {
		pool.Close()
		return nil, err
	}

	p := &Pool{
		Pool:        pool,
		ID:          uuid.New(),
		MaxConns:    cfg.MaxConns,
		Target:      describe(cfg),
		ConnectedAt: time.Now(),
	}

	logger.WithFields(logrus.Fields{
		"pool_id":   p.ID,
		"target":    p.Target,
		"max_conns": p.MaxConns,
	}).Info("Connected to PostgreSQL")

	return p, nil
}

func poolConfig(connString string, opts Options) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = DefaultMaxConns
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = opts.ConnectTimeout
	}

	return cfg, nil
}

func verify(ctx context.Context, db pinger) error {
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return nil
}

// describe renders the target without credentials.
func describe(cfg *pgxpool.Config) string {
	cc := cfg.ConnConfig
	return fmt.Sprintf("%s@%s:%d/%s", cc.User, cc.Host, cc.Port, cc.Database)
}
