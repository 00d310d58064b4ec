package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Simplici0/printcost/internal/config"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// sqlitePragmas are applied on every pooled connection through the DSN.
var sqlitePragmas = []string{
	"_pragma=journal_mode(WAL)",
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_time_format=sqlite",
}

// Open connects to the configured driver and validates connectivity.
// Postgres connections are retried with exponential backoff for up to
// connectTimeout.
func Open(ctx context.Context, driver, dsn string, connectTimeout time.Duration, logger *zap.Logger) (*sqlx.DB, error) {
	switch driver {
	case config.DriverSQLite:
		return openSQLite(ctx, dsn)
	case config.DriverPostgres:
		return openPostgres(ctx, dsn, connectTimeout, logger)
	default:
		return nil, fmt.Errorf("open database: unsupported driver %q", driver)
	}
}

// SQLiteDSN appends the connection pragmas to a database path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(sqlitePragmas, "&")
}

func openSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return db, nil
}

func openPostgres(ctx context.Context, dsn string, connectTimeout time.Duration, logger *zap.Logger) (*sqlx.DB, error) {
	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = connectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("connecting to postgres")

	var db *sqlx.DB
	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("postgres connection failed, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("connected to postgres")
	return db, nil
}
