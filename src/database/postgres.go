package database

import (
	"context"
	"fmt"
	"time"

	"tracker/src/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// PostgresDSN builds the connection string from the SQL section unless one is given.
func PostgresDSN(cfg *config.SQLConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.Port)
}

func connectBackoff(cfg *config.SQLConfig) retry.Backoff {
	return retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(500*time.Millisecond))
}

func SetupDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	sqlCfg := &cfg.Databases.SQL

	poolConfig, err := pgxpool.ParseConfig(PostgresDSN(sqlCfg))
	if err != nil {
		return nil, err
	}
	if sqlCfg.MaxConns > 0 {
		poolConfig.MaxConns = sqlCfg.MaxConns
	}
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// The database may still be starting next to us.
	err = retry.Do(ctx, connectBackoff(sqlCfg), func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}
