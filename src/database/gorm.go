package database

import (
	"context"
	"fmt"
	"time"

	"tracker/src/config"
	"tracker/src/models"

	"github.com/sethvargo/go-retry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormDialector(cfg *config.SQLConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Database), nil
	case "mysql":
		dsn := cfg.ConnectionString
		if dsn == "" {
			// clientFoundRows makes RowsAffected count matched rows like the other drivers.
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true",
				cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		}
		return mysql.Open(dsn), nil
	case "postgres", "":
		return postgres.Open(PostgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
}

// SetupGorm opens the configured dialect and migrates the transaction_items table.
func SetupGorm(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	sqlCfg := &cfg.Databases.SQL

	dialector, err := gormDialector(sqlCfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if sqlCfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(sqlCfg.MaxConns))
	}
	sqlDB.SetConnMaxLifetime(3 * time.Minute)

	err = retry.Do(ctx, connectBackoff(sqlCfg), func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.TransactionItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate transaction_items: %w", err)
	}
	return db, nil
}
