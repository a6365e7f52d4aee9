// Package testutil sets up throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"tracker/src/config"
	"tracker/src/database"
	"tracker/src/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLiteConfig points the GORM store at a private in-memory database.
func SQLiteConfig() *config.Config {
	return &config.Config{
		Service: config.ServiceConfig{Store: config.GORM},
		Databases: config.DatabasesConfig{
			SQL: config.SQLConfig{
				Driver:   "sqlite",
				Database: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
				MaxConns: 1,
			},
		},
		Auth: config.AuthConfig{JWTSecret: "testing-secret", LoginPath: "/login"},
		Transactions: config.TransactionsConfig{
			MissingRecord: config.MissingRecordIgnore,
			UpdateScope:   config.UpdateScopeUnscoped,
		},
	}
}

// SetupGormDB opens an in-memory sqlite database closed when t finishes.
func SetupGormDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.SetupGorm(context.Background(), SQLiteConfig())
	if err != nil {
		t.Fatalf("Failed to set up sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupRepository returns a GORM repository on a fresh database.
func SetupRepository(t *testing.T) repositories.TransactionItemRepository {
	t.Helper()
	return repositories.NewGormTransactionItemRepository(SetupGormDB(t))
}
