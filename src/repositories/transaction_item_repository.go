package repositories

import (
	"context"
	"errors"

	"tracker/src/models"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("transaction item not found")

type TransactionItemRepository interface {
	FindByOwner(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error)
	FindByIDAndOwner(ctx context.Context, id, userID string) (*models.TransactionItem, error)
	Insert(ctx context.Context, item *models.TransactionItem) error
	// UpdateByID overwrites the item without looking at its owner.
	UpdateByID(ctx context.Context, id string, fields models.TransactionFields) (*models.TransactionItem, error)
	UpdateByIDAndOwner(ctx context.Context, id, userID string, fields models.TransactionFields) (*models.TransactionItem, error)
	// SoftDelete reports whether a record matched, already deleted ones included.
	SoftDelete(ctx context.Context, id, userID string) (bool, error)
	DeleteByIDAndOwner(ctx context.Context, id, userID string) (bool, error)
	AggregateByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error)
	// RenameCategory moves every owned item, deleted ones included, from
	// oldCategory to newCategory and returns how many items matched.
	RenameCategory(ctx context.Context, userID, oldCategory, newCategory string) (int64, error)
}
