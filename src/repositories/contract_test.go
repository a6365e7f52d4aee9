package repositories_test

import (
	"context"
	"testing"
	"time"

	"tracker/src/models"
	"tracker/src/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(userID, description, category string, amount float64, date time.Time) *models.TransactionItem {
	return &models.TransactionItem{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		UserID:      userID,
	}
}

func day(d int) time.Time {
	return time.Date(2023, time.April, d, 0, 0, 0, 0, time.UTC)
}

// runRepositoryContract exercises behaviour every store must share.
func runRepositoryContract(t *testing.T, repo repositories.TransactionItemRepository) {
	ctx := context.Background()

	t.Run("Insert and FindByIDAndOwner", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "groceries", "food", 12.5, day(1))
		require.NoError(t, repo.Insert(ctx, item))

		found, err := repo.FindByIDAndOwner(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, item.Description, found.Description)
		assert.Equal(t, item.Amount, found.Amount)
		assert.Equal(t, item.Category, found.Category)
		assert.True(t, item.Date.Equal(found.Date))
		assert.False(t, found.IsDeleted)
		assert.Equal(t, userID, found.UserID)
	})

	t.Run("FindByIDAndOwner is scoped by owner", func(t *testing.T) {
		item := newItem(uuid.NewString(), "rent", "rent", 900, day(2))
		require.NoError(t, repo.Insert(ctx, item))

		_, err := repo.FindByIDAndOwner(ctx, item.ID, uuid.NewString())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("FindByOwner sorts by the requested field", func(t *testing.T) {
		userID := uuid.NewString()
		require.NoError(t, repo.Insert(ctx, newItem(userID, "b", "rent", 100, day(3))))
		require.NoError(t, repo.Insert(ctx, newItem(userID, "a", "food", 5, day(1))))
		require.NoError(t, repo.Insert(ctx, newItem(userID, "c", "fun", 50, day(2))))
		require.NoError(t, repo.Insert(ctx, newItem(uuid.NewString(), "other", "food", 1000, day(4))))

		items, err := repo.FindByOwner(ctx, userID, models.ParseSort("amount", "desc"))
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []float64{100, 50, 5}, []float64{items[0].Amount, items[1].Amount, items[2].Amount})

		items, err = repo.FindByOwner(ctx, userID, models.ParseSort("description", "asc"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].Description, items[1].Description, items[2].Description})

		items, err = repo.FindByOwner(ctx, userID, models.ParseSort("bogus", ""))
		require.NoError(t, err)
		assert.True(t, items[0].Date.Equal(day(3)))
		assert.True(t, items[2].Date.Equal(day(1)))
	})

	t.Run("FindByOwner includes soft-deleted items", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "old", "food", 1, day(1))
		require.NoError(t, repo.Insert(ctx, item))
		_, err := repo.SoftDelete(ctx, item.ID, userID)
		require.NoError(t, err)

		items, err := repo.FindByOwner(ctx, userID, models.ParseSort("", ""))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].IsDeleted)
	})

	t.Run("FindByOwner for unknown owner is empty", func(t *testing.T) {
		items, err := repo.FindByOwner(ctx, uuid.NewString(), models.ParseSort("", ""))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("SoftDelete reports matches", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "coffee", "food", 3, day(1))
		require.NoError(t, repo.Insert(ctx, item))

		matched, err := repo.SoftDelete(ctx, item.ID, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, matched)

		matched, err = repo.SoftDelete(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.True(t, matched)

		matched, err = repo.SoftDelete(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.True(t, matched, "already deleted items still match")

		matched, err = repo.SoftDelete(ctx, uuid.NewString(), userID)
		require.NoError(t, err)
		assert.False(t, matched)

		found, err := repo.FindByIDAndOwner(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.True(t, found.IsDeleted)
	})

	t.Run("DeleteByIDAndOwner removes the record", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "gym", "health", 40, day(5))
		require.NoError(t, repo.Insert(ctx, item))

		deleted, err := repo.DeleteByIDAndOwner(ctx, item.ID, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = repo.DeleteByIDAndOwner(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = repo.FindByIDAndOwner(ctx, item.ID, userID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		deleted, err = repo.DeleteByIDAndOwner(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("UpdateByID overwrites every field regardless of owner", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "bus", "transport", 2.5, day(6))
		require.NoError(t, repo.Insert(ctx, item))

		updated, err := repo.UpdateByID(ctx, item.ID, models.TransactionFields{
			Description: "",
			Amount:      0,
			Category:    "travel",
			Date:        day(7),
		})
		require.NoError(t, err)
		assert.Equal(t, userID, updated.UserID)
		assert.Equal(t, "", updated.Description)
		assert.Equal(t, float64(0), updated.Amount)
		assert.Equal(t, "travel", updated.Category)

		found, err := repo.FindByIDAndOwner(ctx, item.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, "", found.Description)
		assert.Equal(t, float64(0), found.Amount)
		assert.True(t, found.Date.Equal(day(7)))

		_, err = repo.UpdateByID(ctx, uuid.NewString(), models.TransactionFields{})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("UpdateByIDAndOwner is scoped by owner", func(t *testing.T) {
		userID := uuid.NewString()
		item := newItem(userID, "taxi", "transport", 20, day(8))
		require.NoError(t, repo.Insert(ctx, item))

		_, err := repo.UpdateByIDAndOwner(ctx, item.ID, uuid.NewString(), models.TransactionFields{Description: "stolen"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		updated, err := repo.UpdateByIDAndOwner(ctx, item.ID, userID, models.TransactionFields{Description: "cab", Amount: 22, Category: "transport", Date: day(8)})
		require.NoError(t, err)
		assert.Equal(t, "cab", updated.Description)
	})

	t.Run("AggregateByCategory skips deleted items and sorts by category", func(t *testing.T) {
		userID := uuid.NewString()
		a := newItem(userID, "A", "food", 10, day(1))
		b := newItem(userID, "B", "food", 5, day(2))
		c := newItem(userID, "C", "rent", 100, day(3))
		for _, it := range []*models.TransactionItem{c, b, a} {
			require.NoError(t, repo.Insert(ctx, it))
		}
		matched, err := repo.SoftDelete(ctx, b.ID, userID)
		require.NoError(t, err)
		require.True(t, matched)

		totals, err := repo.AggregateByCategory(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []models.CategoryTotal{
			{Category: "food", Total: 10},
			{Category: "rent", Total: 100},
		}, totals)
	})

	t.Run("RenameCategory moves every owned item in the category", func(t *testing.T) {
		userID := uuid.NewString()
		other := uuid.NewString()
		a := newItem(userID, "A", "food", 10, day(1))
		b := newItem(userID, "B", "food", 5, day(2))
		c := newItem(userID, "C", "rent", 100, day(3))
		d := newItem(other, "D", "food", 7, day(4))
		for _, it := range []*models.TransactionItem{a, b, c, d} {
			require.NoError(t, repo.Insert(ctx, it))
		}
		_, err := repo.SoftDelete(ctx, b.ID, userID)
		require.NoError(t, err)

		renamed, err := repo.RenameCategory(ctx, userID, "food", "groceries")
		require.NoError(t, err)
		assert.Equal(t, int64(2), renamed, "deleted items are renamed too")

		found, err := repo.FindByIDAndOwner(ctx, b.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, "groceries", found.Category)
		assert.True(t, found.IsDeleted)

		found, err = repo.FindByIDAndOwner(ctx, d.ID, other)
		require.NoError(t, err)
		assert.Equal(t, "food", found.Category, "other owners are untouched")

		totals, err := repo.AggregateByCategory(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []models.CategoryTotal{
			{Category: "groceries", Total: 10},
			{Category: "rent", Total: 100},
		}, totals)

		renamed, err = repo.RenameCategory(ctx, userID, "missing", "anything")
		require.NoError(t, err)
		assert.Zero(t, renamed)
	})

	t.Run("AggregateByCategory for unknown owner is empty", func(t *testing.T) {
		totals, err := repo.AggregateByCategory(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, totals)
	})
}
