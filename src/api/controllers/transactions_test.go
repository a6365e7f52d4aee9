package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"tracker/src/api/controllers"
	"tracker/src/cache"
	"tracker/src/config"
	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/schemas"
	"tracker/src/testutil"
	"tracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "user-a"
	bob   = "user-b"
)

func newController(t *testing.T, cfg config.TransactionsConfig) (*controllers.TransactionsController, repositories.TransactionItemRepository) {
	repo := testutil.SetupRepository(t)
	if cfg.MissingRecord == "" {
		cfg.MissingRecord = config.MissingRecordIgnore
	}
	if cfg.UpdateScope == "" {
		cfg.UpdateScope = config.UpdateScopeUnscoped
	}
	return controllers.NewTransactionsController(repo, cache.NewMemoryCategoryCache(time.Minute), cfg), repo
}

func create(t *testing.T, tc *controllers.TransactionsController, userID, description, amount, category, date string) *models.TransactionItem {
	item, err := tc.CreateTransaction(context.Background(), userID, &schemas.CreateTransactionRequest{
		Description: description,
		Amount:      schemas.FormValue(amount),
		Category:    category,
		Date:        schemas.FormValue(date),
	})
	require.NoError(t, err)
	return item
}

func statusOf(err error) int {
	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return 0
}

func TestCreateTransaction(t *testing.T) {
	tc, repo := newController(t, config.TransactionsConfig{})
	ctx := context.Background()

	t.Run("new items are active and owned by the caller", func(t *testing.T) {
		item := create(t, tc, alice, "lunch", "12.75", "food", "2023-04-20")

		stored, err := repo.FindByIDAndOwner(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.False(t, stored.IsDeleted)
		assert.Equal(t, alice, stored.UserID)
		assert.Equal(t, 12.75, stored.Amount)
		assert.True(t, stored.Date.Equal(time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("blank fields are stored as zero values", func(t *testing.T) {
		item := create(t, tc, alice, "", "", "", "")
		assert.Equal(t, float64(0), item.Amount)
		assert.True(t, item.Date.IsZero())
	})

	t.Run("a non numeric amount fails as a server error", func(t *testing.T) {
		_, err := tc.CreateTransaction(ctx, alice, &schemas.CreateTransactionRequest{Amount: "ten"})
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, statusOf(err))
		assert.Equal(t, "Error creating transaction", err.(*utils.HTTPError).Message)
	})

	t.Run("non finite amounts are rejected before storage", func(t *testing.T) {
		userID := "user-nan"
		for _, amount := range []string{"NaN", "nan", "Inf", "-Infinity", "1e400"} {
			_, err := tc.CreateTransaction(ctx, userID, &schemas.CreateTransactionRequest{Amount: schemas.FormValue(amount)})
			assert.Equal(t, http.StatusInternalServerError, statusOf(err), amount)
		}

		items, err := tc.ListTransactions(ctx, userID, models.ParseSort("", ""))
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestDeletePolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("ignore policy makes missing deletes a no-op", func(t *testing.T) {
		tc, _ := newController(t, config.TransactionsConfig{MissingRecord: config.MissingRecordIgnore})
		assert.NoError(t, tc.CompleteTransaction(ctx, alice, "missing"))
		assert.NoError(t, tc.RemoveTransaction(ctx, alice, "missing"))
	})

	t.Run("error policy reports missing deletes as not found", func(t *testing.T) {
		tc, _ := newController(t, config.TransactionsConfig{MissingRecord: config.MissingRecordError})
		assert.Equal(t, http.StatusNotFound, statusOf(tc.CompleteTransaction(ctx, alice, "missing")))
		assert.Equal(t, http.StatusNotFound, statusOf(tc.RemoveTransaction(ctx, alice, "missing")))

		item := create(t, tc, alice, "tea", "2", "food", "2023-04-01")
		assert.Equal(t, http.StatusNotFound, statusOf(tc.CompleteTransaction(ctx, bob, item.ID)), "other owners do not match")
		assert.NoError(t, tc.CompleteTransaction(ctx, alice, item.ID))
		assert.NoError(t, tc.RemoveTransaction(ctx, alice, item.ID))
	})

	t.Run("soft delete flags the record and hard delete removes it", func(t *testing.T) {
		tc, repo := newController(t, config.TransactionsConfig{})
		item := create(t, tc, alice, "tea", "2", "food", "2023-04-01")

		require.NoError(t, tc.CompleteTransaction(ctx, alice, item.ID))
		stored, err := repo.FindByIDAndOwner(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.True(t, stored.IsDeleted)

		require.NoError(t, tc.RemoveTransaction(ctx, alice, item.ID))
		_, err = tc.GetTransactionForEdit(ctx, alice, item.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(err))
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("default scope lets another user overwrite the item", func(t *testing.T) {
		tc, repo := newController(t, config.TransactionsConfig{})
		item := create(t, tc, alice, "rent", "900", "rent", "2023-04-01")

		updated, err := tc.UpdateTransaction(ctx, bob, &schemas.UpdateTransactionRequest{
			ID: item.ID, Description: "changed by b", Amount: "1", Category: "rent", Date: "2023-04-02",
		})
		require.NoError(t, err)
		assert.Equal(t, alice, updated.UserID, "ownership is untouched")

		stored, err := repo.FindByIDAndOwner(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, "changed by b", stored.Description)
		assert.Equal(t, float64(1), stored.Amount)
	})

	t.Run("owner scope rejects other users", func(t *testing.T) {
		tc, repo := newController(t, config.TransactionsConfig{UpdateScope: config.UpdateScopeOwner})
		item := create(t, tc, alice, "rent", "900", "rent", "2023-04-01")

		_, err := tc.UpdateTransaction(ctx, bob, &schemas.UpdateTransactionRequest{ID: item.ID, Description: "nope"})
		assert.Equal(t, http.StatusInternalServerError, statusOf(err))

		stored, err := repo.FindByIDAndOwner(ctx, item.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, "rent", stored.Description)
	})

	t.Run("amount uses its numeric prefix", func(t *testing.T) {
		tc, _ := newController(t, config.TransactionsConfig{})
		item := create(t, tc, alice, "rent", "900", "rent", "2023-04-01")

		cases := map[string]float64{"12abc": 12, " -3.5kg": -3.5, "1e2x": 100, ".5": 0.5, "": 0}
		for amount, expected := range cases {
			updated, err := tc.UpdateTransaction(ctx, alice, &schemas.UpdateTransactionRequest{ID: item.ID, Amount: schemas.FormValue(amount)})
			require.NoError(t, err, amount)
			assert.Equal(t, expected, updated.Amount, amount)
		}

		for _, amount := range []string{"abc", "NaN", "Infinity", "-Inf"} {
			_, err := tc.UpdateTransaction(ctx, alice, &schemas.UpdateTransactionRequest{ID: item.ID, Amount: schemas.FormValue(amount)})
			assert.Equal(t, http.StatusInternalServerError, statusOf(err), amount)
		}
	})

	t.Run("missing record is an error", func(t *testing.T) {
		tc, _ := newController(t, config.TransactionsConfig{})
		_, err := tc.UpdateTransaction(ctx, alice, &schemas.UpdateTransactionRequest{ID: "missing"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, repositories.ErrNotFound))
		assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	})
}

func TestGetTotalsByCategory(t *testing.T) {
	ctx := context.Background()
	tc, _ := newController(t, config.TransactionsConfig{})

	create(t, tc, alice, "A", "10", "food", "2023-04-01")
	b := create(t, tc, alice, "B", "5", "food", "2023-04-02")
	create(t, tc, alice, "C", "100", "rent", "2023-04-03")
	create(t, tc, bob, "D", "7", "food", "2023-04-03")
	require.NoError(t, tc.CompleteTransaction(ctx, alice, b.ID))

	totals, err := tc.GetTotalsByCategory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryTotal{{Category: "food", Total: 10}, {Category: "rent", Total: 100}}, totals)

	t.Run("writes invalidate the cached totals", func(t *testing.T) {
		create(t, tc, alice, "E", "1", "fun", "2023-04-04")

		totals, err := tc.GetTotalsByCategory(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, totals, 3)
		assert.Equal(t, "fun", totals[1].Category)
	})

	t.Run("categories come from active items", func(t *testing.T) {
		categories, err := tc.GetCategories(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"food", "fun", "rent"}, categories)
	})
}

func TestRenameCategory(t *testing.T) {
	ctx := context.Background()
	tc, repo := newController(t, config.TransactionsConfig{})

	create(t, tc, alice, "A", "10", "food", "2023-04-01")
	create(t, tc, alice, "B", "5", "rent", "2023-04-02")
	other := create(t, tc, bob, "C", "7", "food", "2023-04-02")

	_, err := tc.GetTotalsByCategory(ctx, alice)
	require.NoError(t, err)

	renamed, err := tc.RenameCategory(ctx, alice, &schemas.RenameCategoryRequest{OldCategory: "food", NewCategory: "groceries"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), renamed)

	totals, err := tc.GetTotalsByCategory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryTotal{{Category: "groceries", Total: 10}, {Category: "rent", Total: 5}}, totals, "cached totals were invalidated")

	stored, err := repo.FindByIDAndOwner(ctx, other.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, "food", stored.Category)
}

// pausingRepo holds the first aggregation after it has read the store.
type pausingRepo struct {
	repositories.TransactionItemRepository
	once   sync.Once
	read   chan struct{}
	resume chan struct{}
}

func (r *pausingRepo) AggregateByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	totals, err := r.TransactionItemRepository.AggregateByCategory(ctx, userID)
	r.once.Do(func() {
		close(r.read)
		<-r.resume
	})
	return totals, err
}

func TestGetTotalsByCategoryWithConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	repo := &pausingRepo{
		TransactionItemRepository: testutil.SetupRepository(t),
		read:                      make(chan struct{}),
		resume:                    make(chan struct{}),
	}
	tc := controllers.NewTransactionsController(repo, cache.NewMemoryCategoryCache(time.Minute), config.TransactionsConfig{
		MissingRecord: config.MissingRecordIgnore,
		UpdateScope:   config.UpdateScopeUnscoped,
	})

	create(t, tc, alice, "A", "10", "food", "2023-04-01")
	b := create(t, tc, alice, "B", "5", "food", "2023-04-02")

	type result struct {
		totals []models.CategoryTotal
		err    error
	}
	inFlight := make(chan result, 1)
	go func() {
		totals, err := tc.GetTotalsByCategory(ctx, alice)
		inFlight <- result{totals, err}
	}()

	<-repo.read
	require.NoError(t, tc.CompleteTransaction(ctx, alice, b.ID))
	close(repo.resume)

	first := <-inFlight
	require.NoError(t, first.err)
	assert.Equal(t, []models.CategoryTotal{{Category: "food", Total: 15}}, first.totals, "the in-flight read saw the old state")

	totals, err := tc.GetTotalsByCategory(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryTotal{{Category: "food", Total: 10}}, totals, "totals from before the soft delete were not cached")
}

func TestGetTotalsByPeriod(t *testing.T) {
	ctx := context.Background()
	tc, _ := newController(t, config.TransactionsConfig{})

	create(t, tc, alice, "a", "10", "food", "2023-04-01")
	create(t, tc, alice, "b", "5", "food", "2023-04-01")
	create(t, tc, alice, "c", "20", "rent", "2023-05-15")
	create(t, tc, alice, "d", "1", "rent", "2024-01-02")
	deleted := create(t, tc, alice, "e", "1000", "rent", "2023-04-01")
	require.NoError(t, tc.CompleteTransaction(ctx, alice, deleted.ID))

	cases := []struct {
		period   string
		expected []models.PeriodTotal
	}{
		{"date", []models.PeriodTotal{{Period: "2023-04-01", Total: 15}, {Period: "2023-05-15", Total: 20}, {Period: "2024-01-02", Total: 1}}},
		{"month", []models.PeriodTotal{{Period: "2023-04", Total: 15}, {Period: "2023-05", Total: 20}, {Period: "2024-01", Total: 1}}},
		{"year", []models.PeriodTotal{{Period: "2023", Total: 35}, {Period: "2024", Total: 1}}},
		{"unknown", []models.PeriodTotal{{Period: "2023-04-01", Total: 15}, {Period: "2023-05-15", Total: 20}, {Period: "2024-01-02", Total: 1}}},
	}
	for _, tt := range cases {
		t.Run(tt.period, func(t *testing.T) {
			totals, err := tc.GetTotalsByPeriod(ctx, alice, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, totals)
		})
	}
}
