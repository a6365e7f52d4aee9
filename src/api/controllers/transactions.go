package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"tracker/src/cache"
	"tracker/src/config"
	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const transactionNotFound = "Transaction not found"

type TransactionsControllerI interface {
	ListTransactions(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error)
	CreateTransaction(ctx context.Context, userID string, req *schemas.CreateTransactionRequest) (*models.TransactionItem, error)
	RemoveTransaction(ctx context.Context, userID, id string) error
	CompleteTransaction(ctx context.Context, userID, id string) error
	GetTransactionForEdit(ctx context.Context, userID, id string) (*models.TransactionItem, error)
	UpdateTransaction(ctx context.Context, userID string, req *schemas.UpdateTransactionRequest) (*models.TransactionItem, error)
	GetTotalsByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error)
	GetCategories(ctx context.Context, userID string) ([]string, error)
	RenameCategory(ctx context.Context, userID string, req *schemas.RenameCategoryRequest) (int64, error)
	GetTotalsByPeriod(ctx context.Context, userID, period string) ([]models.PeriodTotal, error)
	GetExportRows(ctx context.Context, userID string) ([][]string, error)
	GenerateXLSX(ctx context.Context, userID string) (*excelize.File, error)
}

type TransactionsController struct {
	Repo   repositories.TransactionItemRepository
	Cache  cache.CategoryTotalsCache
	Config config.TransactionsConfig
}

func NewTransactionsController(repo repositories.TransactionItemRepository, c cache.CategoryTotalsCache, cfg config.TransactionsConfig) *TransactionsController {
	if c == nil {
		c = cache.NewNoopCategoryCache()
	}
	return &TransactionsController{Repo: repo, Cache: c, Config: cfg}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// parseAmount requires the whole value to be a finite number. Blank is 0.
func parseAmount(value schemas.FormValue) (float64, error) {
	s := strings.TrimSpace(string(value))
	if s == "" {
		return 0, nil
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot cast amount %q to number", s)
	}
	return finite(amount, s)
}

// parseLeadingAmount reads the numeric prefix of value and ignores the rest,
// so "12abc" is 12. A value without a numeric prefix is rejected. Blank is 0.
func parseLeadingAmount(value schemas.FormValue) (float64, error) {
	s := strings.TrimSpace(string(value))
	if s == "" {
		return 0, nil
	}
	prefix := leadingNumber.FindString(s)
	if prefix == "" {
		return 0, fmt.Errorf("cannot cast amount %q to number", s)
	}
	amount, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot cast amount %q to number", s)
	}
	return finite(amount, s)
}

func finite(amount float64, raw string) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", raw)
	}
	return amount, nil
}

func (tc *TransactionsController) invalidate(ctx context.Context, userID string) {
	if err := tc.Cache.Invalidate(ctx, userID); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithField("userId", userID).Warn("failed to invalidate category totals")
	}
}

// missing applies the configured policy to a delete that matched nothing.
func (tc *TransactionsController) missing() error {
	if tc.Config.MissingRecord == config.MissingRecordError {
		return utils.NotFound(transactionNotFound)
	}
	return nil
}

func (tc *TransactionsController) ListTransactions(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error) {
	items, err := tc.Repo.FindByOwner(ctx, userID, sort)
	if err != nil {
		return nil, utils.InternalServerError("Error retrieving transactions", err)
	}
	return items, nil
}

func (tc *TransactionsController) CreateTransaction(ctx context.Context, userID string, req *schemas.CreateTransactionRequest) (*models.TransactionItem, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, utils.InternalServerError("Error creating transaction", err)
	}
	date, err := utils.ParseDate(string(req.Date))
	if err != nil {
		return nil, utils.InternalServerError("Error creating transaction", err)
	}

	item := &models.TransactionItem{
		ID:          uuid.NewString(),
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
		IsDeleted:   false,
		UserID:      userID,
	}
	if err := tc.Repo.Insert(ctx, item); err != nil {
		return nil, utils.InternalServerError("Error creating transaction", err)
	}
	tc.invalidate(ctx, userID)
	return item, nil
}

func (tc *TransactionsController) RemoveTransaction(ctx context.Context, userID, id string) error {
	deleted, err := tc.Repo.DeleteByIDAndOwner(ctx, id, userID)
	if err != nil {
		return utils.InternalServerError("Error deleting transaction", err)
	}
	if !deleted {
		return tc.missing()
	}
	tc.invalidate(ctx, userID)
	return nil
}

func (tc *TransactionsController) CompleteTransaction(ctx context.Context, userID, id string) error {
	matched, err := tc.Repo.SoftDelete(ctx, id, userID)
	if err != nil {
		return utils.InternalServerError("Error marking transaction as complete", err)
	}
	if !matched {
		return tc.missing()
	}
	tc.invalidate(ctx, userID)
	return nil
}

func (tc *TransactionsController) GetTransactionForEdit(ctx context.Context, userID, id string) (*models.TransactionItem, error) {
	item, err := tc.Repo.FindByIDAndOwner(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, utils.NotFound(transactionNotFound)
	}
	if err != nil {
		return nil, utils.InternalServerError("Error retrieving transaction", err)
	}
	return item, nil
}

// UpdateTransaction overwrites the item by id. Under the unscoped update
// scope the caller's identity is not checked against the item owner.
func (tc *TransactionsController) UpdateTransaction(ctx context.Context, userID string, req *schemas.UpdateTransactionRequest) (*models.TransactionItem, error) {
	amount, err := parseLeadingAmount(req.Amount)
	if err != nil {
		return nil, utils.InternalServerError("Error updating transaction", err)
	}
	date, err := utils.ParseDate(string(req.Date))
	if err != nil {
		return nil, utils.InternalServerError("Error updating transaction", err)
	}
	fields := models.TransactionFields{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		Date:        date,
	}

	var item *models.TransactionItem
	if tc.Config.UpdateScope == config.UpdateScopeOwner {
		item, err = tc.Repo.UpdateByIDAndOwner(ctx, req.ID, userID, fields)
	} else {
		item, err = tc.Repo.UpdateByID(ctx, req.ID, fields)
	}
	if err != nil {
		return nil, utils.InternalServerError("Error updating transaction", err)
	}
	tc.invalidate(ctx, item.UserID)
	return item, nil
}

func (tc *TransactionsController) GetTotalsByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	logger := utils.LoggerFromContext(ctx)

	totals, ok, err := tc.Cache.Get(ctx, userID)
	if err != nil {
		logger.WithError(err).Warn("category totals cache read failed")
	}
	if ok {
		return totals, nil
	}

	// Taken before the read so a write that lands meanwhile voids the Set.
	version, versionErr := tc.Cache.Version(ctx, userID)
	if versionErr != nil {
		logger.WithError(versionErr).Warn("category totals cache version read failed")
	}

	totals, err = tc.Repo.AggregateByCategory(ctx, userID)
	if err != nil {
		return nil, utils.InternalServerError("Error retrieving transactions by category", err)
	}
	if versionErr == nil {
		if err := tc.Cache.Set(ctx, userID, version, totals); err != nil {
			logger.WithError(err).Warn("category totals cache write failed")
		}
	}
	return totals, nil
}

func (tc *TransactionsController) GetCategories(ctx context.Context, userID string) ([]string, error) {
	totals, err := tc.GetTotalsByCategory(ctx, userID)
	if err != nil {
		return nil, utils.InternalServerError("Error retrieving categories", err)
	}
	categories := make([]string, 0, len(totals))
	for _, t := range totals {
		categories = append(categories, t.Category)
	}
	return categories, nil
}

// RenameCategory relabels every item the caller owns in OldCategory,
// soft-deleted ones included.
func (tc *TransactionsController) RenameCategory(ctx context.Context, userID string, req *schemas.RenameCategoryRequest) (int64, error) {
	renamed, err := tc.Repo.RenameCategory(ctx, userID, req.OldCategory, req.NewCategory)
	if err != nil {
		return 0, utils.InternalServerError("Error renaming category", err)
	}
	if renamed > 0 {
		tc.invalidate(ctx, userID)
	}
	utils.LoggerFromContext(ctx).WithField("userId", userID).WithField("renamed", renamed).Debug("category renamed")
	return renamed, nil
}

// GetTotalsByPeriod sums active items per date, month or year, oldest first.
func (tc *TransactionsController) GetTotalsByPeriod(ctx context.Context, userID, period string) ([]models.PeriodTotal, error) {
	period = utils.NormalizePeriod(period)

	items, err := tc.Repo.FindByOwner(ctx, userID, models.Sort{Field: models.SortByDate, Order: models.Ascending})
	if err != nil {
		return nil, utils.InternalServerError("Error summarizing transactions", err)
	}

	totals := []models.PeriodTotal{}
	for _, item := range items {
		if item.IsDeleted {
			continue
		}
		key := utils.PeriodKey(item.Date, period)
		if n := len(totals); n > 0 && totals[n-1].Period == key {
			totals[n-1].Total += item.Amount
			continue
		}
		totals = append(totals, models.PeriodTotal{Period: key, Total: item.Amount})
	}
	return totals, nil
}
