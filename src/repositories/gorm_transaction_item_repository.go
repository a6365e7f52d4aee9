package repositories

import (
	"context"
	"errors"

	"tracker/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormTransactionItemRepo struct {
	db *gorm.DB
}

func NewGormTransactionItemRepository(db *gorm.DB) TransactionItemRepository {
	return &gormTransactionItemRepo{db: db}
}

func (r *gormTransactionItemRepo) FindByOwner(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error) {
	items := []models.TransactionItem{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Column()}, Desc: sort.Desc()}).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormTransactionItemRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.TransactionItem, error) {
	var item models.TransactionItem
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormTransactionItemRepo) Insert(ctx context.Context, item *models.TransactionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormTransactionItemRepo) UpdateByID(ctx context.Context, id string, fields models.TransactionFields) (*models.TransactionItem, error) {
	return r.update(ctx, fields, "id = ?", id)
}

func (r *gormTransactionItemRepo) UpdateByIDAndOwner(ctx context.Context, id, userID string, fields models.TransactionFields) (*models.TransactionItem, error) {
	return r.update(ctx, fields, "id = ? AND user_id = ?", id, userID)
}

func (r *gormTransactionItemRepo) update(ctx context.Context, fields models.TransactionFields, query string, args ...interface{}) (*models.TransactionItem, error) {
	var item models.TransactionItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(query, args...).Take(&item).Error; err != nil {
			return err
		}
		fields.Apply(&item)
		// Explicit Select so zero values are written as well.
		return tx.Model(&item).
			Select("description", "amount", "category", "date").
			Updates(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormTransactionItemRepo) SoftDelete(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TransactionItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_deleted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormTransactionItemRepo) DeleteByIDAndOwner(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.TransactionItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormTransactionItemRepo) AggregateByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	totals := []models.CategoryTotal{}
	err := r.db.WithContext(ctx).
		Model(&models.TransactionItem{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Group("category").
		Order("category ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *gormTransactionItemRepo) RenameCategory(ctx context.Context, userID, oldCategory, newCategory string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TransactionItem{}).
		Where("user_id = ? AND category = ?", userID, oldCategory).
		Update("category", newCategory)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
