package repositories

import (
	"context"
	"errors"
	"fmt"

	"tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionItemColumns = `id, description, amount, category, date, is_deleted, user_id`

type pgxTransactionItemRepo struct {
	db *pgxpool.Pool
}

func NewPgxTransactionItemRepository(db *pgxpool.Pool) TransactionItemRepository {
	return &pgxTransactionItemRepo{db: db}
}

func scanTransactionItem(row pgx.Row) (*models.TransactionItem, error) {
	var t models.TransactionItem
	if err := row.Scan(&t.ID, &t.Description, &t.Amount, &t.Category, &t.Date, &t.IsDeleted, &t.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *pgxTransactionItemRepo) FindByOwner(ctx context.Context, userID string, sort models.Sort) ([]models.TransactionItem, error) {
	direction := "ASC"
	if sort.Desc() {
		direction = "DESC"
	}
	// Column is one of a fixed set of names.
	query := fmt.Sprintf(`SELECT %s FROM transaction_items WHERE user_id = $1 ORDER BY %s %s`,
		transactionItemColumns, sort.Column(), direction)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		t, err := scanTransactionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r *pgxTransactionItemRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (*models.TransactionItem, error) {
	return scanTransactionItem(r.db.QueryRow(ctx,
		`SELECT `+transactionItemColumns+` FROM transaction_items WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

func (r *pgxTransactionItemRepo) Insert(ctx context.Context, t *models.TransactionItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transaction_items (`+transactionItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Description, t.Amount, t.Category, t.Date, t.IsDeleted, t.UserID,
	)
	return err
}

func (r *pgxTransactionItemRepo) UpdateByID(ctx context.Context, id string, f models.TransactionFields) (*models.TransactionItem, error) {
	return scanTransactionItem(r.db.QueryRow(ctx, `
		UPDATE transaction_items
		SET description = $1, amount = $2, category = $3, date = $4
		WHERE id = $5
		RETURNING `+transactionItemColumns,
		f.Description, f.Amount, f.Category, f.Date, id,
	))
}

func (r *pgxTransactionItemRepo) UpdateByIDAndOwner(ctx context.Context, id, userID string, f models.TransactionFields) (*models.TransactionItem, error) {
	return scanTransactionItem(r.db.QueryRow(ctx, `
		UPDATE transaction_items
		SET description = $1, amount = $2, category = $3, date = $4
		WHERE id = $5 AND user_id = $6
		RETURNING `+transactionItemColumns,
		f.Description, f.Amount, f.Category, f.Date, id, userID,
	))
}

func (r *pgxTransactionItemRepo) SoftDelete(ctx context.Context, id, userID string) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE transaction_items SET is_deleted = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxTransactionItemRepo) DeleteByIDAndOwner(ctx context.Context, id, userID string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM transaction_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxTransactionItemRepo) AggregateByCategory(ctx context.Context, userID string) ([]models.CategoryTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM transaction_items
		WHERE user_id = $1 AND is_deleted = FALSE
		GROUP BY category
		ORDER BY category ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *pgxTransactionItemRepo) RenameCategory(ctx context.Context, userID, oldCategory, newCategory string) (int64, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE transaction_items SET category = $1 WHERE user_id = $2 AND category = $3`,
		newCategory, userID, oldCategory,
	)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
