package models

import (
	"time"
)

// TransactionItem is a single monetary record owned by one user.
type TransactionItem struct {
	ID          string    `json:"id" db:"id" bson:"_id" gorm:"primaryKey;column:id"`
	Description string    `json:"description" db:"description" bson:"description" gorm:"column:description"`
	Amount      float64   `json:"amount" db:"amount" bson:"amount" gorm:"column:amount"`
	Category    string    `json:"category" db:"category" bson:"category" gorm:"column:category;index"`
	Date        time.Time `json:"date" db:"date" bson:"date" gorm:"column:date"`
	IsDeleted   bool      `json:"isDeleted" db:"is_deleted" bson:"isDeleted" gorm:"column:is_deleted"`
	UserID      string    `json:"userId" db:"user_id" bson:"userId" gorm:"column:user_id;index"`
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}

// TransactionFields is the full replacement set written by an update.
type TransactionFields struct {
	Description string
	Amount      float64
	Category    string
	Date        time.Time
}

// Apply overwrites every mutable field of the item.
func (f TransactionFields) Apply(item *TransactionItem) {
	item.Description = f.Description
	item.Amount = f.Amount
	item.Category = f.Category
	item.Date = f.Date
}

type CategoryTotal struct {
	Category string  `json:"category" bson:"_id" gorm:"column:category"`
	Total    float64 `json:"total" bson:"total" gorm:"column:total"`
}

type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}
