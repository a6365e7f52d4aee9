package schemas

import (
	"bytes"
	"encoding/json"

	"tracker/src/models"
)

// FormValue holds a field exactly as submitted. JSON numbers and strings both
// decode into it so form posts and JSON bodies share the same parsing.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

type CreateTransactionRequest struct {
	Description string    `json:"description"`
	Amount      FormValue `json:"amount"`
	Category    string    `json:"category"`
	Date        FormValue `json:"date"`
}

type UpdateTransactionRequest struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      FormValue `json:"amount"`
	Category    string    `json:"category"`
	Date        FormValue `json:"date"`
}

type RenameCategoryRequest struct {
	OldCategory string `json:"oldCategory"`
	NewCategory string `json:"newCategory"`
}

type TransactionListResponse struct {
	SortBy    models.SortField         `json:"sortBy"`
	SortOrder models.SortOrder         `json:"sortOrder"`
	Items     []models.TransactionItem `json:"items"`
}

type TransactionEditResponse struct {
	Item *models.TransactionItem `json:"item"`
}

type CategoryTotalsResponse struct {
	TransactionsByCategory []models.CategoryTotal `json:"transactionsByCategory"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type PeriodSummaryResponse struct {
	Period string               `json:"period"`
	Totals []models.PeriodTotal `json:"totals"`
}
