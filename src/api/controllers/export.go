package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tracker/src/models"
	"tracker/src/utils"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Transactions"

var exportHeader = []string{"id", "date", "description", "category", "amount", "deleted"}

// ExportHeader is the first row of every export.
func ExportHeader() []string {
	return append([]string(nil), exportHeader...)
}

// spreadsheetText quotes free text that a spreadsheet would read as a formula.
func spreadsheetText(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func (tc *TransactionsController) exportItems(ctx context.Context, userID string) ([]models.TransactionItem, error) {
	items, err := tc.Repo.FindByOwner(ctx, userID, models.Sort{Field: models.SortByDate, Order: models.Ascending})
	if err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}
	return items, nil
}

// GetExportRows returns every owned item, oldest first, formatted for CSV.
func (tc *TransactionsController) GetExportRows(ctx context.Context, userID string) ([][]string, error) {
	items, err := tc.exportItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Date.Format(utils.ShortDashDateLayout),
			spreadsheetText(item.Description),
			spreadsheetText(item.Category),
			strconv.FormatFloat(item.Amount, 'f', -1, 64),
			strconv.FormatBool(item.IsDeleted),
		})
	}
	return rows, nil
}

// GenerateXLSX builds a single-sheet workbook with one row per owned item.
func (tc *TransactionsController) GenerateXLSX(ctx context.Context, userID string) (*excelize.File, error) {
	items, err := tc.exportItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#80b3ff"}, Pattern: 1},
	})
	if err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}
	if err := f.SetCellStyle(exportSheetName, "A1", "F1", headerStyle); err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, utils.InternalServerError("Error exporting transactions", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, utils.InternalServerError("Error exporting transactions", err)
		}
		row := []interface{}{item.ID, item.Date, item.Description, item.Category, item.Amount, item.IsDeleted}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, utils.InternalServerError("Error exporting transactions", err)
		}
		dateCell := fmt.Sprintf("B%d", i+2)
		if err := f.SetCellStyle(exportSheetName, dateCell, dateCell, dateStyle); err != nil {
			return nil, utils.InternalServerError("Error exporting transactions", err)
		}
	}
	return f, nil
}
