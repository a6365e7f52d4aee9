package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"tracker/src/api/controllers"
	"tracker/src/utils"
)

// ExportTransactions streams the caller's items as XLSX (default) or CSV.
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	format := strings.ToUpper(r.URL.Query().Get("format"))
	if format == "CSV" {
		rows, err := h.Controller.GetExportRows(ctx, userID(r))
		if err != nil {
			h.HandleErrors(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := utils.WriteCSV(&buf, controllers.ExportHeader(), rows); err != nil {
			h.HandleErrors(w, r, utils.InternalServerError("Error exporting transactions", err))
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=transactions.csv")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
		_, _ = w.Write(buf.Bytes())
		return
	}

	xlsxFile, err := h.Controller.GenerateXLSX(ctx, userID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	defer xlsxFile.Close()

	var buf bytes.Buffer
	if err := xlsxFile.Write(&buf); err != nil {
		h.HandleErrors(w, r, utils.InternalServerError("Error exporting transactions", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=transactions.xlsx")
	_, _ = w.Write(buf.Bytes())
}
