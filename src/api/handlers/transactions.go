package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"tracker/src/models"
	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/go-chi/chi/v5"
)

const transactionsPath = "/transactions"

func isJSON(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/json"
}

// decodeCreate accepts either a JSON body or an urlencoded/multipart form.
func decodeCreate(r *http.Request) (*schemas.CreateTransactionRequest, error) {
	req := new(schemas.CreateTransactionRequest)
	if isJSON(r) {
		return req, json.NewDecoder(r.Body).Decode(req)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req.Description = r.PostFormValue("description")
	req.Amount = schemas.FormValue(r.PostFormValue("amount"))
	req.Category = r.PostFormValue("category")
	req.Date = schemas.FormValue(r.PostFormValue("date"))
	return req, nil
}

func decodeUpdate(r *http.Request) (*schemas.UpdateTransactionRequest, error) {
	req := new(schemas.UpdateTransactionRequest)
	if isJSON(r) {
		return req, json.NewDecoder(r.Body).Decode(req)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req.ID = r.PostFormValue("id")
	req.Description = r.PostFormValue("description")
	req.Amount = schemas.FormValue(r.PostFormValue("amount"))
	req.Category = r.PostFormValue("category")
	req.Date = schemas.FormValue(r.PostFormValue("date"))
	return req, nil
}

func decodeRename(r *http.Request) (*schemas.RenameCategoryRequest, error) {
	req := new(schemas.RenameCategoryRequest)
	if isJSON(r) {
		return req, json.NewDecoder(r.Body).Decode(req)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req.OldCategory = r.PostFormValue("oldCategory")
	req.NewCategory = r.PostFormValue("newCategory")
	return req, nil
}

// GetTransactions lists the caller's items sorted by sortBy/sortOrder.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	sort := models.ParseSort(r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder"))
	items, err := h.Controller.ListTransactions(ctx, userID(r), sort)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, schemas.TransactionListResponse{
		SortBy:    sort.Field,
		SortOrder: sort.Order,
		Items:     items,
	}, http.StatusOK)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	req, err := decodeCreate(r)
	if err != nil {
		h.HandleErrors(w, r, utils.InternalServerError("Error creating transaction", err))
		return
	}

	if _, err := h.Controller.CreateTransaction(ctx, userID(r), req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.redirect(w, r, transactionsPath)
}

// RemoveTransaction physically deletes the item.
func (h *Handler) RemoveTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Controller.RemoveTransaction(ctx, userID(r), chi.URLParam(r, "transactionId")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.redirect(w, r, transactionsPath)
}

// CompleteTransaction soft deletes the item.
func (h *Handler) CompleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Controller.CompleteTransaction(ctx, userID(r), chi.URLParam(r, "itemId")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.redirect(w, r, transactionsPath)
}

func (h *Handler) GetTransactionForEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	item, err := h.Controller.GetTransactionForEdit(ctx, userID(r), chi.URLParam(r, "itemId"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, schemas.TransactionEditResponse{Item: item}, http.StatusOK)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	req, err := decodeUpdate(r)
	if err != nil {
		h.HandleErrors(w, r, utils.InternalServerError("Error updating transaction", err))
		return
	}

	if _, err := h.Controller.UpdateTransaction(ctx, userID(r), req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.redirect(w, r, transactionsPath)
}

func (h *Handler) GetTransactionsByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	totals, err := h.Controller.GetTotalsByCategory(ctx, userID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, schemas.CategoryTotalsResponse{TransactionsByCategory: totals}, http.StatusOK)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	categories, err := h.Controller.GetCategories(ctx, userID(r))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, schemas.CategoriesResponse{Categories: categories}, http.StatusOK)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	period := utils.NormalizePeriod(r.URL.Query().Get("period"))
	totals, err := h.Controller.GetTotalsByPeriod(ctx, userID(r), period)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.respond(w, r, schemas.PeriodSummaryResponse{Period: period, Totals: totals}, http.StatusOK)
}

// RenameCategory moves the caller's items from oldCategory to newCategory.
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	req, err := decodeRename(r)
	if err != nil {
		h.HandleErrors(w, r, utils.InternalServerError("Error renaming category", err))
		return
	}

	if _, err := h.Controller.RenameCategory(ctx, userID(r), req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	h.redirect(w, r, transactionsPath)
}
