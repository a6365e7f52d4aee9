package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tracker/src/api/controllers"
	"tracker/src/api/middleware"
	"tracker/src/utils"
)

const defaultRequestTimeout = 10 * time.Second

type Handler struct {
	Controller controllers.TransactionsControllerI
	Timeout    time.Duration
}

func NewHandler(controller controllers.TransactionsControllerI, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{Controller: controller, Timeout: timeout}
}

// requestContext bounds the storage call made on behalf of r.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.Timeout)
}

// userID reads the identity the gate already checked.
func userID(r *http.Request) string {
	user, _ := middleware.IdentityFromContext(r.Context())
	if user == nil {
		return ""
	}
	return user.ID
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error) {
	logger := utils.LoggerFromContext(r.Context()).WithError(err)

	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("request timed out")
		utils.WriteError(w, utils.GatewayTimeout("Request timed out"))
		return
	}

	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		logger.Info(httpErr.Message)
	} else {
		logger.Error("request failed")
	}
	utils.WriteError(w, err)
}
