package handler

import (
	"errors"
	"net/http"

	limitsdomain "budget-bot-go/internal/domain/limits"
	usersdomain "budget-bot-go/internal/domain/users"
	"github.com/go-chi/chi/v5"
)

type createLimitRequest struct {
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Ceiling   string `json:"ceiling"`
}

type previewRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type limitResponse struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Ceiling   string `json:"ceiling"`
}

type evaluationResponse struct {
	State        string  `json:"state"`
	Ceiling      string  `json:"ceiling"`
	Spent        string  `json:"spent"`
	Remaining    string  `json:"remaining,omitempty"`
	Overage      string  `json:"overage,omitempty"`
	UsagePercent float64 `json:"usage_percent"`
}

func (h *Handlers) CreateOrReplaceLimit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req createLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	start, err := parseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start date")
		return
	}
	end, err := parseDateRequired(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end date")
		return
	}
	ceiling, err := parseAmount(req.Ceiling)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid ceiling")
		return
	}

	limit, err := h.Limits.AddOrUpdate(r.Context(), userID, req.Category, start, end, ceiling)
	if err != nil {
		h.writeLimitsError(w, err, "limits.add_or_update", userID)
		return
	}
	writeJSON(w, http.StatusCreated, toLimitResponse(*limit))
}

func (h *Handlers) ListLimits(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	items, err := h.Limits.ListActive(r.Context(), userID)
	if err != nil {
		h.writeLimitsError(w, err, "limits.list_active", userID)
		return
	}

	response := make([]limitResponse, 0, len(items))
	for _, limit := range items {
		response = append(response, toLimitResponse(limit))
	}
	writeJSON(w, http.StatusOK, map[string][]limitResponse{"items": response})
}

func (h *Handlers) DeleteLimit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}
	limitID, err := parseID(chi.URLParam(r, "limit_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit id")
		return
	}

	deleted, err := h.Limits.Delete(r.Context(), userID, limitID)
	if err != nil {
		h.writeLimitsError(w, err, "limits.delete", userID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// PreviewViolation lets the conversational layer warn before committing an
// expense. A 204 means no active limit for the category.
func (h *Handlers) PreviewViolation(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	eval, err := h.Limits.Preview(r.Context(), userID, req.Category, amount)
	if err != nil {
		h.writeLimitsError(w, err, "limits.preview", userID)
		return
	}
	if eval == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationResponse(*eval))
}

func (h *Handlers) writeLimitsError(w http.ResponseWriter, err error, op string, userID int64) {
	switch {
	case errors.Is(err, limitsdomain.ErrInvalidCeiling),
		errors.Is(err, limitsdomain.ErrInvalidPeriod),
		errors.Is(err, limitsdomain.ErrCategoryEmpty),
		errors.Is(err, limitsdomain.ErrCategoryUnknown),
		errors.Is(err, limitsdomain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, usersdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	default:
		h.log.InternalError(op+" failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toLimitResponse(limit limitsdomain.Limit) limitResponse {
	return limitResponse{
		ID:        limit.ID,
		Category:  limit.Category,
		StartDate: limit.StartDate.Format(dateOnly),
		EndDate:   limit.EndDate.Format(dateOnly),
		Ceiling:   limit.Ceiling.String(),
	}
}

func toEvaluationResponse(eval limitsdomain.Evaluation) evaluationResponse {
	response := evaluationResponse{
		State:        eval.State.String(),
		Ceiling:      eval.Ceiling.String(),
		Spent:        eval.Spent.String(),
		UsagePercent: eval.UsagePercent,
	}
	switch eval.State {
	case limitsdomain.StateApproaching:
		response.Remaining = eval.Remaining.String()
	case limitsdomain.StateViolated:
		response.Overage = eval.Overage.String()
	}
	return response
}
