package handler

import (
	"errors"
	"net/http"

	reportsdomain "budget-bot-go/internal/domain/reports"
)

type summaryResponse struct {
	From             string `json:"from"`
	To               string `json:"to"`
	Income           string `json:"income"`
	Expense          string `json:"expense"`
	Net              string `json:"net"`
	EntryCount       int64  `json:"entry_count"`
	AvgExpensePerDay string `json:"avg_expense_per_day"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

func (h *Handlers) ReportSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	summary, err := h.Reports.Summary(r.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, reportsdomain.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("reports.summary failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		From:             summary.From.Format(dateOnly),
		To:               summary.To.Format(dateOnly),
		Income:           summary.Income.String(),
		Expense:          summary.Expense.String(),
		Net:              summary.Net.String(),
		EntryCount:       summary.EntryCount,
		AvgExpensePerDay: summary.AvgExpensePerDay.String(),
	})
}

func (h *Handlers) ReportByCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	rows, err := h.Reports.ByCategory(r.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, reportsdomain.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("reports.by_category failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]categoryTotalResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, categoryTotalResponse{
			Category: row.Category,
			Total:    row.Total.String(),
			Count:    row.Count,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]categoryTotalResponse{"items": response})
}
