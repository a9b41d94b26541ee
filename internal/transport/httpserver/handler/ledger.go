package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	ledgerdomain "budget-bot-go/internal/domain/ledger"
	usersdomain "budget-bot-go/internal/domain/users"
	"github.com/go-chi/chi/v5"
)

type recordEntryRequest struct {
	Amount   string  `json:"amount"`
	Category string  `json:"category,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type entryResponse struct {
	ID         int64   `json:"id"`
	OccurredAt string  `json:"occurred_at"`
	Direction  string  `json:"direction"`
	Amount     string  `json:"amount"`
	Category   *string `json:"category,omitempty"`
	Note       *string `json:"note,omitempty"`
}

type entryListResponse struct {
	Items []entryResponse `json:"items"`
	Total int64           `json:"total"`
}

func (h *Handlers) RecordExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req recordEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	entry, err := h.Ledger.RecordExpense(r.Context(), userID, amount, req.Category, req.Note)
	if err != nil {
		h.writeLedgerError(w, err, "ledger.record_expense", userID)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(*entry))
}

func (h *Handlers) RecordIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req recordEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Category) != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "income entries carry no category")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}

	entry, err := h.Ledger.RecordIncome(r.Context(), userID, amount, req.Note)
	if err != nil {
		h.writeLedgerError(w, err, "ledger.record_income", userID)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(*entry))
}

func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	query := r.URL.Query()
	fromRaw := strings.TrimSpace(query.Get("from"))
	toRaw := strings.TrimSpace(query.Get("to"))

	var items []ledgerdomain.Entry
	if fromRaw != "" || toRaw != "" {
		from, err := parseDateRequired(fromRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
			return
		}
		to, err := parseDateRequired(toRaw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
			return
		}
		items, err = h.Ledger.ListByPeriod(r.Context(), userID, from, to)
		if err != nil {
			h.writeLedgerError(w, err, "ledger.list_by_period", userID)
			return
		}
	} else {
		limit, err := parseIntParam(query.Get("limit"), 10)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
		items, err = h.Ledger.ListRecent(r.Context(), userID, limit)
		if err != nil {
			h.writeLedgerError(w, err, "ledger.list_recent", userID)
			return
		}
	}

	writeJSON(w, http.StatusOK, entryListResponse{
		Items: toEntryResponses(items),
		Total: int64(len(items)),
	})
}

func (h *Handlers) ListEntriesByCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	query := r.URL.Query()
	page, err := parseIntParam(query.Get("page"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	perPage, err := parseIntParam(query.Get("per_page"), 5)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid per_page")
		return
	}

	result, err := h.Ledger.ListByCategory(r.Context(), userID, query.Get("category"), page, perPage)
	if err != nil {
		h.writeLedgerError(w, err, "ledger.list_by_category", userID)
		return
	}

	writeJSON(w, http.StatusOK, entryListResponse{
		Items: toEntryResponses(result.Items),
		Total: result.Total,
	})
}

func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}
	entryID, err := parseID(chi.URLParam(r, "entry_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid entry id")
		return
	}

	deleted, err := h.Ledger.DeleteEntry(r.Context(), userID, entryID)
	if err != nil {
		h.writeLedgerError(w, err, "ledger.delete_entry", userID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (h *Handlers) writeLedgerError(w http.ResponseWriter, err error, op string, userID int64) {
	switch {
	case errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, ledgerdomain.ErrCategoryRequired),
		errors.Is(err, ledgerdomain.ErrCategoryUnknown),
		errors.Is(err, ledgerdomain.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, usersdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	default:
		h.log.InternalError(op+" failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toEntryResponse(entry ledgerdomain.Entry) entryResponse {
	return entryResponse{
		ID:         entry.ID,
		OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		Direction:  entry.Direction,
		Amount:     entry.Amount.String(),
		Category:   entry.Category,
		Note:       entry.Note,
	}
}

func toEntryResponses(entries []ledgerdomain.Entry) []entryResponse {
	result := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, toEntryResponse(entry))
	}
	return result
}
