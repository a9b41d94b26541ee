package handler

import (
	"errors"
	"net/http"

	usersdomain "budget-bot-go/internal/domain/users"
)

type registerRequest struct {
	UserID   int64   `json:"user_id"`
	Username *string `json:"username"`
}

type completeProfileRequest struct {
	Name           string `json:"name"`
	OpeningBalance string `json:"opening_balance"`
}

type profileResponse struct {
	UserID     int64    `json:"user_id"`
	Username   *string  `json:"username,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Categories []string `json:"categories"`
	Balance    string   `json:"balance"`
	Registered bool     `json:"registered"`
}

type categoriesRequest struct {
	Category string `json:"category"`
}

type replaceCategoriesRequest struct {
	Categories []string `json:"categories"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id must be positive")
		return
	}

	if err := h.Users.Register(r.Context(), req.UserID, req.Username); err != nil {
		h.log.InternalError("users.register failed", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"user_id": req.UserID})
}

func (h *Handlers) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req completeProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	balance, err := parseAmount(req.OpeningBalance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid opening balance")
		return
	}

	user, err := h.Users.CompleteProfile(r.Context(), userID, req.Name, balance)
	if err != nil {
		switch {
		case errors.Is(err, usersdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, usersdomain.ErrNameRequired), errors.Is(err, usersdomain.ErrNegativeBalance):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("users.complete_profile failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(userID, user.Username, user.Name, user.Categories, user.Balance.String(), user.Registered()))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	profile, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usersdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("users.get failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	registered := profile.Name != nil && *profile.Name != ""
	writeJSON(w, http.StatusOK, toProfileResponse(profile.ID, profile.Username, profile.Name, profile.Categories, profile.Balance.String(), registered))
}

func (h *Handlers) ResetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	if err := h.Users.Reset(r.Context(), userID); err != nil {
		if errors.Is(err, usersdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("users.reset failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	categories, err := h.Users.Categories(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usersdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.log.InternalError("users.categories failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (h *Handlers) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req categoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Users.AddCategory(r.Context(), userID, req.Category); err != nil {
		switch {
		case errors.Is(err, usersdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, usersdomain.ErrCategoryExists):
			writeError(w, http.StatusConflict, "category_exists", "category already exists")
		case errors.Is(err, usersdomain.ErrCategoryEmpty), errors.Is(err, usersdomain.ErrTooManyCategories):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("users.add_category failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"category": req.Category})
}

func (h *Handlers) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	var req replaceCategoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	categories, err := h.Users.ReplaceCategories(r.Context(), userID, req.Categories)
	if err != nil {
		switch {
		case errors.Is(err, usersdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		case errors.Is(err, usersdomain.ErrCategoryEmpty), errors.Is(err, usersdomain.ErrTooManyCategories):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("users.replace_categories failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func toProfileResponse(id int64, username, name *string, categories []string, balance string, registered bool) profileResponse {
	if categories == nil {
		categories = []string{}
	}
	return profileResponse{
		UserID:     id,
		Username:   username,
		Name:       name,
		Categories: categories,
		Balance:    balance,
		Registered: registered,
	}
}
