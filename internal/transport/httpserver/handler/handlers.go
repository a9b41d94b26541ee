package handler

import (
	"net/http"

	ledgerdomain "budget-bot-go/internal/domain/ledger"
	limitsdomain "budget-bot-go/internal/domain/limits"
	reportsdomain "budget-bot-go/internal/domain/reports"
	usersdomain "budget-bot-go/internal/domain/users"
	"budget-bot-go/pkg/logger"
)

type Handlers struct {
	Users   *usersdomain.Service
	Ledger  *ledgerdomain.Service
	Limits  *limitsdomain.Service
	Reports *reportsdomain.Service
	log     logger.Logger
}

func New(users *usersdomain.Service, ledger *ledgerdomain.Service, limits *limitsdomain.Service, reports *reportsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:   users,
		Ledger:  ledger,
		Limits:  limits,
		Reports: reports,
		log:     log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
