package notifier

import (
	"context"

	limitsdomain "budget-bot-go/internal/domain/limits"
	"budget-bot-go/pkg/logger"
)

// Log backs local runs without a bot token: alerts go to the log instead of a
// chat.
type Log struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, userID int64, kind limitsdomain.AlertKind, alert limitsdomain.Alert) error {
	l.log.Info("notifier: alert",
		"user_id", userID,
		"kind", string(kind),
		"category", alert.Category,
		"ceiling", alert.Ceiling.String(),
		"spent", alert.Spent.String(),
		"usage_percent", alert.UsagePercent,
	)
	return nil
}
