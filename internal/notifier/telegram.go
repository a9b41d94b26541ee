package notifier

import (
	"context"
	"fmt"

	limitsdomain "budget-bot-go/internal/domain/limits"
	tgbotapi "gopkg.in/telegram-bot-api.v4"
)

const dateOnly = "2006-01-02"

// Telegram delivers alerts as chat messages. All human-readable rendering
// lives here; the engine only hands over numbers.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Notify(ctx context.Context, userID int64, kind limitsdomain.AlertKind, alert limitsdomain.Alert) error {
	// The bot API client has no context support; honor cancellation and the
	// caller's send timeout before the blocking call.
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, renderAlert(kind, alert))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func renderAlert(kind limitsdomain.AlertKind, alert limitsdomain.Alert) string {
	switch kind {
	case limitsdomain.AlertApproaching:
		return fmt.Sprintf(
			"Heads up: you are close to your %q limit.\nSpent %s of %s (%.1f%%), %s remaining until %s.",
			alert.Category, alert.Spent.StringFixed(2), alert.Ceiling.StringFixed(2),
			alert.UsagePercent, alert.Remaining.StringFixed(2), alert.PeriodEnd.Format(dateOnly))
	case limitsdomain.AlertViolated, limitsdomain.AlertViolatedDaily:
		return fmt.Sprintf(
			"Spending limit exceeded for %q.\nLimit: %s\nSpent: %s\nOver by: %s",
			alert.Category, alert.Ceiling.StringFixed(2),
			alert.Spent.StringFixed(2), alert.Overage.StringFixed(2))
	case limitsdomain.AlertExpiringReminder:
		return fmt.Sprintf(
			"Reminder: your %q limit of %s expires tomorrow (%s).",
			alert.Category, alert.Ceiling.StringFixed(2), alert.PeriodEnd.Format(dateOnly))
	default:
		return fmt.Sprintf("Limit update for %q: spent %s of %s.",
			alert.Category, alert.Spent.StringFixed(2), alert.Ceiling.StringFixed(2))
	}
}
