package limits

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AlertKind string

const (
	AlertApproaching      AlertKind = "approaching"
	AlertViolated         AlertKind = "violated"
	AlertExpiringReminder AlertKind = "expiring_reminder"
	AlertViolatedDaily    AlertKind = "violated_daily"
)

// Alert carries the numeric quantities of one evaluation. Rendering
// human-readable text is the notifier implementation's concern.
type Alert struct {
	Category     string
	Ceiling      decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	Overage      decimal.Decimal
	UsagePercent float64
	PeriodStart  time.Time
	PeriodEnd    time.Time
}

// Notifier delivers one alert to one user. Fire-and-forget: the engine logs
// and swallows delivery failures, the next daily sweep is the retry.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind AlertKind, alert Alert) error
}

func alertFor(limit Limit, eval Evaluation) Alert {
	return Alert{
		Category:     limit.Category,
		Ceiling:      eval.Ceiling,
		Spent:        eval.Spent,
		Remaining:    eval.Remaining,
		Overage:      eval.Overage,
		UsagePercent: eval.UsagePercent,
		PeriodStart:  limit.StartDate,
		PeriodEnd:    limit.EndDate,
	}
}
