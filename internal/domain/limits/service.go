package limits

import (
	"context"
	"errors"
	"time"

	"budget-bot-go/pkg/logger"
	"github.com/shopspring/decimal"
)

const defaultNotifyTimeout = 5 * time.Second

// UsageSource re-derives spending against a limit's window from the ledger.
type UsageSource interface {
	ExpenseTotal(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error)
}

// CategorySource exposes the owning user's declared category set.
type CategorySource interface {
	Categories(ctx context.Context, userID int64) ([]string, error)
}

type Service struct {
	repo          Repository
	usage         UsageSource
	categories    CategorySource
	notifier      Notifier
	notifyTimeout time.Duration
	log           logger.Logger
	now           func() time.Time
}

func NewService(repo Repository, usage UsageSource, categories CategorySource, notifier Notifier, notifyTimeout time.Duration, log logger.Logger) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &Service{
		repo:          repo,
		usage:         usage,
		categories:    categories,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		log:           log,
		now:           time.Now,
	}
}

// AddOrUpdate creates a limit, or overwrites the currently-active limit for
// the same user and category in place. Expired limits for the category are
// left alone, so at most one active limit per category exists.
func (s *Service) AddOrUpdate(ctx context.Context, userID int64, category string, start, end time.Time, ceiling decimal.Decimal) (*Limit, error) {
	if category == "" {
		return nil, ErrCategoryEmpty
	}
	if ceiling.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidCeiling
	}
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil, ErrInvalidPeriod
	}
	if err := s.checkCategory(ctx, userID, category); err != nil {
		return nil, err
	}

	limit := Limit{
		UserID:    userID,
		Category:  category,
		StartDate: start,
		EndDate:   end,
		Ceiling:   ceiling,
	}

	existing, err := s.repo.FindActiveByCategory(ctx, userID, category, s.now())
	if err != nil {
		if !errors.Is(err, ErrLimitNotFound) {
			return nil, err
		}
		if err := s.repo.Create(ctx, &limit); err != nil {
			return nil, err
		}
		return &limit, nil
	}

	if err := s.repo.UpdateWindow(ctx, existing.ID, userID, &limit); err != nil {
		return nil, err
	}
	limit.ID = existing.ID
	return &limit, nil
}

func (s *Service) ListActive(ctx context.Context, userID int64) ([]Limit, error) {
	return s.repo.ListActive(ctx, userID, s.now())
}

// Delete is idempotent and owner-scoped: a missing id, or an id belonging to
// another user, reports false without error.
func (s *Service) Delete(ctx context.Context, userID, limitID int64) (bool, error) {
	return s.repo.Delete(ctx, userID, limitID)
}

// CheckAfterExpense is the transaction-triggered check. The entry is already
// committed, so the aggregated usage includes it and pending is zero. Nothing
// here may fail the ledger write that triggered it: every error is logged and
// swallowed.
func (s *Service) CheckAfterExpense(ctx context.Context, userID int64, category string) {
	limit, err := s.repo.FindActiveByCategory(ctx, userID, category, s.now())
	if err != nil {
		if !errors.Is(err, ErrLimitNotFound) {
			s.log.InternalError("limits: triggered check lookup failed", err, "user_id", userID, "category", category)
		}
		return
	}

	usage, err := s.usage.ExpenseTotal(ctx, userID, category, limit.StartDate, limit.EndDate)
	if err != nil {
		s.log.InternalError("limits: triggered check usage failed", err, "user_id", userID, "category", category)
		return
	}

	eval, err := Evaluate(limit.Ceiling, usage, decimal.Zero)
	if err != nil {
		s.log.InternalError("limits: triggered check evaluation failed", err, "user_id", userID, "limit_id", limit.ID)
		return
	}

	switch eval.State {
	case StateApproaching:
		s.send(ctx, userID, AlertApproaching, alertFor(*limit, eval))
	case StateViolated:
		s.send(ctx, userID, AlertViolated, alertFor(*limit, eval))
	}
}

// Preview runs the same math as the triggered check but with the candidate
// amount as pending, before any entry exists. Returns nil when the category
// has no active limit.
func (s *Service) Preview(ctx context.Context, userID int64, category string, pending decimal.Decimal) (*Evaluation, error) {
	if category == "" {
		return nil, ErrCategoryEmpty
	}
	if pending.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	limit, err := s.repo.FindActiveByCategory(ctx, userID, category, s.now())
	if err != nil {
		if errors.Is(err, ErrLimitNotFound) {
			return nil, nil
		}
		return nil, err
	}

	usage, err := s.usage.ExpenseTotal(ctx, userID, category, limit.StartDate, limit.EndDate)
	if err != nil {
		return nil, err
	}

	eval, err := Evaluate(limit.Ceiling, usage, pending)
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// SendExpiryReminders notifies owners of limits whose window ends tomorrow
// relative to now. A pure calendar reminder, no threshold math. Returns the
// number of reminders delivered.
func (s *Service) SendExpiryReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := truncateToDay(now).AddDate(0, 0, 1)
	expiring, err := s.repo.FindExpiring(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, limit := range expiring {
		alert := Alert{
			Category:    limit.Category,
			Ceiling:     limit.Ceiling,
			PeriodStart: limit.StartDate,
			PeriodEnd:   limit.EndDate,
		}
		if s.send(ctx, limit.UserID, AlertExpiringReminder, alert) {
			sent++
		}
	}
	return sent, nil
}

// SweepViolations re-evaluates every active limit and notifies owners of the
// ones still violated. Failures are isolated per limit so one user's bad luck
// cannot abort the pass for others. Returns the number of alerts delivered.
func (s *Service) SweepViolations(ctx context.Context, now time.Time) (int, error) {
	active, err := s.repo.FindActiveAll(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, limit := range active {
		usage, err := s.usage.ExpenseTotal(ctx, limit.UserID, limit.Category, limit.StartDate, limit.EndDate)
		if err != nil {
			s.log.InternalError("limits: sweep usage failed", err, "user_id", limit.UserID, "limit_id", limit.ID)
			continue
		}

		eval, err := Evaluate(limit.Ceiling, usage, decimal.Zero)
		if err != nil {
			s.log.InternalError("limits: sweep evaluation failed", err, "user_id", limit.UserID, "limit_id", limit.ID)
			continue
		}
		if eval.State != StateViolated {
			continue
		}

		if s.send(ctx, limit.UserID, AlertViolatedDaily, alertFor(limit, eval)) {
			sent++
		}
	}
	return sent, nil
}

// send delivers one alert under its own timeout so an unreachable user cannot
// stall the caller. Reports whether delivery succeeded.
func (s *Service) send(ctx context.Context, userID int64, kind AlertKind, alert Alert) bool {
	sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(sendCtx, userID, kind, alert); err != nil {
		s.log.BusinessError("limits: notification delivery failed", err, "user_id", userID, "kind", string(kind))
		return false
	}
	return true
}

func (s *Service) checkCategory(ctx context.Context, userID int64, category string) error {
	declared, err := s.categories.Categories(ctx, userID)
	if err != nil {
		return err
	}
	for _, candidate := range declared {
		if candidate == category {
			return nil
		}
	}
	return ErrCategoryUnknown
}
