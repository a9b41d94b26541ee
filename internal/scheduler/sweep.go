package scheduler

import (
	"context"
	"time"

	"budget-bot-go/internal/config"
	"budget-bot-go/pkg/logger"
)

// LimitSweeper is the slice of the limits service the daily pass needs.
type LimitSweeper interface {
	SendExpiryReminders(ctx context.Context, now time.Time) (int, error)
	SweepViolations(ctx context.Context, now time.Time) (int, error)
}

// Sweep is the recurring background pass over all limits. It alternates
// between waiting for the next daily wall-clock window and running one pass;
// the wait is a single re-armed timer, not a poll loop.
type Sweep struct {
	limits LimitSweeper
	log    logger.Logger
	hour   int
	minute int
	loc    *time.Location
	now    func() time.Time
}

func New(limits LimitSweeper, cfg config.SweepConfig, log logger.Logger) *Sweep {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("sweep: unknown timezone, falling back to UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}

	return &Sweep{
		limits: limits,
		log:    log,
		hour:   cfg.Hour,
		minute: cfg.Minute,
		loc:    loc,
		now:    time.Now,
	}
}

// Run blocks until ctx is cancelled. On restart no recovery state is needed:
// the next window is simply recomputed, and a missed day is an accepted loss
// covered by the transaction-triggered checks.
func (s *Sweep) Run(ctx context.Context) {
	s.log.Info("sweep: started", "hour", s.hour, "minute", s.minute, "timezone", s.loc.String())

	for {
		next := nextWindow(s.now(), s.hour, s.minute, s.loc)
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("sweep: stopped")
			return
		case <-timer.C:
			s.runPass(ctx)
		}
	}
}

// runPass executes both sweep steps. Step failures are logged, never fatal:
// the loop always returns to waiting.
func (s *Sweep) runPass(ctx context.Context) {
	now := s.now().In(s.loc)
	s.log.Info("sweep: pass starting")

	reminders, err := s.limits.SendExpiryReminders(ctx, now)
	if err != nil {
		s.log.InternalError("sweep: expiry reminders failed", err)
	}

	violations, err := s.limits.SweepViolations(ctx, now)
	if err != nil {
		s.log.InternalError("sweep: violation sweep failed", err)
	}

	s.log.Info("sweep: pass finished", "reminders_sent", reminders, "violations_sent", violations)
}

// nextWindow returns the next occurrence of hour:minute in loc strictly after
// now; if today's instant has already passed, it targets tomorrow's.
func nextWindow(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !target.After(local) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
