package reports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPeriod = errors.New("period end precedes start")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Summary(ctx context.Context, userID int64, from, to time.Time) (Summary, error) {
	if to.Before(from) {
		return Summary{}, ErrInvalidPeriod
	}

	totals, err := s.repo.Totals(ctx, userID, from, to)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		From:       from,
		To:         to,
		Income:     totals.Income,
		Expense:    totals.Expense,
		Net:        totals.Income.Sub(totals.Expense),
		EntryCount: totals.EntryCount,
	}

	if days := daysBetweenInclusive(from, to); days > 0 {
		summary.AvgExpensePerDay = totals.Expense.Div(decimal.New(int64(days), 0)).Round(2)
	}
	return summary, nil
}

func (s *Service) ByCategory(ctx context.Context, userID int64, from, to time.Time) ([]CategoryTotal, error) {
	if to.Before(from) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ExpenseByCategory(ctx, userID, from, to)
}

func daysBetweenInclusive(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
