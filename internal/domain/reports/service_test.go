package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeReportsRepo struct {
	totals     Totals
	byCategory []CategoryTotal
}

func (r *fakeReportsRepo) Totals(ctx context.Context, userID int64, from, to time.Time) (Totals, error) {
	return r.totals, nil
}

func (r *fakeReportsRepo) ExpenseByCategory(ctx context.Context, userID int64, from, to time.Time) ([]CategoryTotal, error) {
	return r.byCategory, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummary(t *testing.T) {
	repo := &fakeReportsRepo{totals: Totals{
		Income:     dec("3000"),
		Expense:    dec("1550.50"),
		EntryCount: 12,
	}}
	svc := NewService(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(context.Background(), 1, from, to)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !summary.Net.Equal(dec("1449.50")) {
		t.Fatalf("expected net 1449.50, got %s", summary.Net)
	}
	if summary.EntryCount != 12 {
		t.Fatalf("expected 12 entries, got %d", summary.EntryCount)
	}
	// 1550.50 over 31 inclusive days.
	if !summary.AvgExpensePerDay.Equal(dec("50.02")) {
		t.Fatalf("expected avg 50.02, got %s", summary.AvgExpensePerDay)
	}
}

func TestSummarySingleDay(t *testing.T) {
	repo := &fakeReportsRepo{totals: Totals{Expense: dec("120")}}
	svc := NewService(repo)

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(context.Background(), 1, day, day)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !summary.AvgExpensePerDay.Equal(dec("120")) {
		t.Fatalf("expected avg 120 for a one-day period, got %s", summary.AvgExpensePerDay)
	}
}

func TestSummaryInvalidPeriod(t *testing.T) {
	svc := NewService(&fakeReportsRepo{})

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Summary(context.Background(), 1, from, to); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := svc.ByCategory(context.Background(), 1, from, to); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestByCategory(t *testing.T) {
	repo := &fakeReportsRepo{byCategory: []CategoryTotal{
		{Category: "groceries", Total: dec("900"), Count: 9},
		{Category: "transport", Total: dec("120"), Count: 4},
	}}
	svc := NewService(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	got, err := svc.ByCategory(context.Background(), 1, from, to)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0].Category != "groceries" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDaysBetweenInclusive(t *testing.T) {
	from := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 3, 1, 0, 0, 0, time.UTC)
	if days := daysBetweenInclusive(from, to); days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}
	if days := daysBetweenInclusive(to, from); days != 0 {
		t.Fatalf("expected 0 for inverted period, got %d", days)
	}
}
