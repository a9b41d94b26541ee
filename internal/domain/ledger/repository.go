package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateEntry(ctx context.Context, entry *Entry) error
	GetEntryByID(ctx context.Context, userID, entryID int64) (*Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID int64) (bool, error)
	// AdjustBalance moves the owner's cached balance by delta. Callers must
	// pair it with the entry write inside one Transaction.
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error
	ListRecent(ctx context.Context, userID int64, limit int) ([]Entry, error)
	ListByPeriod(ctx context.Context, userID int64, from, to time.Time) ([]Entry, error)
	ListByCategory(ctx context.Context, userID int64, category string, limit, offset int) ([]Entry, int64, error)
	// ExpenseTotal sums expense amounts for the category whose entry date,
	// truncated to a calendar day, falls within [from, to].
	ExpenseTotal(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error)
}
