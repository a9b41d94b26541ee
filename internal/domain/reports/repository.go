package reports

import (
	"context"
	"time"
)

type Repository interface {
	Totals(ctx context.Context, userID int64, from, to time.Time) (Totals, error)
	ExpenseByCategory(ctx context.Context, userID int64, from, to time.Time) ([]CategoryTotal, error)
}
