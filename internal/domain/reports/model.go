package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	From             time.Time
	To               time.Time
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	EntryCount       int64
	AvgExpensePerDay decimal.Decimal
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int64
}

// Totals is the raw aggregation a repository returns for one period.
type Totals struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	EntryCount int64
}
