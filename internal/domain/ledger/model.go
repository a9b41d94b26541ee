package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DirectionIncome  = "income"
	DirectionExpense = "expense"
)

// Entry is one row of the append-only ledger. Entries are immutable once
// written; the only mutation is administrative deletion, which reverses the
// entry's effect on the owner's cached balance.
type Entry struct {
	ID         int64           `gorm:"primaryKey"`
	UserID     int64           `gorm:"index;not null"`
	OccurredAt time.Time       `gorm:"index;not null"`
	Direction  string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Category   *string         `gorm:"type:text"`
	Note       *string         `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (Entry) TableName() string {
	return "ledger_entries"
}

// signedAmount is the entry's contribution to the owner's balance.
func (e Entry) signedAmount() decimal.Decimal {
	if e.Direction == DirectionExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

type Page struct {
	Items []Entry
	Total int64
}
