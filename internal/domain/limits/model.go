package limits

import (
	"time"

	"github.com/shopspring/decimal"
)

// Limit caps expense spending for one category over a fixed, inclusive date
// range. A user has at most one currently-active limit per category: creating
// another overwrites the active row in place.
type Limit struct {
	ID        int64           `gorm:"primaryKey"`
	UserID    int64           `gorm:"index;not null"`
	Category  string          `gorm:"not null"`
	StartDate time.Time       `gorm:"type:date;not null"`
	EndDate   time.Time       `gorm:"type:date;not null"`
	Ceiling   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

// ActiveAt reports whether on falls within [StartDate, EndDate], comparing
// calendar dates only.
func (l Limit) ActiveAt(on time.Time) bool {
	day := truncateToDay(on)
	return !day.Before(truncateToDay(l.StartDate)) && !day.After(truncateToDay(l.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
