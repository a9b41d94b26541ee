package users

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// User is created on first contact with the chat transport. A reset clears
// the profile fields but keeps the row so ledger and limit foreign keys stay
// valid.
type User struct {
	ID         int64           `gorm:"primaryKey"`
	Username   *string         `gorm:"type:text"`
	Name       *string         `gorm:"type:text"`
	Categories pq.StringArray  `gorm:"type:text[];not null;default:'{}'"`
	Balance    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// Registered reports whether the user finished the registration flow: the
// identity row alone is not enough, a display name must be set.
func (u User) Registered() bool {
	return u.Name != nil && *u.Name != ""
}

type Profile struct {
	ID         int64
	Username   *string
	Name       *string
	Categories []string
	Balance    decimal.Decimal
}
