package limits

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, limit *Limit) error
	// UpdateWindow overwrites the dates and ceiling of an existing row in
	// place; the limit keeps its id.
	UpdateWindow(ctx context.Context, limitID, userID int64, limit *Limit) error
	// FindActiveByCategory returns the limit whose window contains on for the
	// user and category, or ErrLimitNotFound.
	FindActiveByCategory(ctx context.Context, userID int64, category string, on time.Time) (*Limit, error)
	ListActive(ctx context.Context, userID int64, on time.Time) ([]Limit, error)
	Delete(ctx context.Context, userID, limitID int64) (bool, error)
	// FindExpiring returns limits whose end date equals endingOn, across all
	// users.
	FindExpiring(ctx context.Context, endingOn time.Time) ([]Limit, error)
	FindActiveAll(ctx context.Context, on time.Time) ([]Limit, error)
}
