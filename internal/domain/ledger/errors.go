package ledger

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCategoryRequired = errors.New("category is required")
	ErrCategoryUnknown  = errors.New("category is not in the user's set")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidPeriod    = errors.New("period end precedes start")
)
