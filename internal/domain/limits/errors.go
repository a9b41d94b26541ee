package limits

import "errors"

var (
	ErrLimitNotFound   = errors.New("limit not found")
	ErrInvalidCeiling  = errors.New("ceiling must be positive")
	ErrInvalidPeriod   = errors.New("end date precedes start date")
	ErrCategoryEmpty   = errors.New("category is required")
	ErrCategoryUnknown = errors.New("category is not in the user's set")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
