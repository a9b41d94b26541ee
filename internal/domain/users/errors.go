package users

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCategoryExists    = errors.New("category already exists")
	ErrCategoryEmpty     = errors.New("category name is empty")
	ErrNameRequired      = errors.New("name is required")
	ErrNegativeBalance   = errors.New("opening balance must not be negative")
	ErrTooManyCategories = errors.New("too many categories")
)
