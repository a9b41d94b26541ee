package users

import "context"

type Repository interface {
	CreateIfAbsent(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdateCategories(ctx context.Context, userID int64, categories []string) error
	Reset(ctx context.Context, userID int64) error
}
