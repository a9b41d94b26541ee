package users

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const maxCategories = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the identity row on first contact. Calling it again for a
// known user is a no-op.
func (s *Service) Register(ctx context.Context, userID int64, username *string) error {
	user := User{
		ID:         userID,
		Username:   normalizeUsername(username),
		Categories: []string{},
		Balance:    decimal.Zero,
	}
	return s.repo.CreateIfAbsent(ctx, &user)
}

// CompleteProfile finishes registration by setting the display name and the
// opening balance.
func (s *Service) CompleteProfile(ctx context.Context, userID int64, name string, openingBalance decimal.Decimal) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if openingBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = &name
	user.Balance = openingBalance
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Categories: append([]string{}, user.Categories...),
		Balance:    user.Balance,
	}, nil
}

func (s *Service) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Registered(), nil
}

// Categories returns the user's declared category set, in declaration order.
func (s *Service) Categories(ctx context.Context, userID int64) ([]string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]string{}, user.Categories...), nil
}

func (s *Service) AddCategory(ctx context.Context, userID int64, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrCategoryEmpty
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if len(user.Categories) >= maxCategories {
		return ErrTooManyCategories
	}
	for _, existing := range user.Categories {
		if existing == category {
			return ErrCategoryExists
		}
	}

	updated := append(append([]string{}, user.Categories...), category)
	return s.repo.UpdateCategories(ctx, userID, updated)
}

// ReplaceCategories swaps the whole category set, deduplicating while keeping
// first-occurrence order. Entries and limits referencing removed categories
// are left untouched.
func (s *Service) ReplaceCategories(ctx context.Context, userID int64, categories []string) ([]string, error) {
	seen := make(map[string]struct{}, len(categories))
	cleaned := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			return nil, ErrCategoryEmpty
		}
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		cleaned = append(cleaned, category)
	}
	if len(cleaned) > maxCategories {
		return nil, ErrTooManyCategories
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategories(ctx, userID, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// Reset wipes the user's ledger, limits, and profile fields but keeps the
// identity row.
func (s *Service) Reset(ctx context.Context, userID int64) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Reset(ctx, userID)
}

func normalizeUsername(username *string) *string {
	if username == nil {
		return nil
	}
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(*username), "@"))
	if value == "" {
		return nil
	}
	return &value
}
