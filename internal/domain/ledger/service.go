package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultRecentLimit = 10

// CategorySource exposes the owning user's declared category set.
type CategorySource interface {
	Categories(ctx context.Context, userID int64) ([]string, error)
}

// LimitCheck is invoked after an expense entry is durably committed. It must
// never fail the write that triggered it, so it returns nothing; delivery and
// store errors are the implementation's problem to log.
type LimitCheck interface {
	CheckAfterExpense(ctx context.Context, userID int64, category string)
}

type Service struct {
	repo       Repository
	categories CategorySource
	limitCheck LimitCheck
	now        func() time.Time
}

func NewService(repo Repository, categories CategorySource, limitCheck LimitCheck) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		limitCheck: limitCheck,
		now:        time.Now,
	}
}

// RecordExpense validates, commits the entry together with its balance
// adjustment, and only then runs the limit check. A failing check never
// surfaces here.
func (s *Service) RecordExpense(ctx context.Context, userID int64, amount decimal.Decimal, category string, note *string) (*Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if err := s.checkCategory(ctx, userID, category); err != nil {
		return nil, err
	}

	entry := Entry{
		UserID:     userID,
		OccurredAt: s.now().UTC(),
		Direction:  DirectionExpense,
		Amount:     amount,
		Category:   &category,
		Note:       normalizeNote(note),
	}
	if err := s.commit(ctx, &entry); err != nil {
		return nil, err
	}

	if s.limitCheck != nil {
		s.limitCheck.CheckAfterExpense(ctx, userID, category)
	}
	return &entry, nil
}

// RecordIncome never triggers limit evaluation.
func (s *Service) RecordIncome(ctx context.Context, userID int64, amount decimal.Decimal, note *string) (*Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	entry := Entry{
		UserID:     userID,
		OccurredAt: s.now().UTC(),
		Direction:  DirectionIncome,
		Amount:     amount,
		Note:       normalizeNote(note),
	}
	if err := s.commit(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry reverses the entry's balance effect in the same transaction as
// the delete. Deleting a missing or foreign entry reports false, not an
// error.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID int64) (bool, error) {
	var deleted bool
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		entry, err := tx.GetEntryByID(ctx, userID, entryID)
		if err != nil {
			if errors.Is(err, ErrEntryNotFound) {
				return nil
			}
			return err
		}

		removed, err := tx.DeleteEntry(ctx, userID, entryID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}

		deleted = true
		return tx.AdjustBalance(ctx, userID, entry.signedAmount().Neg())
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Service) ListRecent(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.ListRecent(ctx, userID, limit)
}

func (s *Service) ListByPeriod(ctx context.Context, userID int64, from, to time.Time) ([]Entry, error) {
	if to.Before(from) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ListByPeriod(ctx, userID, from, to)
}

func (s *Service) ListByCategory(ctx context.Context, userID int64, category string, page, perPage int) (Page, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Page{}, ErrCategoryRequired
	}
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = 5
	}

	items, total, err := s.repo.ListByCategory(ctx, userID, category, perPage, page*perPage)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total}, nil
}

// ExpenseTotal is the usage aggregator: always re-derived from the ledger,
// never cached. Returns zero when no entries match.
func (s *Service) ExpenseTotal(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, ErrInvalidPeriod
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return decimal.Zero, ErrCategoryRequired
	}
	return s.repo.ExpenseTotal(ctx, userID, category, from, to)
}

func (s *Service) commit(ctx context.Context, entry *Entry) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		return tx.AdjustBalance(ctx, entry.UserID, entry.signedAmount())
	})
}

func (s *Service) checkCategory(ctx context.Context, userID int64, category string) error {
	declared, err := s.categories.Categories(ctx, userID)
	if err != nil {
		return err
	}
	for _, candidate := range declared {
		if candidate == category {
			return nil
		}
	}
	return ErrCategoryUnknown
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	value := strings.TrimSpace(*note)
	if value == "" {
		return nil
	}
	return &value
}
