package users

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeUsersRepo struct {
	users  map[int64]*User
	resets []int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[int64]*User)}
}

func (r *fakeUsersRepo) CreateIfAbsent(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; ok {
		return nil
	}
	stored := *user
	r.users[stored.ID] = &stored
	return nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, userID int64) (*User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUsersRepo) UpdateProfile(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	stored := *user
	r.users[stored.ID] = &stored
	return nil
}

func (r *fakeUsersRepo) UpdateCategories(ctx context.Context, userID int64, categories []string) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Categories = append([]string{}, categories...)
	return nil
}

func (r *fakeUsersRepo) Reset(ctx context.Context, userID int64) error {
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Name = nil
	user.Balance = decimal.Zero
	user.Categories = []string{}
	r.resets = append(r.resets, userID)
	return nil
}

func TestRegisterIdempotent(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	username := "@alice"
	if err := svc.Register(ctx, 1, &username); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.users[1] == nil {
		t.Fatalf("user not stored")
	}
	if repo.users[1].Username == nil || *repo.users[1].Username != "alice" {
		t.Fatalf("expected username without @, got %v", repo.users[1].Username)
	}

	name := "Alice"
	repo.users[1].Name = &name
	if err := svc.Register(ctx, 1, &username); err != nil {
		t.Fatalf("expected no error on repeat, got %v", err)
	}
	if repo.users[1].Name == nil {
		t.Fatalf("expected repeat registration to keep existing row")
	}
}

func TestCompleteProfile(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	user, err := svc.CompleteProfile(ctx, 1, "  Alice  ", decimal.NewFromInt(1500))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name == nil || *user.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %v", user.Name)
	}
	if !user.Balance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected opening balance 1500, got %s", user.Balance)
	}

	registered, err := svc.IsRegistered(ctx, 1)
	if err != nil || !registered {
		t.Fatalf("expected registered=true, got %v %v", registered, err)
	}
}

func TestCompleteProfileValidation(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.CompleteProfile(ctx, 1, "   ", decimal.Zero); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CompleteProfile(ctx, 1, "Alice", decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
	if _, err := svc.CompleteProfile(ctx, 2, "Bob", decimal.Zero); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIsRegisteredUnknownUser(t *testing.T) {
	svc := NewService(newFakeUsersRepo())

	registered, err := svc.IsRegistered(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected no error for unknown user, got %v", err)
	}
	if registered {
		t.Fatalf("expected registered=false for unknown user")
	}
}

func TestAddCategory(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.AddCategory(ctx, 1, "groceries"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.AddCategory(ctx, 1, "groceries"); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if err := svc.AddCategory(ctx, 1, "  "); !errors.Is(err, ErrCategoryEmpty) {
		t.Fatalf("expected ErrCategoryEmpty, got %v", err)
	}

	got, err := svc.Categories(ctx, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{"groceries"}) {
		t.Fatalf("expected [groceries], got %v", got)
	}
}

func TestAddCategoryCap(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	full := make([]string, maxCategories)
	for i := range full {
		full[i] = fmt.Sprintf("cat-%d", i)
	}
	repo.users[1].Categories = full

	if err := svc.AddCategory(ctx, 1, "one-more"); !errors.Is(err, ErrTooManyCategories) {
		t.Fatalf("expected ErrTooManyCategories, got %v", err)
	}
}

func TestReplaceCategoriesDeduplicates(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.ReplaceCategories(ctx, 1, []string{" groceries ", "transport", "groceries"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{"groceries", "transport"}) {
		t.Fatalf("expected dedup in first-occurrence order, got %v", got)
	}

	if _, err := svc.ReplaceCategories(ctx, 1, []string{"ok", " "}); !errors.Is(err, ErrCategoryEmpty) {
		t.Fatalf("expected ErrCategoryEmpty, got %v", err)
	}
}

func TestReset(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.CompleteProfile(ctx, 1, "Alice", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Reset(ctx, 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.resets) != 1 || repo.resets[0] != 1 {
		t.Fatalf("expected one reset for user 1, got %v", repo.resets)
	}
	if repo.users[1] == nil {
		t.Fatalf("expected identity row to survive reset")
	}

	if err := svc.Reset(ctx, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNormalizeUsername(t *testing.T) {
	if normalizeUsername(nil) != nil {
		t.Fatalf("expected nil preserved")
	}
	blank := " @ "
	if normalizeUsername(&blank) != nil {
		t.Fatalf("expected blank username dropped")
	}
	handle := "@bob"
	got := normalizeUsername(&handle)
	if got == nil || *got != "bob" {
		t.Fatalf("expected bob, got %v", got)
	}
}
