package limits

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"budget-bot-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeLimitsRepo struct {
	limits map[int64]*Limit
	nextID int64
}

func newFakeLimitsRepo() *fakeLimitsRepo {
	return &fakeLimitsRepo{limits: make(map[int64]*Limit), nextID: 1}
}

func (r *fakeLimitsRepo) Create(ctx context.Context, limit *Limit) error {
	limit.ID = r.nextID
	r.nextID++
	stored := *limit
	r.limits[stored.ID] = &stored
	return nil
}

func (r *fakeLimitsRepo) UpdateWindow(ctx context.Context, limitID, userID int64, limit *Limit) error {
	existing, ok := r.limits[limitID]
	if !ok || existing.UserID != userID {
		return ErrLimitNotFound
	}
	existing.StartDate = limit.StartDate
	existing.EndDate = limit.EndDate
	existing.Ceiling = limit.Ceiling
	return nil
}

func (r *fakeLimitsRepo) FindActiveByCategory(ctx context.Context, userID int64, category string, on time.Time) (*Limit, error) {
	var found *Limit
	for _, limit := range r.limits {
		if limit.UserID != userID || limit.Category != category || !limit.ActiveAt(on) {
			continue
		}
		if found == nil || limit.ID > found.ID {
			found = limit
		}
	}
	if found == nil {
		return nil, ErrLimitNotFound
	}
	copied := *found
	return &copied, nil
}

func (r *fakeLimitsRepo) ListActive(ctx context.Context, userID int64, on time.Time) ([]Limit, error) {
	result := make([]Limit, 0)
	for _, limit := range r.limits {
		if limit.UserID == userID && limit.ActiveAt(on) {
			result = append(result, *limit)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeLimitsRepo) Delete(ctx context.Context, userID, limitID int64) (bool, error) {
	limit, ok := r.limits[limitID]
	if !ok || limit.UserID != userID {
		return false, nil
	}
	delete(r.limits, limitID)
	return true, nil
}

func (r *fakeLimitsRepo) FindExpiring(ctx context.Context, endingOn time.Time) ([]Limit, error) {
	result := make([]Limit, 0)
	for _, limit := range r.limits {
		if limit.EndDate.Equal(endingOn) {
			result = append(result, *limit)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeLimitsRepo) FindActiveAll(ctx context.Context, on time.Time) ([]Limit, error) {
	result := make([]Limit, 0)
	for _, limit := range r.limits {
		if limit.ActiveAt(on) {
			result = append(result, *limit)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeUsage struct {
	totals map[string]decimal.Decimal
	err    error
}

func (u *fakeUsage) ExpenseTotal(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error) {
	if u.err != nil {
		return decimal.Zero, u.err
	}
	total, ok := u.totals[category]
	if !ok {
		return decimal.Zero, nil
	}
	return total, nil
}

type fakeCategories struct {
	categories []string
}

func (c *fakeCategories) Categories(ctx context.Context, userID int64) ([]string, error) {
	return c.categories, nil
}

type sentAlert struct {
	userID int64
	kind   AlertKind
	alert  Alert
}

type fakeNotifier struct {
	sent []sentAlert
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, userID int64, kind AlertKind, alert Alert) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentAlert{userID: userID, kind: kind, alert: alert})
	return nil
}

func testService(repo Repository, usage UsageSource, notifier Notifier) *Service {
	categories := &fakeCategories{categories: []string{"groceries", "transport"}}
	log := logger.New(io.Discard, slog.LevelError, "json")
	svc := NewService(repo, usage, categories, notifier, time.Second, log)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddOrUpdateCreates(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})

	limit, err := svc.AddOrUpdate(context.Background(), 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if limit.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if len(repo.limits) != 1 {
		t.Fatalf("expected one stored limit, got %d", len(repo.limits))
	}
}

func TestAddOrUpdateOverwritesActiveInPlace(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})

	first, err := svc.AddOrUpdate(context.Background(), 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := svc.AddOrUpdate(context.Background(), 1, "groceries", day(2026, 8, 10), day(2026, 9, 10), dec("7000"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected overwrite to keep id %d, got %d", first.ID, second.ID)
	}
	if len(repo.limits) != 1 {
		t.Fatalf("expected one stored limit after overwrite, got %d", len(repo.limits))
	}
	if !repo.limits[first.ID].Ceiling.Equal(dec("7000")) {
		t.Fatalf("expected ceiling 7000, got %s", repo.limits[first.ID].Ceiling)
	}
}

func TestAddOrUpdateLeavesExpiredAlone(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})

	expired := &Limit{UserID: 1, Category: "groceries", StartDate: day(2026, 7, 1), EndDate: day(2026, 7, 31), Ceiling: dec("3000")}
	if err := repo.Create(context.Background(), expired); err != nil {
		t.Fatalf("seed: %v", err)
	}

	limit, err := svc.AddOrUpdate(context.Background(), 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if limit.ID == expired.ID {
		t.Fatalf("expected new row, got overwrite of expired limit")
	}
	if len(repo.limits) != 2 {
		t.Fatalf("expected expired limit preserved, got %d rows", len(repo.limits))
	}
}

func TestAddOrUpdateValidation(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "", day(2026, 8, 1), day(2026, 8, 31), dec("100")); !errors.Is(err, ErrCategoryEmpty) {
		t.Fatalf("expected ErrCategoryEmpty, got %v", err)
	}
	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), decimal.Zero); !errors.Is(err, ErrInvalidCeiling) {
		t.Fatalf("expected ErrInvalidCeiling, got %v", err)
	}
	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 31), day(2026, 8, 1), dec("100")); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := svc.AddOrUpdate(ctx, 1, "yachts", day(2026, 8, 1), day(2026, 8, 31), dec("100")); !errors.Is(err, ErrCategoryUnknown) {
		t.Fatalf("expected ErrCategoryUnknown, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})
	ctx := context.Background()

	limit, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	deleted, err := svc.Delete(ctx, 1, limit.ID)
	if err != nil || !deleted {
		t.Fatalf("expected deleted=true, got %v %v", deleted, err)
	}
	deleted, err = svc.Delete(ctx, 1, limit.ID)
	if err != nil || deleted {
		t.Fatalf("expected deleted=false on second delete, got %v %v", deleted, err)
	}
	deleted, err = svc.Delete(ctx, 1, 999)
	if err != nil || deleted {
		t.Fatalf("expected deleted=false for unknown id, got %v %v", deleted, err)
	}
}

func TestDeleteForeignLimit(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})
	ctx := context.Background()

	limit, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	deleted, err := svc.Delete(ctx, 2, limit.ID)
	if err != nil || deleted {
		t.Fatalf("expected deleted=false for foreign owner, got %v %v", deleted, err)
	}
	if _, ok := repo.limits[limit.ID]; !ok {
		t.Fatalf("expected limit to survive foreign delete")
	}
}

func TestCheckAfterExpenseApproaching(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{"groceries": dec("4500")}}
	notifier := &fakeNotifier{}
	svc := testService(repo, usage, notifier)
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc.CheckAfterExpense(ctx, 1, "groceries")
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.sent))
	}
	if notifier.sent[0].kind != AlertApproaching {
		t.Fatalf("expected approaching alert, got %s", notifier.sent[0].kind)
	}
	if !notifier.sent[0].alert.Remaining.Equal(dec("500")) {
		t.Fatalf("expected remaining 500, got %s", notifier.sent[0].alert.Remaining)
	}
}

func TestCheckAfterExpenseViolated(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{"groceries": dec("5100")}}
	notifier := &fakeNotifier{}
	svc := testService(repo, usage, notifier)
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc.CheckAfterExpense(ctx, 1, "groceries")
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.sent))
	}
	if notifier.sent[0].kind != AlertViolated {
		t.Fatalf("expected violated alert, got %s", notifier.sent[0].kind)
	}
	if !notifier.sent[0].alert.Overage.Equal(dec("100")) {
		t.Fatalf("expected overage 100, got %s", notifier.sent[0].alert.Overage)
	}
}

func TestCheckAfterExpenseSilentWhenOK(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{"groceries": dec("1000")}}
	notifier := &fakeNotifier{}
	svc := testService(repo, usage, notifier)
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc.CheckAfterExpense(ctx, 1, "groceries")
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no alerts, got %d", len(notifier.sent))
	}
}

func TestCheckAfterExpenseNoActiveLimit(t *testing.T) {
	repo := newFakeLimitsRepo()
	notifier := &fakeNotifier{}
	svc := testService(repo, &fakeUsage{}, notifier)

	svc.CheckAfterExpense(context.Background(), 1, "groceries")
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no alerts without an active limit, got %d", len(notifier.sent))
	}
}

func TestCheckAfterExpenseSwallowsFailures(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{"groceries": dec("5100")}}
	notifier := &fakeNotifier{err: errors.New("chat unreachable")}
	svc := testService(repo, usage, notifier)
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc.CheckAfterExpense(ctx, 1, "groceries")

	usage.err = errors.New("db down")
	svc.CheckAfterExpense(ctx, 1, "groceries")
}

func TestPreview(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{"groceries": dec("2000")}}
	svc := testService(repo, usage, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.AddOrUpdate(ctx, 1, "groceries", day(2026, 8, 1), day(2026, 8, 31), dec("5000")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	eval, err := svc.Preview(ctx, 1, "groceries", dec("2500"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if eval == nil {
		t.Fatalf("expected evaluation")
	}
	if eval.State != StateApproaching {
		t.Fatalf("expected approaching, got %s", eval.State)
	}
	if !eval.Spent.Equal(dec("4500")) {
		t.Fatalf("expected spent 4500, got %s", eval.Spent)
	}
}

func TestPreviewNoActiveLimit(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})

	eval, err := svc.Preview(context.Background(), 1, "groceries", dec("100"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if eval != nil {
		t.Fatalf("expected nil evaluation without an active limit, got %+v", eval)
	}
}

func TestPreviewValidation(t *testing.T) {
	repo := newFakeLimitsRepo()
	svc := testService(repo, &fakeUsage{}, &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.Preview(ctx, 1, "", dec("100")); !errors.Is(err, ErrCategoryEmpty) {
		t.Fatalf("expected ErrCategoryEmpty, got %v", err)
	}
	if _, err := svc.Preview(ctx, 1, "groceries", decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSendExpiryReminders(t *testing.T) {
	repo := newFakeLimitsRepo()
	notifier := &fakeNotifier{}
	svc := testService(repo, &fakeUsage{}, notifier)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	expiring := &Limit{UserID: 1, Category: "groceries", StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 16), Ceiling: dec("5000")}
	later := &Limit{UserID: 2, Category: "transport", StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 31), Ceiling: dec("1000")}
	for _, limit := range []*Limit{expiring, later} {
		if err := repo.Create(ctx, limit); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	sent, err := svc.SendExpiryReminders(ctx, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected one reminder, got %d", sent)
	}
	if notifier.sent[0].kind != AlertExpiringReminder || notifier.sent[0].userID != 1 {
		t.Fatalf("unexpected reminder: %+v", notifier.sent[0])
	}
}

func TestSweepViolations(t *testing.T) {
	repo := newFakeLimitsRepo()
	usage := &fakeUsage{totals: map[string]decimal.Decimal{
		"groceries": dec("6000"),
		"transport": dec("100"),
	}}
	notifier := &fakeNotifier{}
	svc := testService(repo, usage, notifier)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	violated := &Limit{UserID: 1, Category: "groceries", StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 31), Ceiling: dec("5000")}
	fine := &Limit{UserID: 2, Category: "transport", StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 31), Ceiling: dec("1000")}
	for _, limit := range []*Limit{violated, fine} {
		if err := repo.Create(ctx, limit); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	sent, err := svc.SweepViolations(ctx, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected one alert, got %d", sent)
	}
	if notifier.sent[0].kind != AlertViolatedDaily || notifier.sent[0].userID != 1 {
		t.Fatalf("unexpected alert: %+v", notifier.sent[0])
	}
	if !notifier.sent[0].alert.Overage.Equal(dec("1000")) {
		t.Fatalf("expected overage 1000, got %s", notifier.sent[0].alert.Overage)
	}
}

func TestSweepViolationsIsolatesFailures(t *testing.T) {
	repo := newFakeLimitsRepo()
	notifier := &fakeNotifier{}
	svc := testService(repo, &fakeUsage{err: errors.New("db down")}, notifier)
	ctx := context.Background()

	now := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	limit := &Limit{UserID: 1, Category: "groceries", StartDate: day(2026, 8, 1), EndDate: day(2026, 8, 31), Ceiling: dec("5000")}
	if err := repo.Create(ctx, limit); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sent, err := svc.SweepViolations(ctx, now)
	if err != nil {
		t.Fatalf("expected pass to continue past per-limit failures, got %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected no alerts, got %d", sent)
	}
}
