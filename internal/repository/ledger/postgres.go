package ledger

import (
	"context"
	"errors"
	"time"

	ledgerdomain "budget-bot-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateOnly = "2006-01-02"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *ledgerdomain.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) GetEntryByID(ctx context.Context, userID, entryID int64) (*ledgerdomain.Entry, error) {
	var entry ledgerdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) DeleteEntry(ctx context.Context, userID, entryID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Entry{}, "user_id = ? AND id = ?", userID, entryID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Exec("UPDATE users SET balance = balance + ?, updated_at = NOW() WHERE id = ?", delta, userID).Error
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]ledgerdomain.Entry, error) {
	var entries []ledgerdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at desc, id desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) ListByPeriod(ctx context.Context, userID int64, from, to time.Time) ([]ledgerdomain.Entry, error) {
	var entries []ledgerdomain.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at::date BETWEEN ?::date AND ?::date",
			userID, from.Format(dateOnly), to.Format(dateOnly)).
		Order("occurred_at asc, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, userID int64, category string, limit, offset int) ([]ledgerdomain.Entry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Where("user_id = ? AND category = ?", userID, category)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []ledgerdomain.Entry
	if err := query.
		Order("occurred_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *PostgresRepository) ExpenseTotal(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category = ? AND direction = ?", userID, category, ledgerdomain.DirectionExpense).
		Where("occurred_at::date BETWEEN ?::date AND ?::date", from.Format(dateOnly), to.Format(dateOnly)).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}
