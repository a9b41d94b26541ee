package limits

import (
	"context"
	"errors"
	"time"

	limitsdomain "budget-bot-go/internal/domain/limits"
	"gorm.io/gorm"
)

const dateOnly = "2006-01-02"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, limit *limitsdomain.Limit) error {
	return r.db.WithContext(ctx).Create(limit).Error
}

func (r *PostgresRepository) UpdateWindow(ctx context.Context, limitID, userID int64, limit *limitsdomain.Limit) error {
	return r.db.WithContext(ctx).
		Model(&limitsdomain.Limit{}).
		Where("id = ? AND user_id = ?", limitID, userID).
		Updates(map[string]interface{}{
			"start_date": limit.StartDate,
			"end_date":   limit.EndDate,
			"ceiling":    limit.Ceiling,
		}).Error
}

func (r *PostgresRepository) FindActiveByCategory(ctx context.Context, userID int64, category string, on time.Time) (*limitsdomain.Limit, error) {
	var limit limitsdomain.Limit
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND category = ? AND start_date <= ?::date AND end_date >= ?::date",
			userID, category, on.Format(dateOnly), on.Format(dateOnly)).
		Order("id desc").
		First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, limitsdomain.ErrLimitNotFound
		}
		return nil, err
	}
	return &limit, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID int64, on time.Time) ([]limitsdomain.Limit, error) {
	var items []limitsdomain.Limit
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ?::date AND end_date >= ?::date",
			userID, on.Format(dateOnly), on.Format(dateOnly)).
		Order("end_date asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, limitID int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&limitsdomain.Limit{}, "user_id = ? AND id = ?", userID, limitID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) FindExpiring(ctx context.Context, endingOn time.Time) ([]limitsdomain.Limit, error) {
	var items []limitsdomain.Limit
	if err := r.db.WithContext(ctx).
		Where("end_date = ?::date", endingOn.Format(dateOnly)).
		Order("user_id asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) FindActiveAll(ctx context.Context, on time.Time) ([]limitsdomain.Limit, error) {
	var items []limitsdomain.Limit
	if err := r.db.WithContext(ctx).
		Where("start_date <= ?::date AND end_date >= ?::date", on.Format(dateOnly), on.Format(dateOnly)).
		Order("user_id asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
