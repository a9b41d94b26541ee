package users

import (
	"context"
	"errors"

	usersdomain "budget-bot-go/internal/domain/users"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, user *usersdomain.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID int64) (*usersdomain.User, error) {
	var user usersdomain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usersdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *usersdomain.User) error {
	return r.db.WithContext(ctx).
		Model(&usersdomain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":    user.Name,
			"balance": user.Balance,
		}).Error
}

func (r *PostgresRepository) UpdateCategories(ctx context.Context, userID int64, categories []string) error {
	return r.db.WithContext(ctx).
		Model(&usersdomain.User{}).
		Where("id = ?", userID).
		Update("categories", pq.StringArray(categories)).Error
}

// Reset removes the user's ledger entries and limits and blanks the profile
// fields, keeping the identity row for foreign keys.
func (r *PostgresRepository) Reset(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM ledger_entries WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM limits WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Model(&usersdomain.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"name":       nil,
				"balance":    0,
				"categories": pq.StringArray{},
			}).Error
	})
}
