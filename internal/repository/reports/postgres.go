package reports

import (
	"context"
	"time"

	ledgerdomain "budget-bot-go/internal/domain/ledger"
	reportsdomain "budget-bot-go/internal/domain/reports"
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

func (r *PostgresRepository) Totals(ctx context.Context, userID int64, from, to time.Time) (reportsdomain.Totals, error) {
	var row struct {
		Income     decimal.Decimal
		Expense    decimal.Decimal
		EntryCount int64
	}
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Select(
			"COALESCE(SUM(CASE WHEN direction = 'income' THEN amount END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN direction = 'expense' THEN amount END), 0) AS expense, "+
				"COUNT(*) AS entry_count").
		Where("user_id = ? AND occurred_at::date BETWEEN ?::date AND ?::date",
			userID, from.Format(dateOnly), to.Format(dateOnly)).
		Scan(&row).Error
	if err != nil {
		return reportsdomain.Totals{}, err
	}
	return reportsdomain.Totals{
		Income:     row.Income,
		Expense:    row.Expense,
		EntryCount: row.EntryCount,
	}, nil
}

func (r *PostgresRepository) ExpenseByCategory(ctx context.Context, userID int64, from, to time.Time) ([]reportsdomain.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ? AND direction = ? AND category IS NOT NULL", userID, ledgerdomain.DirectionExpense).
		Where("occurred_at::date BETWEEN ?::date AND ?::date", from.Format(dateOnly), to.Format(dateOnly)).
		Group("category").
		Order("total desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]reportsdomain.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		result = append(result, reportsdomain.CategoryTotal{
			Category: row.Category,
			Total:    row.Total,
			Count:    row.Count,
		})
	}
	return result, nil
}
