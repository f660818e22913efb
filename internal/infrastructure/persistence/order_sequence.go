package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNumberSequence hands out manufacturing order sequence values from the
// mo_sequences table. The UPDATE takes a row lock, so concurrent callers in
// the same period are serialized and never see the same value.
type GormNumberSequence struct {
	db *gorm.DB
}

// NewGormNumberSequence creates a new GormNumberSequence
func NewGormNumberSequence(db *gorm.DB) *GormNumberSequence {
	return &GormNumberSequence{db: db}
}

// Next returns the next value for period, starting at 1
func (s *GormNumberSequence) Next(ctx context.Context, period string) (int64, error) {
	var value int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < 3; attempt++ {
			result := tx.Model(&models.OrderSequenceModel{}).
				Where("period = ?", period).
				UpdateColumns(map[string]interface{}{
					"value":      gorm.Expr("value + 1"),
					"updated_at": time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 1 {
				return tx.Model(&models.OrderSequenceModel{}).
					Where("period = ?", period).
					Pluck("value", &value).Error
			}

			// First order of the period. A concurrent insert loses the race
			// via DO NOTHING and retries the UPDATE.
			row := &models.OrderSequenceModel{Period: period, Value: 1, UpdatedAt: time.Now()}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 1 {
				value = 1
				return nil
			}
		}
		return fmt.Errorf("order sequence for period %s: too much contention", period)
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Ensure GormNumberSequence implements NumberSequence
var _ manufacturing.NumberSequence = (*GormNumberSequence)(nil)
