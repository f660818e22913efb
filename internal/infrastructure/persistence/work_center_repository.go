package persistence

import (
	"context"
	"strings"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWorkCenterRepository implements WorkCenterRepository using GORM
type GormWorkCenterRepository struct {
	db *gorm.DB
}

// NewGormWorkCenterRepository creates a new GormWorkCenterRepository
func NewGormWorkCenterRepository(db *gorm.DB) *GormWorkCenterRepository {
	return &GormWorkCenterRepository{db: db}
}

// FindByID finds a work center by ID
func (r *GormWorkCenterRepository) FindByID(ctx context.Context, id uint) (*manufacturing.WorkCenter, error) {
	var model models.WorkCenterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Work center")
	}
	return model.ToDomain(), nil
}

// FindAll finds work centers matching the filter
func (r *GormWorkCenterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.WorkCenter, error) {
	var rows []models.WorkCenterModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkCenterModel{}), filter)
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, WorkCenterSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]manufacturing.WorkCenter, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts work centers matching the filter
func (r *GormWorkCenterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkCenterModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks whether a work center name is taken
func (r *GormWorkCenterRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WorkCenterModel{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a work center
func (r *GormWorkCenterRepository) Save(ctx context.Context, wc *manufacturing.WorkCenter) error {
	model := &models.WorkCenterModel{}
	model.FromDomain(wc)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	wc.ID = model.ID
	return nil
}

// Delete deletes a work center
func (r *GormWorkCenterRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.WorkCenterModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Work center")
	}
	return nil
}

func (r *GormWorkCenterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", toString(status))
	}
	return query
}

// Ensure GormWorkCenterRepository implements WorkCenterRepository
var _ manufacturing.WorkCenterRepository = (*GormWorkCenterRepository)(nil)
