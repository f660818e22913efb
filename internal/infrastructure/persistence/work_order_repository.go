package persistence

import (
	"context"
	"time"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWorkOrderRepository implements WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// FindByID finds a work order by ID
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uint) (*manufacturing.WorkOrder, error) {
	var model models.WorkOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Work order")
	}
	return model.ToDomain(), nil
}

// FindAll finds work orders matching the filter
func (r *GormWorkOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.WorkOrder, error) {
	var rows []models.WorkOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkOrderModel{}), filter)
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, WorkOrderSortFields, "id")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]manufacturing.WorkOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts work orders matching the filter
func (r *GormWorkOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.WorkOrderModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus groups work orders by status
func (r *GormWorkOrderRepository) CountByStatus(ctx context.Context) (map[manufacturing.WorkOrderStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.WorkOrderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[manufacturing.WorkOrderStatus]int64, len(rows))
	for _, row := range rows {
		out[manufacturing.WorkOrderStatus(row.Status)] = row.Total
	}
	return out, nil
}

// CountCompletedSince counts work orders completed at or after since
func (r *GormWorkOrderRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WorkOrderModel{}).
		Where("status = ? AND completed_at >= ?", manufacturing.WorkOrderStatusCompleted, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a work order
func (r *GormWorkOrderRepository) Save(ctx context.Context, wo *manufacturing.WorkOrder) error {
	model := &models.WorkOrderModel{}
	model.FromDomain(wo)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	wo.ID = model.ID
	return nil
}

// SaveWithLock saves a status change with optimistic locking (checks version)
func (r *GormWorkOrderRepository) SaveWithLock(ctx context.Context, wo *manufacturing.WorkOrder) error {
	result := r.db.WithContext(ctx).
		Model(&models.WorkOrderModel{}).
		Where("id = ? AND version = ?", wo.ID, wo.Version-1).
		Updates(map[string]interface{}{
			"work_center_id":    wo.WorkCenterID,
			"operation":         wo.Operation,
			"expected_duration": wo.ExpectedDuration,
			"real_duration":     wo.RealDuration,
			"status":            wo.Status,
			"assignee_id":       wo.AssigneeID,
			"started_at":        wo.StartedAt,
			"completed_at":      wo.CompletedAt,
			"notes":             wo.Notes,
			"version":           wo.Version,
			"updated_at":        wo.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a work order with its comments and issues
func (r *GormWorkOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderCommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderIssueModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.WorkOrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Work order")
		}
		return nil
	})
}

func (r *GormWorkOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "manufacturing_order_id":
			query = query.Where("manufacturing_order_id = ?", value)
		case "work_center_id":
			query = query.Where("work_center_id = ?", value)
		case "status":
			query = query.Where("status = ?", toString(value))
		}
	}
	return query
}

// Ensure GormWorkOrderRepository implements WorkOrderRepository
var _ manufacturing.WorkOrderRepository = (*GormWorkOrderRepository)(nil)
