package persistence

import (
	"context"
	"strings"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormManufacturingOrderRepository implements ManufacturingOrderRepository using GORM
type GormManufacturingOrderRepository struct {
	db *gorm.DB
}

// NewGormManufacturingOrderRepository creates a new GormManufacturingOrderRepository
func NewGormManufacturingOrderRepository(db *gorm.DB) *GormManufacturingOrderRepository {
	return &GormManufacturingOrderRepository{db: db}
}

// FindByID finds a manufacturing order by ID
func (r *GormManufacturingOrderRepository) FindByID(ctx context.Context, id uint) (*manufacturing.ManufacturingOrder, error) {
	var model models.ManufacturingOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Manufacturing order")
	}
	return model.ToDomain(), nil
}

// FindByIDWithWorkOrders loads the order together with its work orders
func (r *GormManufacturingOrderRepository) FindByIDWithWorkOrders(ctx context.Context, id uint) (*manufacturing.ManufacturingOrder, error) {
	var model models.ManufacturingOrderModel
	if err := r.db.WithContext(ctx).
		Preload("WorkOrders", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Manufacturing order")
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a manufacturing order by its number
func (r *GormManufacturingOrderRepository) FindByNumber(ctx context.Context, number string) (*manufacturing.ManufacturingOrder, error) {
	var model models.ManufacturingOrderModel
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&model).Error; err != nil {
		return nil, notFound(err, "Manufacturing order")
	}
	return model.ToDomain(), nil
}

// FindAll finds manufacturing orders matching the filter
func (r *GormManufacturingOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]manufacturing.ManufacturingOrder, error) {
	var rows []models.ManufacturingOrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ManufacturingOrderModel{}), filter)
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, OrderSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]manufacturing.ManufacturingOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts manufacturing orders matching the filter
func (r *GormManufacturingOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ManufacturingOrderModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus groups manufacturing orders by status
func (r *GormManufacturingOrderRepository) CountByStatus(ctx context.Context) (map[manufacturing.OrderStatus]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.ManufacturingOrderModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[manufacturing.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[manufacturing.OrderStatus(row.Status)] = row.Total
	}
	return out, nil
}

// Save creates or updates a manufacturing order
func (r *GormManufacturingOrderRepository) Save(ctx context.Context, mo *manufacturing.ManufacturingOrder) error {
	model := &models.ManufacturingOrderModel{}
	model.FromDomain(mo)
	if err := r.db.WithContext(ctx).Omit("WorkOrders").Save(model).Error; err != nil {
		return err
	}
	mo.ID = model.ID
	return nil
}

func (r *GormManufacturingOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(number) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", toString(value))
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}
	return query
}

// Ensure GormManufacturingOrderRepository implements ManufacturingOrderRepository
var _ manufacturing.ManufacturingOrderRepository = (*GormManufacturingOrderRepository)(nil)
