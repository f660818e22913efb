package persistence

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/availability"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAvailabilityRepository implements availability.Repository using GORM
type GormAvailabilityRepository struct {
	db *gorm.DB
}

// NewGormAvailabilityRepository creates a new GormAvailabilityRepository
func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

// FindByProduct returns the row for a product
func (r *GormAvailabilityRepository) FindByProduct(ctx context.Context, productID uint) (*availability.ComponentAvailability, error) {
	var model models.ComponentAvailabilityModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error; err != nil {
		return nil, notFound(err, "Component availability")
	}
	return model.ToDomain(), nil
}

// FindByProducts returns rows keyed by product ID
func (r *GormAvailabilityRepository) FindByProducts(ctx context.Context, productIDs []uint) (map[uint]*availability.ComponentAvailability, error) {
	out := make(map[uint]*availability.ComponentAvailability, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.ComponentAvailabilityModel
	if err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ProductID] = rows[i].ToDomain()
	}
	return out, nil
}

// FindAll lists rows with pagination
func (r *GormAvailabilityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]availability.ComponentAvailability, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ComponentAvailabilityModel{})
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ComponentAvailabilityModel
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, AvailabilitySortFields, "product_id")
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]availability.ComponentAvailability, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a row
func (r *GormAvailabilityRepository) Save(ctx context.Context, row *availability.ComponentAvailability) error {
	model := &models.ComponentAvailabilityModel{}
	model.FromDomain(row)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	row.ID = model.ID
	return nil
}

// Ensure GormAvailabilityRepository implements Repository
var _ availability.Repository = (*GormAvailabilityRepository)(nil)
