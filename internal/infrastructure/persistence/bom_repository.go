package persistence

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBOMRepository implements bom.BOMRepository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

func preloadComponents(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC").Order("id ASC")
}

// FindByID finds a BOM with its components
func (r *GormBOMRepository) FindByID(ctx context.Context, id uint) (*bom.BillOfMaterial, error) {
	var model models.BOMModel
	if err := r.db.WithContext(ctx).
		Preload("Components", preloadComponents).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Bill of materials")
	}
	return model.ToDomain(), nil
}

// FindAll finds BOMs matching the filter
func (r *GormBOMRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bom.BillOfMaterial, error) {
	var rows []models.BOMModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BOMModel{}), filter).
		Preload("Components", preloadComponents)
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, CommonSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]bom.BillOfMaterial, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Count counts BOMs matching the filter
func (r *GormBOMRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.BOMModel{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsActiveForProduct checks whether the product already has an active BOM
func (r *GormBOMRepository) ExistsActiveForProduct(ctx context.Context, productID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BOMModel{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the BOM and its components in one transaction
func (r *GormBOMRepository) Create(ctx context.Context, b *bom.BillOfMaterial) error {
	model := models.BOMModelFromDomain(b)
	components := model.Components
	model.Components = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		b.ID = model.ID
		if err := insertComponents(tx, model.ID, components); err != nil {
			return err
		}
		for i := range b.Components {
			b.Components[i].BOMID = model.ID
			b.Components[i].ID = components[i].ID
		}
		return nil
	})
}

// Update rewrites the header with optimistic locking and replaces the components
func (r *GormBOMRepository) Update(ctx context.Context, b *bom.BillOfMaterial) error {
	model := models.BOMModelFromDomain(b)
	components := model.Components

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.BOMModel{}).
			Where("id = ? AND version = ?", b.ID, b.Version-1).
			Updates(map[string]interface{}{
				"version_label": b.Revision,
				"reference":     b.Reference,
				"is_active":     b.IsActive,
				"version":       b.Version,
				"updated_at":    b.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		if err := tx.Where("bom_id = ?", b.ID).Delete(&models.BOMComponentModel{}).Error; err != nil {
			return err
		}
		if err := insertComponents(tx, b.ID, components); err != nil {
			return err
		}
		for i := range b.Components {
			b.Components[i].BOMID = b.ID
			b.Components[i].ID = components[i].ID
		}
		return nil
	})
}

func insertComponents(tx *gorm.DB, bomID uint, components []models.BOMComponentModel) error {
	if len(components) == 0 {
		return nil
	}
	for i := range components {
		components[i].ID = 0
		components[i].BOMID = bomID
	}
	return tx.Create(&components).Error
}

// Delete removes a BOM and its components
func (r *GormBOMRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_id = ?", id).Delete(&models.BOMComponentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BOMModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Bill of materials")
		}
		return nil
	})
}

func (r *GormBOMRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// Ensure GormBOMRepository implements BOMRepository
var _ bom.BOMRepository = (*GormBOMRepository)(nil)
