package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Product")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds products by IDs, missing IDs are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindByName finds a product by its unique name
func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*product.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Product")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]product.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, ProductSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLowStock finds products at or below their minimum stock
func (r *GormProductRepository) FindLowStock(ctx context.Context) ([]product.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("minimum_stock > 0 AND current_stock <= minimum_stock").
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// ExistsByName checks whether a product name is taken
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *product.Product) error {
	model := models.ProductModelFromDomain(p)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	return nil
}

// SaveWithLock saves with optimistic locking (checks version).
// Current stock is owned by the ledger path and is never written here.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, p *product.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"name":            p.Name,
			"type":            p.Type,
			"unit_of_measure": p.UnitOfMeasure,
			"unit_cost":       p.UnitCost,
			"minimum_stock":   p.MinimumStock,
			"version":         p.Version,
			"updated_at":      p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// IncrementStock adds delta to current stock in a single UPDATE and returns the new value
func (r *GormProductRepository) IncrementStock(ctx context.Context, id uint, delta int64) (int64, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.NewNotFoundError("Product")
	}

	var current int64
	if err := db.Model(&models.ProductModel{}).
		Where("id = ?", id).
		Pluck("current_stock", &current).Error; err != nil {
		return 0, err
	}
	return current, nil
}

// SetStock overwrites current stock
func (r *GormProductRepository) SetStock(ctx context.Context, id uint, value int64) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"current_stock": value,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Product")
	}
	return nil
}

// SumStockValue returns the value of positive on-hand stock
func (r *GormProductRepository) SumStockValue(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("COALESCE(SUM(current_stock * unit_cost), 0) as total").
		Where("current_stock > 0").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", strings.ToUpper(toString(value)))
		case "low_stock":
			if value == true {
				query = query.Where("minimum_stock > 0 AND current_stock <= minimum_stock")
			}
		}
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []product.Product {
	out := make([]product.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormProductRepository implements ProductRepository
var _ product.ProductRepository = (*GormProductRepository)(nil)
