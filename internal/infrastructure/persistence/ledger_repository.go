package persistence

import (
	"context"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements stock.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a ledger entry by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uint) (*stock.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Ledger entry")
	}
	return model.ToDomain(), nil
}

// FindAll finds ledger entries with filtering and pagination
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter stock.LedgerFilter) ([]stock.LedgerEntry, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LedgerEntryModel
	query = paginate(query, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, LedgerSortFields, "transaction_date")
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return ledgerToDomain(rows), total, nil
}

// FindByProduct returns every entry of a product in chronological order
func (r *GormLedgerRepository) FindByProduct(ctx context.Context, productID uint) ([]stock.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("transaction_date ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ledgerToDomain(rows), nil
}

// FindByReference returns entries carrying the given reference
func (r *GormLedgerRepository) FindByReference(ctx context.Context, reference string) ([]stock.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ledgerToDomain(rows), nil
}

// CountSince counts entries of a type created since the given time
func (r *GormLedgerRepository) CountSince(ctx context.Context, txType stock.TransactionType, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("transaction_type = ? AND transaction_date >= ?", txType, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create appends an entry
func (r *GormLedgerRepository) Create(ctx context.Context, entry *stock.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

// Update rewrites an entry
func (r *GormLedgerRepository) Update(ctx context.Context, entry *stock.LedgerEntry) error {
	result := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"transaction_type": entry.TransactionType,
			"quantity":         entry.Quantity,
			"unit_cost":        entry.UnitCost,
			"total_value":      entry.TotalValue,
			"reference":        entry.Reference,
			"notes":            entry.Notes,
			"updated_at":       entry.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Ledger entry")
	}
	return nil
}

// Delete removes an entry
func (r *GormLedgerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Ledger entry")
	}
	return nil
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter stock.LedgerFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		y, m, d := filter.EndDate.Date()
		query = query.Where("transaction_date < ?", time.Date(y, m, d+1, 0, 0, 0, 0, filter.EndDate.Location()))
	}
	return query
}

func ledgerToDomain(rows []models.LedgerEntryModel) []stock.LedgerEntry {
	out := make([]stock.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ stock.LedgerRepository = (*GormLedgerRepository)(nil)
