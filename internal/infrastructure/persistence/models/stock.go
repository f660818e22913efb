package models

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for stock ledger entries.
type LedgerEntryModel struct {
	BaseModel
	ProductID       uint                  `gorm:"not null;index:idx_stock_ledger_product_date,priority:1"`
	TransactionType stock.TransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity        int64                 `gorm:"not null"`
	UnitCost        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalValue      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Reference       string                `gorm:"type:varchar(100);index"`
	ReferenceID     *uint
	Notes           string    `gorm:"type:text"`
	TransactionDate time.Time `gorm:"not null;index:idx_stock_ledger_product_date,priority:2"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "stock_ledger"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *stock.LedgerEntry {
	return &stock.LedgerEntry{
		BaseEntity:      m.BaseModel.ToDomain(),
		ProductID:       m.ProductID,
		TransactionType: m.TransactionType,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		TotalValue:      m.TotalValue,
		Reference:       m.Reference,
		ReferenceID:     m.ReferenceID,
		Notes:           m.Notes,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(e *stock.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ProductID = e.ProductID
	m.TransactionType = e.TransactionType
	m.Quantity = e.Quantity
	m.UnitCost = e.UnitCost
	m.TotalValue = e.TotalValue
	m.Reference = e.Reference
	m.ReferenceID = e.ReferenceID
	m.Notes = e.Notes
	m.TransactionDate = e.TransactionDate
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *stock.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}
