package models

import (
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	Name          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type          product.ProductType `gorm:"type:varchar(20);not null;index"`
	UnitOfMeasure string              `gorm:"type:varchar(20);not null"`
	UnitCost      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock  int64               `gorm:"not null;default:0"`
	MinimumStock  int64               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *product.Product {
	return &product.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		UnitOfMeasure:     m.UnitOfMeasure,
		UnitCost:          m.UnitCost,
		CurrentStock:      m.CurrentStock,
		MinimumStock:      m.MinimumStock,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *product.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.UnitOfMeasure = p.UnitOfMeasure
	m.UnitCost = p.UnitCost
	m.CurrentStock = p.CurrentStock
	m.MinimumStock = p.MinimumStock
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *product.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
