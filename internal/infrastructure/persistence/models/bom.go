package models

import (
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/shopspring/decimal"
)

// BOMModel is the persistence model for the BillOfMaterial aggregate root.
type BOMModel struct {
	AggregateModel
	ProductID  uint                `gorm:"not null;index"`
	Revision   string              `gorm:"column:version_label;type:varchar(20);not null;default:'1.0'"`
	Reference  string              `gorm:"type:varchar(100)"`
	IsActive   bool                `gorm:"not null;default:true;index"`
	Components []BOMComponentModel `gorm:"foreignKey:BOMID;references:ID"`
}

// TableName returns the table name for GORM
func (BOMModel) TableName() string {
	return "boms"
}

// ToDomain converts the persistence model to a domain BillOfMaterial.
func (m *BOMModel) ToDomain() *bom.BillOfMaterial {
	b := &bom.BillOfMaterial{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProductID:         m.ProductID,
		Revision:          m.Revision,
		Reference:         m.Reference,
		IsActive:          m.IsActive,
		Components:        make([]bom.Component, len(m.Components)),
	}
	for i := range m.Components {
		b.Components[i] = m.Components[i].ToDomain()
	}
	return b
}

// FromDomain populates the persistence model from a domain BillOfMaterial.
func (m *BOMModel) FromDomain(b *bom.BillOfMaterial) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ProductID = b.ProductID
	m.Revision = b.Revision
	m.Reference = b.Reference
	m.IsActive = b.IsActive
	m.Components = make([]BOMComponentModel, len(b.Components))
	for i := range b.Components {
		m.Components[i].FromDomain(&b.Components[i])
	}
}

// BOMModelFromDomain creates a new persistence model from a domain BillOfMaterial.
func BOMModelFromDomain(b *bom.BillOfMaterial) *BOMModel {
	m := &BOMModel{}
	m.FromDomain(b)
	return m
}

// BOMComponentModel is the persistence model for one BOM line.
type BOMComponentModel struct {
	BaseModel
	BOMID         uint            `gorm:"column:bom_id;not null;index"`
	ProductID     uint            `gorm:"not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitOfMeasure string          `gorm:"type:varchar(20)"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Sequence      int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BOMComponentModel) TableName() string {
	return "bom_components"
}

// ToDomain converts the persistence model to a domain Component.
func (m *BOMComponentModel) ToDomain() bom.Component {
	return bom.Component{
		BaseEntity:    m.BaseModel.ToDomain(),
		BOMID:         m.BOMID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		UnitOfMeasure: m.UnitOfMeasure,
		UnitCost:      m.UnitCost,
		Sequence:      m.Sequence,
	}
}

// FromDomain populates the persistence model from a domain Component.
func (m *BOMComponentModel) FromDomain(c *bom.Component) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.BOMID = c.BOMID
	m.ProductID = c.ProductID
	m.Quantity = c.Quantity
	m.UnitOfMeasure = c.UnitOfMeasure
	m.UnitCost = c.UnitCost
	m.Sequence = c.Sequence
}
