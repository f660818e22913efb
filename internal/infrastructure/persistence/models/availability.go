package models

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/availability"
)

// ComponentAvailabilityModel is the persistence model for component availability rows.
type ComponentAvailabilityModel struct {
	BaseModel
	ProductID   uint  `gorm:"not null;uniqueIndex"`
	Available   int64 `gorm:"not null;default:0"`
	Reserved    int64 `gorm:"not null;default:0"`
	Incoming    int64 `gorm:"not null;default:0"`
	Outgoing    int64 `gorm:"not null;default:0"`
	LastUpdated time.Time
}

// TableName returns the table name for GORM
func (ComponentAvailabilityModel) TableName() string {
	return "component_availability"
}

// ToDomain converts the persistence model to a domain ComponentAvailability.
func (m *ComponentAvailabilityModel) ToDomain() *availability.ComponentAvailability {
	return &availability.ComponentAvailability{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProductID:   m.ProductID,
		Available:   m.Available,
		Reserved:    m.Reserved,
		Incoming:    m.Incoming,
		Outgoing:    m.Outgoing,
		LastUpdated: m.LastUpdated,
	}
}

// FromDomain populates the persistence model from a domain ComponentAvailability.
func (m *ComponentAvailabilityModel) FromDomain(c *availability.ComponentAvailability) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ProductID = c.ProductID
	m.Available = c.Available
	m.Reserved = c.Reserved
	m.Incoming = c.Incoming
	m.Outgoing = c.Outgoing
	m.LastUpdated = c.LastUpdated
}
