package models

import "github.com/mfgerp/backend/internal/domain/identity"

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'OPERATOR'"`
	IsActive     bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain User.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.IsActive = u.IsActive
}

// AllModels lists every persisted model, in dependency order, for auto-migration in tests
func AllModels() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&LedgerEntryModel{},
		&BOMModel{},
		&BOMComponentModel{},
		&WorkCenterModel{},
		&ManufacturingOrderModel{},
		&WorkOrderModel{},
		&WorkOrderCommentModel{},
		&WorkOrderIssueModel{},
		&OrderSequenceModel{},
		&ComponentAvailabilityModel{},
	}
}
