// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel (ID, timestamps, version)
//   - product.go: products and their cached current stock
//   - stock.go: the stock ledger
//   - bom.go: bills of materials and their components
//   - manufacturing.go: manufacturing orders, work orders, work centers, notes and number sequences
//   - availability.go: component availability rows
//   - identity.go: users
package models
