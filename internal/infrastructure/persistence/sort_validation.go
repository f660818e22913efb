package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"type":          true,
	"unit_cost":     true,
	"current_stock": true,
	"minimum_stock": true,
}

// LedgerSortFields contains allowed sort fields for stock ledger entries
var LedgerSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
	"quantity":         true,
	"total_value":      true,
}

// OrderSortFields contains allowed sort fields for manufacturing orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"number":         true,
	"status":         true,
	"quantity":       true,
	"scheduled_date": true,
}

// WorkOrderSortFields contains allowed sort fields for work orders
var WorkOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"status":       true,
	"started_at":   true,
	"completed_at": true,
}

// WorkCenterSortFields contains allowed sort fields for work centers
var WorkCenterSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
	"status":     true,
}

// AvailabilitySortFields contains allowed sort fields for component availability
var AvailabilitySortFields = map[string]bool{
	"id":           true,
	"product_id":   true,
	"available":    true,
	"reserved":     true,
	"last_updated": true,
}

// paginate applies whitelisted ordering and offset pagination
func paginate(query *gorm.DB, page, pageSize int, orderBy, orderDir string, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(orderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(orderDir))
	if field != "id" {
		query = query.Order("id " + ValidateSortOrder(orderDir))
	}
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	return query
}
