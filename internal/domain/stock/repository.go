package stock

import (
	"context"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// LedgerFilter narrows ledger queries
type LedgerFilter struct {
	shared.Filter
	ProductID       *uint
	TransactionType *TransactionType
	Reference       string
	StartDate       *time.Time
	// EndDate is inclusive of its whole calendar day
	EndDate *time.Time
}

// LedgerRepository persists stock ledger entries
type LedgerRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uint) (*LedgerEntry, error)

	// FindAll finds ledger entries with filtering and pagination
	FindAll(ctx context.Context, filter LedgerFilter) ([]LedgerEntry, int64, error)

	// FindByProduct returns every entry of a product in chronological order
	FindByProduct(ctx context.Context, productID uint) ([]LedgerEntry, error)

	// FindByReference returns entries carrying the given reference
	FindByReference(ctx context.Context, reference string) ([]LedgerEntry, error)

	// CountSince counts entries of a type created since the given time
	CountSince(ctx context.Context, txType TransactionType, since time.Time) (int64, error)

	// Create appends an entry
	Create(ctx context.Context, entry *LedgerEntry) error

	// Update rewrites an entry (administrative correction only)
	Update(ctx context.Context, entry *LedgerEntry) error

	// Delete removes an entry (administrative correction only)
	Delete(ctx context.Context, id uint) error
}
