package stock

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories that take
// part in stock movements. All repository operations inside fn are committed or
// rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() product.ProductRepository
	// LedgerRepo returns the stock ledger repository scoped to the current transaction
	LedgerRepo() stock.LedgerRepository
	// WorkOrderRepo returns the work order repository scoped to the current transaction
	WorkOrderRepo() manufacturing.WorkOrderRepository
}
