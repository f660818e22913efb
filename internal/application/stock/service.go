package stock

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// Service handles stock ledger writes and the two stock read paths:
// the cached product counter and ledger replay.
type Service struct {
	productRepo    product.ProductRepository
	ledgerRepo     stock.LedgerRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	exporter       LedgerExporter
	store          ObjectStore
	logger         *zap.Logger
}

// NewService creates a new stock Service
func NewService(
	productRepo product.ProductRepository,
	ledgerRepo stock.LedgerRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetExport wires the ledger exporter and the object store exports are written to
func (s *Service) SetExport(exporter LedgerExporter, store ObjectStore) {
	s.exporter = exporter
	s.store = store
}

// RecordMovement appends a ledger entry and updates the product's cached stock in one transaction
func (s *Service) RecordMovement(ctx context.Context, req RecordMovementRequest) (*LedgerEntryResponse, error) {
	p, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var result *MovementResult
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var werr error
		result, werr = WriteMovement(ctx, repos.ProductRepo(), repos.LedgerRepo(), Movement{
			Product:   p,
			Type:      stock.TransactionType(req.TransactionType),
			Quantity:  req.Quantity,
			UnitCost:  req.UnitCost,
			Reference: req.Reference,
			Notes:     req.Notes,
		})
		return werr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, StockEvents(p, result)...)
	resp := ToLedgerEntryResponse(result.Entry)
	return &resp, nil
}

// StockEvents builds the events announcing a written movement
func StockEvents(p *product.Product, result *MovementResult) []shared.DomainEvent {
	events := []shared.DomainEvent{
		stock.NewStockChangedEvent(p.ID, p.Name, result.Entry.TransactionType, result.Entry.Quantity, result.NewStock, result.Entry.Reference),
	}
	if p.IsLowStock() {
		events = append(events, stock.NewStockBelowMinimumEvent(p.ID, p.Name, p.CurrentStock, p.MinimumStock))
	}
	return events
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish stock events", zap.Error(err))
	}
}

// GetStockByProduct returns the cached counter, the replayed stock and the full history
func (s *Service) GetStockByProduct(ctx context.Context, productID uint) (*ProductStockResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	points := stock.Replay(entries)
	history := make([]HistoryEntryResponse, len(points))
	var replayed int64
	for i, pt := range points {
		history[i] = HistoryEntryResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(&pt.Entry),
			RunningStock:        pt.RunningStock,
		}
		replayed = pt.RunningStock
	}

	return &ProductStockResponse{
		ProductID:     p.ID,
		ProductName:   p.Name,
		UnitOfMeasure: p.UnitOfMeasure,
		CurrentStock:  p.CurrentStock,
		ReplayedStock: replayed,
		Consistent:    replayed == p.CurrentStock,
		History:       history,
	}, nil
}

// ListLedger lists ledger entries with filtering and pagination
func (s *Service) ListLedger(ctx context.Context, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	lf := stock.LedgerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "transaction_date",
			OrderDir: filter.OrderDir,
		},
		ProductID: filter.ProductID,
		Reference: filter.Reference,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	lf.Normalize()
	if filter.TransactionType != "" {
		t := stock.TransactionType(filter.TransactionType)
		lf.TransactionType = &t
	}

	entries, total, err := s.ledgerRepo.FindAll(ctx, lf)
	if err != nil {
		return nil, 0, err
	}
	return ToLedgerEntryResponses(entries), total, nil
}

// GetLedgerEntry returns one ledger entry
func (s *Service) GetLedgerEntry(ctx context.Context, id uint) (*LedgerEntryResponse, error) {
	e, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(e)
	return &resp, nil
}

// UpdateLedgerEntry corrects an entry. The product's cached stock is left as is,
// so a correction shows up as drift in the consistency check.
func (s *Service) UpdateLedgerEntry(ctx context.Context, id uint, req UpdateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	e, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Correct(stock.TransactionType(req.TransactionType), req.Quantity, req.UnitCost, req.Reference, req.Notes); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Ledger entry corrected",
		zap.Uint("entry_id", e.ID),
		zap.Uint("product_id", e.ProductID),
	)
	resp := ToLedgerEntryResponse(e)
	return &resp, nil
}

// DeleteLedgerEntry removes an entry without touching cached stock
func (s *Service) DeleteLedgerEntry(ctx context.Context, id uint) error {
	if _, err := s.ledgerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ledgerRepo.Delete(ctx, id)
}

// CheckConsistency compares one product's cached stock with its ledger replay
func (s *Service) CheckConsistency(ctx context.Context, productID uint) (*ConsistencyResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := ToConsistencyResponse(stock.CheckConsistency(p.ID, p.Name, p.CurrentStock, entries))
	return &resp, nil
}

// CheckAllConsistency runs the consistency check over every product
func (s *Service) CheckAllConsistency(ctx context.Context) (*ConsistencySummaryResponse, error) {
	summary := &ConsistencySummaryResponse{Products: make([]ConsistencyResponse, 0)}

	filter := shared.Filter{Page: 1, PageSize: 100, OrderBy: "id", OrderDir: "asc"}
	for {
		products, err := s.productRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for i := range products {
			p := &products[i]
			entries, err := s.ledgerRepo.FindByProduct(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			report := stock.CheckConsistency(p.ID, p.Name, p.CurrentStock, entries)
			summary.Checked++
			if !report.IsConsistent() {
				summary.Inconsistent++
				summary.Products = append(summary.Products, ToConsistencyResponse(report))
			}
		}
		if len(products) < filter.PageSize {
			break
		}
		filter.Page++
	}

	if summary.Inconsistent > 0 {
		s.logger.Warn("Stock cache drift detected",
			zap.Int("checked", summary.Checked),
			zap.Int("inconsistent", summary.Inconsistent),
		)
	}
	return summary, nil
}
