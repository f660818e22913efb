// Package production implements the work order completion workflow: consuming
// BOM components and producing finished goods in the stock ledger and the
// cached product counters.
package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// CompletionMode selects how stock movement failures are handled
type CompletionMode string

const (
	// ModeLegacy persists the completion first; later stock failures are logged and swallowed
	ModeLegacy CompletionMode = "legacy"
	// ModeStrict runs completion and all stock movements in one transaction
	ModeStrict CompletionMode = "strict"
)

// ParseCompletionMode maps a config value to a mode, defaulting to legacy
func ParseCompletionMode(s string) (CompletionMode, error) {
	switch CompletionMode(s) {
	case "", ModeLegacy:
		return ModeLegacy, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown completion mode %q", s)
}

// Completion outcomes reported to metrics
const (
	OutcomeStockApplied = "stock_applied"
	OutcomeNoBOM        = "no_bom"
	OutcomeStockFailed  = "stock_failed"
	OutcomeRolledBack   = "rolled_back"
)

// Metrics records completion outcomes
type Metrics interface {
	RecordCompletion(ctx context.Context, mode string, outcome string, elapsed time.Duration)
}

// CompleteRequest carries the optional completion details
type CompleteRequest struct {
	RealDuration *int   `json:"real_duration" binding:"omitempty,min=0"`
	Notes        string `json:"notes" binding:"max=1000"`
}

// Result is the outcome of a completion
type Result struct {
	WorkOrder    *manufacturing.WorkOrder
	OrderNumber  string
	Entries      []stock.LedgerEntry
	StockApplied bool
	// StockErr is the swallowed stock failure in legacy mode
	StockErr error
}

// plan is everything loaded and resolved before any stock write
type plan struct {
	order      *manufacturing.ManufacturingOrder
	finished   *product.Product
	components []plannedComponent
}

type plannedComponent struct {
	product  *product.Product
	quantity int64
}

// CompletionService completes work orders and moves stock accordingly
type CompletionService struct {
	workOrderRepo  manufacturing.WorkOrderRepository
	orderRepo      manufacturing.ManufacturingOrderRepository
	bomRepo        bom.BOMRepository
	productRepo    product.ProductRepository
	ledgerRepo     stock.LedgerRepository
	txScope        stockapp.TransactionScope
	mode           CompletionMode
	eventPublisher shared.EventPublisher
	metrics        Metrics
	logger         *zap.Logger
}

// NewCompletionService creates a CompletionService
func NewCompletionService(
	workOrderRepo manufacturing.WorkOrderRepository,
	orderRepo manufacturing.ManufacturingOrderRepository,
	bomRepo bom.BOMRepository,
	productRepo product.ProductRepository,
	ledgerRepo stock.LedgerRepository,
	txScope stockapp.TransactionScope,
	mode CompletionMode,
	logger *zap.Logger,
) *CompletionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{
		workOrderRepo: workOrderRepo,
		orderRepo:     orderRepo,
		bomRepo:       bomRepo,
		productRepo:   productRepo,
		ledgerRepo:    ledgerRepo,
		txScope:       txScope,
		mode:          mode,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CompletionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics recorder
func (s *CompletionService) SetMetrics(m Metrics) {
	s.metrics = m
}

// Mode returns the configured completion mode
func (s *CompletionService) Mode() CompletionMode {
	return s.mode
}

// Complete marks a STARTED or PAUSED work order COMPLETED, then consumes the BOM
// components of its manufacturing order and produces the finished product.
func (s *CompletionService) Complete(ctx context.Context, workOrderID uint, req CompleteRequest) (*Result, error) {
	started := time.Now()

	wo, err := s.workOrderRepo.FindByID(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	if err := wo.Complete(req.RealDuration, req.Notes); err != nil {
		return nil, err
	}

	var result *Result
	if s.mode == ModeStrict {
		result, err = s.completeStrict(ctx, wo)
	} else {
		result, err = s.completeLegacy(ctx, wo)
	}
	if err != nil {
		s.record(ctx, OutcomeRolledBack, started)
		return nil, err
	}

	switch {
	case result.StockErr != nil:
		s.record(ctx, OutcomeStockFailed, started)
	case !result.StockApplied:
		s.record(ctx, OutcomeNoBOM, started)
	default:
		s.record(ctx, OutcomeStockApplied, started)
	}
	return result, nil
}

func (s *CompletionService) completeLegacy(ctx context.Context, wo *manufacturing.WorkOrder) (*Result, error) {
	if err := s.workOrderRepo.SaveWithLock(ctx, wo); err != nil {
		return nil, surface(err)
	}
	result := &Result{WorkOrder: wo}

	p, err := s.buildPlan(ctx, wo)
	if err == nil && p != nil {
		result.OrderNumber = p.order.Number
		err = s.apply(ctx, s.productRepo, s.ledgerRepo, p, result)
	}
	if err != nil {
		// The work order stays COMPLETED; stock may be partially moved.
		result.StockErr = err
		s.logger.Error("Stock movement failed after work order completion",
			zap.Uint("work_order_id", wo.ID),
			zap.Uint("manufacturing_order_id", wo.ManufacturingOrderID),
			zap.String("order_number", result.OrderNumber),
			zap.Int("entries_written", len(result.Entries)),
			zap.Error(err),
		)
	}
	s.publishResult(ctx, p, result)
	return result, nil
}

func (s *CompletionService) completeStrict(ctx context.Context, wo *manufacturing.WorkOrder) (*Result, error) {
	p, err := s.buildPlan(ctx, wo)
	if err != nil {
		return nil, surface(err)
	}

	result := &Result{WorkOrder: wo}
	err = s.txScope.Execute(ctx, func(repos stockapp.TransactionalRepositories) error {
		if err := repos.WorkOrderRepo().SaveWithLock(ctx, wo); err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		result.OrderNumber = p.order.Number
		return s.apply(ctx, repos.ProductRepo(), repos.LedgerRepo(), p, result)
	})
	if err != nil {
		s.logger.Error("Work order completion rolled back",
			zap.Uint("work_order_id", wo.ID),
			zap.String("order_number", result.OrderNumber),
			zap.Error(err),
		)
		return nil, surface(err)
	}
	s.publishResult(ctx, p, result)
	return result, nil
}

// buildPlan loads the order, its BOM and the products involved and resolves
// absolute component quantities. A nil plan means no BOM is attached.
func (s *CompletionService) buildPlan(ctx context.Context, wo *manufacturing.WorkOrder) (*plan, error) {
	order, err := s.orderRepo.FindByID(ctx, wo.ManufacturingOrderID)
	if err != nil {
		return nil, fmt.Errorf("load manufacturing order %d: %w", wo.ManufacturingOrderID, err)
	}
	if !order.HasBOM() {
		return nil, nil
	}

	b, err := s.bomRepo.FindByID(ctx, *order.BOMID)
	if err != nil {
		return nil, fmt.Errorf("load bom %d: %w", *order.BOMID, err)
	}
	resolved, err := b.Resolve(order.Quantity)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(resolved)+1)
	ids = append(ids, order.ProductID)
	for _, r := range resolved {
		ids = append(ids, r.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	finished, ok := byID[order.ProductID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Sprintf("Finished product %d", order.ProductID))
	}
	p := &plan{order: order, finished: finished}
	for _, r := range resolved {
		cp, ok := byID[r.ProductID]
		if !ok {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Component product %d", r.ProductID))
		}
		units := r.Units()
		if units <= 0 {
			continue
		}
		p.components = append(p.components, plannedComponent{product: cp, quantity: units})
	}
	return p, nil
}

// apply writes one OUT per component and one IN for the finished product
func (s *CompletionService) apply(ctx context.Context, products product.ProductRepository, ledger stock.LedgerRepository, p *plan, result *Result) error {
	orderID := p.order.ID
	for _, c := range p.components {
		res, err := stockapp.WriteMovement(ctx, products, ledger, stockapp.Movement{
			Product:     c.product,
			Type:        stock.TransactionTypeOut,
			Quantity:    c.quantity,
			Reference:   p.order.Number,
			ReferenceID: &orderID,
		})
		if err != nil {
			return err
		}
		result.Entries = append(result.Entries, *res.Entry)
	}

	res, err := stockapp.WriteMovement(ctx, products, ledger, stockapp.Movement{
		Product:     p.finished,
		Type:        stock.TransactionTypeIn,
		Quantity:    p.order.Quantity,
		Reference:   p.order.Number,
		ReferenceID: &orderID,
	})
	if err != nil {
		return err
	}
	result.Entries = append(result.Entries, *res.Entry)
	result.StockApplied = true
	return nil
}

func (s *CompletionService) publishResult(ctx context.Context, p *plan, result *Result) {
	if s.eventPublisher == nil || p == nil || len(result.Entries) == 0 {
		return
	}

	byID := map[uint]*product.Product{p.finished.ID: p.finished}
	for _, c := range p.components {
		byID[c.product.ID] = c.product
	}

	events := make([]shared.DomainEvent, 0, len(result.Entries)+1)
	for i := range result.Entries {
		e := &result.Entries[i]
		prod := byID[e.ProductID]
		events = append(events, stockapp.StockEvents(prod, &stockapp.MovementResult{Entry: e, NewStock: prod.CurrentStock})...)
	}
	if result.StockApplied {
		events = append(events, manufacturing.NewProductionCompletedEvent(result.WorkOrder, p.order, len(p.components)))
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish completion events",
			zap.Uint("work_order_id", result.WorkOrder.ID),
			zap.Error(err),
		)
	}
}

func (s *CompletionService) record(ctx context.Context, outcome string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordCompletion(ctx, string(s.mode), outcome, time.Since(started))
}

// surface passes domain errors through and wraps everything else as a persistence failure
func surface(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	return persistenceFailure(err)
}

func persistenceFailure(err error) error {
	return fmt.Errorf("%w: %v", shared.ErrPersistenceFailure, err)
}
