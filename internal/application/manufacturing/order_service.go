package manufacturing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService manages manufacturing orders
type OrderService struct {
	orderRepo   manufacturing.ManufacturingOrderRepository
	productRepo product.ProductRepository
	bomRepo     bom.BOMRepository
	sequence    manufacturing.NumberSequence
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrderService creates an OrderService
func NewOrderService(
	orderRepo manufacturing.ManufacturingOrderRepository,
	productRepo product.ProductRepository,
	bomRepo bom.BOMRepository,
	sequence manufacturing.NumberSequence,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		bomRepo:     bomRepo,
		sequence:    sequence,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a DRAFT manufacturing order with the next number of the current period
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if err := s.checkBOM(ctx, req.ProductID, req.BOMID); err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.sequence.Next(ctx, manufacturing.SequencePeriod(now))
	if err != nil {
		return nil, fmt.Errorf("next manufacturing order number: %w", err)
	}

	mo, err := manufacturing.NewManufacturingOrder(manufacturing.FormatOrderNumber(now, seq), req.ProductID, req.Quantity, req.BOMID)
	if err != nil {
		return nil, err
	}
	mo.AssigneeID = req.AssigneeID
	mo.ScheduledDate = req.ScheduledDate
	mo.Notes = req.Notes

	if err := s.orderRepo.Save(ctx, mo); err != nil {
		return nil, err
	}
	s.logger.Info("Manufacturing order created",
		zap.Uint("manufacturing_order_id", mo.ID),
		zap.String("number", mo.Number),
		zap.Int64("quantity", mo.Quantity),
	)
	resp := ToOrderResponse(mo)
	return &resp, nil
}

// GetByID returns an order with its work orders
func (s *OrderService) GetByID(ctx context.Context, id uint) (*OrderResponse, error) {
	mo, err := s.orderRepo.FindByIDWithWorkOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(mo)
	return &resp, nil
}

// List lists manufacturing orders; DELETED orders are hidden unless asked for
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
		f.OrderDir = "desc"
	}
	f.Normalize()
	if filter.Status != "" {
		status := manufacturing.OrderStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid manufacturing order status")
		}
		f.Filters["status"] = status
	}
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Update changes planning fields of a DRAFT or CONFIRMED order
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*OrderResponse, error) {
	mo, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkBOM(ctx, mo.ProductID, req.BOMID); err != nil {
		return nil, err
	}
	if err := mo.Update(req.Quantity, req.BOMID, req.AssigneeID, req.ScheduledDate, req.Notes); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, mo); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(mo)
	return &resp, nil
}

// Confirm moves a DRAFT order to CONFIRMED
func (s *OrderService) Confirm(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, "confirm", (*manufacturing.ManufacturingOrder).Confirm)
}

// Start moves a CONFIRMED order to IN_PROGRESS
func (s *OrderService) Start(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, "start", (*manufacturing.ManufacturingOrder).Start)
}

// MarkToClose moves an IN_PROGRESS order to TO_CLOSE
func (s *OrderService) MarkToClose(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, "to_close", (*manufacturing.ManufacturingOrder).MarkToClose)
}

// Close closes an order
func (s *OrderService) Close(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, "close", (*manufacturing.ManufacturingOrder).Close)
}

// Cancel cancels a non-terminal order
func (s *OrderService) Cancel(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, "cancel", (*manufacturing.ManufacturingOrder).Cancel)
}

// Delete soft-deletes an order
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	_, err := s.transition(ctx, id, "delete", (*manufacturing.ManufacturingOrder).MarkDeleted)
	return err
}

func (s *OrderService) transition(ctx context.Context, id uint, action string, fn func(*manufacturing.ManufacturingOrder) error) (*OrderResponse, error) {
	mo, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := mo.Status
	if err := fn(mo); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, mo); err != nil {
		return nil, err
	}
	s.logger.Info("Manufacturing order transitioned",
		zap.String("number", mo.Number),
		zap.String("action", action),
		zap.String("from", string(from)),
		zap.String("to", string(mo.Status)),
	)
	resp := ToOrderResponse(mo)
	return &resp, nil
}

// the BOM, when given, must exist and produce the order's product
func (s *OrderService) checkBOM(ctx context.Context, productID uint, bomID *uint) error {
	if bomID == nil || *bomID == 0 {
		return nil
	}
	b, err := s.bomRepo.FindByID(ctx, *bomID)
	if err != nil {
		return err
	}
	if b.ProductID != productID {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "BOM does not belong to the ordered product")
	}
	return nil
}
