// Package availability tracks reservable component quantities, independently
// of the cached product stock and the stock ledger.
package availability

import (
	"context"
	"errors"

	"github.com/mfgerp/backend/internal/domain/availability"
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// Service maintains component availability rows
type Service struct {
	repo      availability.Repository
	bomRepo   bom.BOMRepository
	orderRepo manufacturing.ManufacturingOrderRepository
	logger    *zap.Logger
}

// NewService creates an availability Service
func NewService(
	repo availability.Repository,
	bomRepo bom.BOMRepository,
	orderRepo manufacturing.ManufacturingOrderRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, bomRepo: bomRepo, orderRepo: orderRepo, logger: logger}
}

// UpdateAvailability applies an IN or OUT movement, creating the row on first use
func (s *Service) UpdateAvailability(ctx context.Context, req MovementRequest) (*AvailabilityResponse, error) {
	row, err := s.rowFor(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := row.ApplyMovement(stock.TransactionType(req.TransactionType), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}
	resp := ToAvailabilityResponse(row)
	return &resp, nil
}

// ReserveComponents reserves every component of the order's BOM in component
// order. The first shortfall aborts with INSUFFICIENT_STOCK; components reserved
// before it stay reserved.
func (s *Service) ReserveComponents(ctx context.Context, orderID uint) (*ReservationResponse, error) {
	mo, resolved, err := s.resolveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	out := &ReservationResponse{ManufacturingOrderID: mo.ID}
	for _, r := range resolved {
		required := r.Units()
		row, err := s.rowFor(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		if err := row.Reserve(required); err != nil {
			s.logger.Warn("Component reservation short",
				zap.String("order_number", mo.Number),
				zap.Uint("product_id", r.ProductID),
				zap.Int64("required", required),
				zap.Int64("available", row.Available),
				zap.Int("reserved_before_failure", len(out.Rows)),
			)
			return nil, err
		}
		if err := s.repo.Save(ctx, row); err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, ToAvailabilityResponse(row))
	}
	return out, nil
}

// ReleaseReservation returns reserved quantities of the order's BOM to available
func (s *Service) ReleaseReservation(ctx context.Context, orderID uint) (*ReservationResponse, error) {
	mo, resolved, err := s.resolveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	out := &ReservationResponse{ManufacturingOrderID: mo.ID}
	for _, r := range resolved {
		row, err := s.repo.FindByProduct(ctx, r.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		row.Release(r.Units())
		if err := s.repo.Save(ctx, row); err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, ToAvailabilityResponse(row))
	}
	return out, nil
}

// CheckAvailability reports, without mutating, whether quantity units of the
// BOM's product could be reserved
func (s *Service) CheckAvailability(ctx context.Context, bomID uint, quantity int64) (*CheckResponse, error) {
	b, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}
	resolved, err := b.Resolve(quantity)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(resolved))
	for i, r := range resolved {
		ids[i] = r.ProductID
	}
	rows, err := s.repo.FindByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &CheckResponse{BOMID: b.ID, Quantity: quantity, Sufficient: true}
	for _, r := range resolved {
		var available int64
		if row, ok := rows[r.ProductID]; ok {
			available = row.Available
		}
		check := availability.NewComponentCheck(r.ProductID, r.Units(), available)
		if !check.Sufficient() {
			out.Sufficient = false
		}
		out.Components = append(out.Components, toCheckResponse(check))
	}
	return out, nil
}

// Get returns the row of one product
func (s *Service) Get(ctx context.Context, productID uint) (*AvailabilityResponse, error) {
	row, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := ToAvailabilityResponse(row)
	return &resp, nil
}

// List lists availability rows
func (s *Service) List(ctx context.Context, filter ListFilter) ([]AvailabilityResponse, int64, error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "product_id", OrderDir: "asc"}
	f.Normalize()
	rows, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AvailabilityResponse, len(rows))
	for i := range rows {
		out[i] = ToAvailabilityResponse(&rows[i])
	}
	return out, total, nil
}

func (s *Service) rowFor(ctx context.Context, productID uint) (*availability.ComponentAvailability, error) {
	row, err := s.repo.FindByProduct(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return availability.NewComponentAvailability(productID), nil
	}
	return row, err
}

func (s *Service) resolveOrder(ctx context.Context, orderID uint) (*manufacturing.ManufacturingOrder, []bom.ResolvedComponent, error) {
	mo, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !mo.HasBOM() {
		return nil, nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Manufacturing order has no BOM")
	}
	b, err := s.bomRepo.FindByID(ctx, *mo.BOMID)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := b.Resolve(mo.Quantity)
	if err != nil {
		return nil, nil, err
	}
	return mo, resolved, nil
}
