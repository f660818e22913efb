package bom

import (
	"context"
	"fmt"

	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service manages bills of materials and resolves them into absolute quantities
type Service struct {
	bomRepo     bom.BOMRepository
	productRepo product.ProductRepository
	logger      *zap.Logger
}

// NewService creates a BOM Service
func NewService(bomRepo bom.BOMRepository, productRepo product.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{bomRepo: bomRepo, productRepo: productRepo, logger: logger}
}

// Create creates a BOM. A second active BOM for the same product is rejected.
func (s *Service) Create(ctx context.Context, req CreateBOMRequest) (*BOMResponse, error) {
	if err := s.ensureProducts(ctx, req.ProductID, req.Components); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if active {
		exists, err := s.bomRepo.ExistsActiveForProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "An active BOM already exists for this product")
		}
	}

	b, err := bom.NewBillOfMaterial(req.ProductID, req.Version, req.Reference, active, toComponentInputs(req.Components))
	if err != nil {
		return nil, err
	}
	s.fillComponentCosts(ctx, b)

	if err := s.bomRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("BOM created", zap.Uint("bom_id", b.ID), zap.Uint("product_id", b.ProductID), zap.Int("components", len(b.Components)))
	resp := ToBOMResponse(b)
	return &resp, nil
}

// Update rewrites a BOM, replacing all components
func (s *Service) Update(ctx context.Context, id uint, req UpdateBOMRequest) (*BOMResponse, error) {
	b, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProducts(ctx, b.ProductID, req.Components); err != nil {
		return nil, err
	}
	if err := b.Update(req.Version, req.Reference, toComponentInputs(req.Components)); err != nil {
		return nil, err
	}
	s.fillComponentCosts(ctx, b)
	if err := s.bomRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBOMResponse(b)
	return &resp, nil
}

// GetByID returns one BOM with components
func (s *Service) GetByID(ctx context.Context, id uint) (*BOMResponse, error) {
	b, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBOMResponse(b)
	s.attachProductNames(ctx, &resp)
	return &resp, nil
}

// List lists BOMs
func (s *Service) List(ctx context.Context, filter BOMListFilter) ([]BOMResponse, int64, error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "created_at", OrderDir: "desc"}
	f.Normalize()
	if filter.ProductID != nil {
		f.Filters["product_id"] = *filter.ProductID
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	boms, err := s.bomRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bomRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BOMResponse, len(boms))
	for i := range boms {
		out[i] = ToBOMResponse(&boms[i])
	}
	return out, total, nil
}

// Delete removes a BOM and its components
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.bomRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.bomRepo.Delete(ctx, id)
}

// Activate marks a BOM active without re-checking other active BOMs of the product
func (s *Service) Activate(ctx context.Context, id uint) (*BOMResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a BOM inactive
func (s *Service) Deactivate(ctx context.Context, id uint) (*BOMResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id uint, active bool) (*BOMResponse, error) {
	b, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		b.Activate()
	} else {
		b.Deactivate()
	}
	if err := s.bomRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBOMResponse(b)
	return &resp, nil
}

// Resolve returns the absolute component quantities for n units of output
func (s *Service) Resolve(ctx context.Context, id uint, n int64) (*ResolutionResponse, error) {
	b, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resolved, err := b.Resolve(n)
	if err != nil {
		return nil, err
	}
	out := &ResolutionResponse{BOMID: b.ID, Quantity: n, Components: make([]ResolvedComponentResponse, len(resolved))}
	for i, r := range resolved {
		out.Components[i] = ResolvedComponentResponse{
			ProductID:     r.ProductID,
			UnitOfMeasure: r.UnitOfMeasure,
			PerUnit:       r.PerUnit,
			Quantity:      r.Quantity,
			Units:         r.Units(),
			UnitCost:      r.UnitCost,
			TotalCost:     r.Quantity.Mul(r.UnitCost),
		}
	}
	return out, nil
}

// Cost returns the component cost of one unit of output
func (s *Service) Cost(ctx context.Context, id uint) (decimal.Decimal, error) {
	b, err := s.bomRepo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return b.TotalCost(), nil
}

func (s *Service) ensureProducts(ctx context.Context, productID uint, components []ComponentRequest) error {
	ids := make([]uint, 0, len(components)+1)
	ids = append(ids, productID)
	for _, c := range components {
		ids = append(ids, c.ProductID)
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uint]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return shared.NewNotFoundError(fmt.Sprintf("Product %d", id))
		}
	}
	return nil
}

// components without an explicit cost or unit take them from the product
func (s *Service) fillComponentCosts(ctx context.Context, b *bom.BillOfMaterial) {
	ids := make([]uint, len(b.Components))
	for i, c := range b.Components {
		ids[i] = c.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Could not load component products for cost defaults", zap.Error(err))
		return
	}
	byID := make(map[uint]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range b.Components {
		p, ok := byID[b.Components[i].ProductID]
		if !ok {
			continue
		}
		if b.Components[i].UnitCost.IsZero() {
			b.Components[i].UnitCost = p.UnitCost
		}
		if b.Components[i].UnitOfMeasure == "" {
			b.Components[i].UnitOfMeasure = p.UnitOfMeasure
		}
	}
}

func (s *Service) attachProductNames(ctx context.Context, resp *BOMResponse) {
	ids := make([]uint, len(resp.Components))
	for i, c := range resp.Components {
		ids[i] = c.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	for i := range resp.Components {
		resp.Components[i].ProductName = names[resp.Components[i].ProductID]
	}
}
