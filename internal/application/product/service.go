package product

import (
	"context"
	"strings"

	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles product CRUD. It never writes current stock.
type Service struct {
	repo   product.ProductRepository
	logger *zap.Logger
}

// NewService creates a product Service
func NewService(repo product.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Create creates a product with a unique name
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Product name already exists")
	}

	p, err := product.NewProduct(req.Name, product.ProductType(req.Type), req.UnitOfMeasure, req.UnitCost)
	if err != nil {
		return nil, err
	}
	if err := p.SetMinimumStock(req.MinimumStock); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.Uint("product_id", p.ID), zap.String("name", p.Name))
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a product
func (s *Service) GetByID(ctx context.Context, id uint) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List lists products
func (s *Service) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}
	f.Normalize()
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	products, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates descriptive fields using optimistic locking
func (s *Service) Update(ctx context.Context, id uint, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != p.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	name := strings.TrimSpace(req.Name)
	if name != p.Name {
		exists, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Product name already exists")
		}
	}
	if err := p.Update(name, product.ProductType(req.Type), req.UnitOfMeasure, req.UnitCost); err != nil {
		return nil, err
	}
	if err := p.SetMinimumStock(req.MinimumStock); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete deletes a product
func (s *Service) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// LowStock lists products at or below their minimum stock
func (s *Service) LowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}
