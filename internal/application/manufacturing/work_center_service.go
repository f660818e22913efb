package manufacturing

import (
	"context"
	"strings"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
)

// WorkCenterService manages work centers
type WorkCenterService struct {
	repo manufacturing.WorkCenterRepository
}

// NewWorkCenterService creates a WorkCenterService
func NewWorkCenterService(repo manufacturing.WorkCenterRepository) *WorkCenterService {
	return &WorkCenterService{repo: repo}
}

// Create creates a work center with a unique name
func (s *WorkCenterService) Create(ctx context.Context, req WorkCenterRequest) (*WorkCenterResponse, error) {
	exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Work center name already exists")
	}
	wc, err := manufacturing.NewWorkCenter(req.Name, req.Capacity, req.CostPerHour)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		status := manufacturing.WorkCenterStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid work center status")
		}
		wc.Status = status
	}
	if err := s.repo.Save(ctx, wc); err != nil {
		return nil, err
	}
	resp := ToWorkCenterResponse(wc)
	return &resp, nil
}

// GetByID returns a work center
func (s *WorkCenterService) GetByID(ctx context.Context, id uint) (*WorkCenterResponse, error) {
	wc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkCenterResponse(wc)
	return &resp, nil
}

// List lists work centers
func (s *WorkCenterService) List(ctx context.Context, filter WorkCenterListFilter) ([]WorkCenterResponse, int64, error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Search: filter.Search, OrderBy: "name", OrderDir: "asc"}
	f.Normalize()
	if filter.Status != "" {
		f.Filters["status"] = strings.ToUpper(filter.Status)
	}
	centers, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WorkCenterResponse, len(centers))
	for i := range centers {
		out[i] = ToWorkCenterResponse(&centers[i])
	}
	return out, total, nil
}

// Update updates a work center
func (s *WorkCenterService) Update(ctx context.Context, id uint, req WorkCenterRequest) (*WorkCenterResponse, error) {
	wc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name != wc.Name {
		exists, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Work center name already exists")
		}
	}
	status := wc.Status
	if req.Status != "" {
		status = manufacturing.WorkCenterStatus(req.Status)
	}
	if err := wc.Update(name, req.Capacity, req.CostPerHour, status); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, wc); err != nil {
		return nil, err
	}
	resp := ToWorkCenterResponse(wc)
	return &resp, nil
}

// Delete deletes a work center
func (s *WorkCenterService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
