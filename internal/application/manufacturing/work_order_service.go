package manufacturing

import (
	"context"
	"strings"

	"github.com/mfgerp/backend/internal/application/production"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WorkOrderService manages work orders and their notes. Completion is
// delegated to the production completion workflow.
type WorkOrderService struct {
	workOrderRepo  manufacturing.WorkOrderRepository
	orderRepo      manufacturing.ManufacturingOrderRepository
	workCenterRepo manufacturing.WorkCenterRepository
	noteRepo       manufacturing.WorkOrderNoteRepository
	completion     *production.CompletionService
	logger         *zap.Logger
}

// NewWorkOrderService creates a WorkOrderService
func NewWorkOrderService(
	workOrderRepo manufacturing.WorkOrderRepository,
	orderRepo manufacturing.ManufacturingOrderRepository,
	workCenterRepo manufacturing.WorkCenterRepository,
	noteRepo manufacturing.WorkOrderNoteRepository,
	completion *production.CompletionService,
	logger *zap.Logger,
) *WorkOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkOrderService{
		workOrderRepo:  workOrderRepo,
		orderRepo:      orderRepo,
		workCenterRepo: workCenterRepo,
		noteRepo:       noteRepo,
		completion:     completion,
		logger:         logger,
	}
}

// Create creates a work order under a manufacturing order
func (s *WorkOrderService) Create(ctx context.Context, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	mo, err := s.orderRepo.FindByID(ctx, req.ManufacturingOrderID)
	if err != nil {
		return nil, err
	}
	if mo.Status.IsTerminal() {
		return nil, shared.NewInvalidStateTransitionError("Cannot add work orders to a " + string(mo.Status) + " manufacturing order")
	}
	if _, err := s.workCenterRepo.FindByID(ctx, req.WorkCenterID); err != nil {
		return nil, err
	}

	wo, err := manufacturing.NewWorkOrder(mo.ID, req.WorkCenterID, req.Operation, req.ExpectedDuration)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		status, err := manufacturing.ParseWorkOrderStatus(req.Status)
		if err != nil {
			return nil, err
		}
		wo.Status = status
	}
	wo.AssigneeID = req.AssigneeID

	if err := s.workOrderRepo.Save(ctx, wo); err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// GetByID returns a work order
func (s *WorkOrderService) GetByID(ctx context.Context, id uint) (*WorkOrderResponse, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}

// List lists work orders; the status filter accepts legacy aliases
func (s *WorkOrderService) List(ctx context.Context, filter WorkOrderListFilter) ([]WorkOrderResponse, int64, error) {
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "id", OrderDir: "asc"}
	f.Normalize()
	if filter.ManufacturingOrderID != nil {
		f.Filters["manufacturing_order_id"] = *filter.ManufacturingOrderID
	}
	if filter.WorkCenterID != nil {
		f.Filters["work_center_id"] = *filter.WorkCenterID
	}
	if filter.Status != "" {
		status, err := manufacturing.ParseWorkOrderStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Filters["status"] = status
	}

	orders, err := s.workOrderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.workOrderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]WorkOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToWorkOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Start starts or resumes a work order
func (s *WorkOrderService) Start(ctx context.Context, id uint) (*WorkOrderResponse, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Start)
}

// Pause pauses a started work order
func (s *WorkOrderService) Pause(ctx context.Context, id uint) (*WorkOrderResponse, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Pause)
}

// Cancel cancels a work order that is not completed
func (s *WorkOrderService) Cancel(ctx context.Context, id uint) (*WorkOrderResponse, error) {
	return s.transition(ctx, id, (*manufacturing.WorkOrder).Cancel)
}

// Complete runs the production completion workflow for the work order
func (s *WorkOrderService) Complete(ctx context.Context, id uint, req production.CompleteRequest) (*CompletionResponse, error) {
	result, err := s.completion.Complete(ctx, id, req)
	if err != nil {
		return nil, err
	}
	resp := &CompletionResponse{
		WorkOrder:    ToWorkOrderResponse(result.WorkOrder),
		OrderNumber:  result.OrderNumber,
		StockApplied: result.StockApplied,
	}
	for _, e := range result.Entries {
		resp.LedgerEntryIDs = append(resp.LedgerEntryIDs, e.ID)
	}
	return resp, nil
}

// Delete removes a work order that never started
func (s *WorkOrderService) Delete(ctx context.Context, id uint) error {
	wo, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if wo.Status != manufacturing.WorkOrderStatusPlanned && wo.Status != manufacturing.WorkOrderStatusCancelled {
		return shared.NewInvalidStateTransitionError("Only PLANNED or CANCELLED work orders can be deleted")
	}
	return s.workOrderRepo.Delete(ctx, id)
}

// AddComment adds a comment to a work order
func (s *WorkOrderService) AddComment(ctx context.Context, workOrderID uint, authorID *uint, req AddCommentRequest) (*CommentResponse, error) {
	if _, err := s.workOrderRepo.FindByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	c, err := manufacturing.NewComment(workOrderID, authorID, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCommentResponse(c)
	return &resp, nil
}

// ListComments lists the comments of a work order, oldest first
func (s *WorkOrderService) ListComments(ctx context.Context, workOrderID uint) ([]CommentResponse, error) {
	if _, err := s.workOrderRepo.FindByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	comments, err := s.noteRepo.ListComments(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out, nil
}

// AddIssue reports an issue on a work order
func (s *WorkOrderService) AddIssue(ctx context.Context, workOrderID uint, reporterID *uint, req AddIssueRequest) (*IssueResponse, error) {
	if _, err := s.workOrderRepo.FindByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	issue, err := manufacturing.NewIssue(workOrderID, reporterID, req.Title, req.Description,
		manufacturing.IssueSeverity(strings.ToUpper(req.Severity)))
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.CreateIssue(ctx, issue); err != nil {
		return nil, err
	}
	s.logger.Info("Work order issue reported",
		zap.Uint("work_order_id", workOrderID),
		zap.String("severity", string(issue.Severity)),
	)
	resp := ToIssueResponse(issue)
	return &resp, nil
}

// ResolveIssue resolves an open issue
func (s *WorkOrderService) ResolveIssue(ctx context.Context, workOrderID, issueID uint) (*IssueResponse, error) {
	issue, err := s.noteRepo.FindIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.WorkOrderID != workOrderID {
		return nil, shared.NewNotFoundError("Issue")
	}
	if err := issue.Resolve(); err != nil {
		return nil, err
	}
	if err := s.noteRepo.SaveIssue(ctx, issue); err != nil {
		return nil, err
	}
	resp := ToIssueResponse(issue)
	return &resp, nil
}

// ListIssues lists the issues of a work order
func (s *WorkOrderService) ListIssues(ctx context.Context, workOrderID uint) ([]IssueResponse, error) {
	if _, err := s.workOrderRepo.FindByID(ctx, workOrderID); err != nil {
		return nil, err
	}
	issues, err := s.noteRepo.ListIssues(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	out := make([]IssueResponse, len(issues))
	for i := range issues {
		out[i] = ToIssueResponse(&issues[i])
	}
	return out, nil
}

func (s *WorkOrderService) transition(ctx context.Context, id uint, fn func(*manufacturing.WorkOrder) error) (*WorkOrderResponse, error) {
	wo, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(wo); err != nil {
		return nil, err
	}
	if err := s.workOrderRepo.SaveWithLock(ctx, wo); err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(wo)
	return &resp, nil
}
