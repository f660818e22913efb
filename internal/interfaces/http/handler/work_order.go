package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	mfgapp "github.com/mfgerp/backend/internal/application/manufacturing"
	"github.com/mfgerp/backend/internal/application/production"
)

// WorkOrderHandler handles work order endpoints, including completion
type WorkOrderHandler struct {
	BaseHandler
	workOrderService *mfgapp.WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(workOrderService *mfgapp.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

// Create godoc
// @ID           createWorkOrder
// @Summary      Create a work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body mfgapp.CreateWorkOrderRequest true "Work order"
// @Success      201 {object} APIResponse[mfgapp.WorkOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /work-orders [post]
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req mfgapp.CreateWorkOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	wo, err := h.workOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wo)
}

// GetByID godoc
// @ID           getWorkOrder
// @Summary      Get a work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[mfgapp.WorkOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	wo, err := h.workOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// List godoc
// @ID           listWorkOrders
// @Summary      List work orders
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        manufacturing_order_id query int false "Manufacturing order"
// @Param        work_center_id query int false "Work center"
// @Param        status query string false "Status"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]mfgapp.WorkOrderResponse]
// @Router       /work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	var filter mfgapp.WorkOrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	list, total, err := h.workOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, size)
}

// Delete godoc
// @ID           deleteWorkOrder
// @Summary      Delete a work order
// @Tags         work-orders
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Router       /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.workOrderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Start godoc
// @ID           startWorkOrder
// @Summary      Start a work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[mfgapp.WorkOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /work-orders/{id}/start [post]
func (h *WorkOrderHandler) Start(c *gin.Context) {
	h.transition(c, h.workOrderService.Start)
}

// Pause godoc
// @ID           pauseWorkOrder
// @Summary      Pause a work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[mfgapp.WorkOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /work-orders/{id}/pause [post]
func (h *WorkOrderHandler) Pause(c *gin.Context) {
	h.transition(c, h.workOrderService.Pause)
}

// Cancel godoc
// @ID           cancelWorkOrder
// @Summary      Cancel a work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[mfgapp.WorkOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.workOrderService.Cancel)
}

// Complete godoc
// @ID           completeWorkOrder
// @Summary      Complete a work order
// @Description  Marks the work order COMPLETED, consumes the resolved BOM components and adds the finished product to stock.
// @Description  Send an Idempotency-Key header to make retries safe.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Param        Idempotency-Key header string false "Idempotency key"
// @Param        request body production.CompleteRequest false "Completion details"
// @Success      200 {object} APIResponse[mfgapp.CompletionResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /work-orders/{id}/complete [post]
func (h *WorkOrderHandler) Complete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req production.CompleteRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	res, err := h.workOrderService.Complete(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// AddComment godoc
// @ID           addWorkOrderComment
// @Summary      Comment on a work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Param        request body mfgapp.AddCommentRequest true "Comment"
// @Success      201 {object} APIResponse[mfgapp.CommentResponse]
// @Router       /work-orders/{id}/comments [post]
func (h *WorkOrderHandler) AddComment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req mfgapp.AddCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	comment, err := h.workOrderService.AddComment(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// ListComments godoc
// @ID           listWorkOrderComments
// @Summary      List work order comments
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[[]mfgapp.CommentResponse]
// @Router       /work-orders/{id}/comments [get]
func (h *WorkOrderHandler) ListComments(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	comments, err := h.workOrderService.ListComments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comments)
}

// AddIssue godoc
// @ID           addWorkOrderIssue
// @Summary      Report an issue on a work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Param        request body mfgapp.AddIssueRequest true "Issue"
// @Success      201 {object} APIResponse[mfgapp.IssueResponse]
// @Router       /work-orders/{id}/issues [post]
func (h *WorkOrderHandler) AddIssue(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req mfgapp.AddIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}
	issue, err := h.workOrderService.AddIssue(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, issue)
}

// ListIssues godoc
// @ID           listWorkOrderIssues
// @Summary      List work order issues
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Success      200 {object} APIResponse[[]mfgapp.IssueResponse]
// @Router       /work-orders/{id}/issues [get]
func (h *WorkOrderHandler) ListIssues(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	issues, err := h.workOrderService.ListIssues(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, issues)
}

// ResolveIssue godoc
// @ID           resolveWorkOrderIssue
// @Summary      Resolve a work order issue
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Work order ID"
// @Param        issueId path int true "Issue ID"
// @Success      200 {object} APIResponse[mfgapp.IssueResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /work-orders/{id}/issues/{issueId}/resolve [post]
func (h *WorkOrderHandler) ResolveIssue(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	issueID, ok := h.parseID(c, "issueId")
	if !ok {
		return
	}
	issue, err := h.workOrderService.ResolveIssue(c.Request.Context(), id, issueID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, issue)
}

func (h *WorkOrderHandler) transition(c *gin.Context, fn func(context.Context, uint) (*mfgapp.WorkOrderResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	wo, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}
