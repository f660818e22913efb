package manufacturing

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to create a manufacturing order
type CreateOrderRequest struct {
	ProductID     uint       `json:"product_id" binding:"required"`
	Quantity      int64      `json:"quantity" binding:"required,min=1"`
	BOMID         *uint      `json:"bom_id"`
	AssigneeID    *uint      `json:"assignee_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

// UpdateOrderRequest represents a request to update a manufacturing order
type UpdateOrderRequest struct {
	Quantity      int64      `json:"quantity" binding:"required,min=1"`
	BOMID         *uint      `json:"bom_id"`
	AssigneeID    *uint      `json:"assignee_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

// OrderListFilter represents filter options for manufacturing orders
type OrderListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	ProductID *uint  `form:"product_id"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderResponse represents a manufacturing order in API responses
type OrderResponse struct {
	ID            uint                `json:"id"`
	Number        string              `json:"number"`
	ProductID     uint                `json:"product_id"`
	Quantity      int64               `json:"quantity"`
	BOMID         *uint               `json:"bom_id,omitempty"`
	AssigneeID    *uint               `json:"assignee_id,omitempty"`
	Status        string              `json:"status"`
	ScheduledDate *time.Time          `json:"scheduled_date,omitempty"`
	StartDate     *time.Time          `json:"start_date,omitempty"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	WorkOrders    []WorkOrderResponse `json:"work_orders,omitempty"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateWorkOrderRequest represents a request to create a work order
type CreateWorkOrderRequest struct {
	ManufacturingOrderID uint   `json:"manufacturing_order_id" binding:"required"`
	WorkCenterID         uint   `json:"work_center_id" binding:"required"`
	Operation            string `json:"operation" binding:"required,min=1,max=200"`
	ExpectedDuration     int    `json:"expected_duration" binding:"min=0"`
	AssigneeID           *uint  `json:"assignee_id"`
	// Status is an optional initial status; legacy aliases are accepted
	Status string `json:"status"`
}

// WorkOrderListFilter represents filter options for work orders
type WorkOrderListFilter struct {
	ManufacturingOrderID *uint  `form:"manufacturing_order_id"`
	WorkCenterID         *uint  `form:"work_center_id"`
	Status               string `form:"status"`
	Page                 int    `form:"page" binding:"omitempty,min=1"`
	PageSize             int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WorkOrderResponse represents a work order in API responses
type WorkOrderResponse struct {
	ID                   uint       `json:"id"`
	ManufacturingOrderID uint       `json:"manufacturing_order_id"`
	WorkCenterID         uint       `json:"work_center_id"`
	Operation            string     `json:"operation"`
	ExpectedDuration     int        `json:"expected_duration"`
	RealDuration         int        `json:"real_duration"`
	Status               string     `json:"status"`
	AssigneeID           *uint      `json:"assignee_id,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Version              int        `json:"version"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CompletionResponse is the result of completing a work order
type CompletionResponse struct {
	WorkOrder      WorkOrderResponse `json:"work_order"`
	OrderNumber    string            `json:"order_number,omitempty"`
	StockApplied   bool              `json:"stock_applied"`
	LedgerEntryIDs []uint            `json:"ledger_entry_ids,omitempty"`
}

// AddCommentRequest represents a request to comment on a work order
type AddCommentRequest struct {
	Body string `json:"body" binding:"required,min=1,max=4000"`
}

// CommentResponse represents a work order comment
type CommentResponse struct {
	ID          uint      `json:"id"`
	WorkOrderID uint      `json:"work_order_id"`
	AuthorID    *uint     `json:"author_id,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddIssueRequest represents a request to report an issue on a work order
type AddIssueRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=4000"`
	Severity    string `json:"severity" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}

// IssueResponse represents a work order issue
type IssueResponse struct {
	ID          uint       `json:"id"`
	WorkOrderID uint       `json:"work_order_id"`
	ReporterID  *uint      `json:"reporter_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Severity    string     `json:"severity"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// WorkCenterRequest represents a request to create or update a work center
type WorkCenterRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Capacity    decimal.Decimal `json:"capacity"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	Status      string          `json:"status" binding:"omitempty,oneof=ACTIVE UNDER_MAINTENANCE INACTIVE"`
}

// WorkCenterListFilter represents filter options for work centers
type WorkCenterListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WorkCenterResponse represents a work center in API responses
type WorkCenterResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Capacity    decimal.Decimal `json:"capacity"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToOrderResponse converts a domain manufacturing order to a response
func ToOrderResponse(mo *manufacturing.ManufacturingOrder) OrderResponse {
	resp := OrderResponse{
		ID:            mo.ID,
		Number:        mo.Number,
		ProductID:     mo.ProductID,
		Quantity:      mo.Quantity,
		BOMID:         mo.BOMID,
		AssigneeID:    mo.AssigneeID,
		Status:        string(mo.Status),
		ScheduledDate: mo.ScheduledDate,
		StartDate:     mo.StartDate,
		EndDate:       mo.EndDate,
		Notes:         mo.Notes,
		Version:       mo.Version,
		CreatedAt:     mo.CreatedAt,
		UpdatedAt:     mo.UpdatedAt,
	}
	if len(mo.WorkOrders) > 0 {
		resp.WorkOrders = make([]WorkOrderResponse, len(mo.WorkOrders))
		for i := range mo.WorkOrders {
			resp.WorkOrders[i] = ToWorkOrderResponse(&mo.WorkOrders[i])
		}
	}
	return resp
}

// ToWorkOrderResponse converts a domain work order to a response
func ToWorkOrderResponse(wo *manufacturing.WorkOrder) WorkOrderResponse {
	return WorkOrderResponse{
		ID:                   wo.ID,
		ManufacturingOrderID: wo.ManufacturingOrderID,
		WorkCenterID:         wo.WorkCenterID,
		Operation:            wo.Operation,
		ExpectedDuration:     wo.ExpectedDuration,
		RealDuration:         wo.RealDuration,
		Status:               string(wo.Status),
		AssigneeID:           wo.AssigneeID,
		StartedAt:            wo.StartedAt,
		CompletedAt:          wo.CompletedAt,
		Notes:                wo.Notes,
		Version:              wo.Version,
		CreatedAt:            wo.CreatedAt,
		UpdatedAt:            wo.UpdatedAt,
	}
}

// ToCommentResponse converts a comment to a response
func ToCommentResponse(c *manufacturing.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		WorkOrderID: c.WorkOrderID,
		AuthorID:    c.AuthorID,
		Body:        c.Body,
		CreatedAt:   c.CreatedAt,
	}
}

// ToIssueResponse converts an issue to a response
func ToIssueResponse(i *manufacturing.Issue) IssueResponse {
	return IssueResponse{
		ID:          i.ID,
		WorkOrderID: i.WorkOrderID,
		ReporterID:  i.ReporterID,
		Title:       i.Title,
		Description: i.Description,
		Severity:    string(i.Severity),
		ResolvedAt:  i.ResolvedAt,
		CreatedAt:   i.CreatedAt,
	}
}

// ToWorkCenterResponse converts a work center to a response
func ToWorkCenterResponse(wc *manufacturing.WorkCenter) WorkCenterResponse {
	return WorkCenterResponse{
		ID:          wc.ID,
		Name:        wc.Name,
		Capacity:    wc.Capacity,
		CostPerHour: wc.CostPerHour,
		Status:      string(wc.Status),
		CreatedAt:   wc.CreatedAt,
		UpdatedAt:   wc.UpdatedAt,
	}
}
