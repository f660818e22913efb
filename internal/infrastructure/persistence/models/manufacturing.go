package models

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/shopspring/decimal"
)

// ManufacturingOrderModel is the persistence model for the ManufacturingOrder aggregate root.
type ManufacturingOrderModel struct {
	AggregateModel
	Number        string                    `gorm:"type:varchar(30);not null;uniqueIndex"`
	ProductID     uint                      `gorm:"not null;index"`
	Quantity      int64                     `gorm:"not null"`
	BOMID         *uint                     `gorm:"column:bom_id;index"`
	AssigneeID    *uint                     `gorm:"index"`
	Status        manufacturing.OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ScheduledDate *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	Notes         string           `gorm:"type:text"`
	WorkOrders    []WorkOrderModel `gorm:"foreignKey:ManufacturingOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ManufacturingOrderModel) TableName() string {
	return "manufacturing_orders"
}

// ToDomain converts the persistence model to a domain ManufacturingOrder.
func (m *ManufacturingOrderModel) ToDomain() *manufacturing.ManufacturingOrder {
	mo := &manufacturing.ManufacturingOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		BOMID:             m.BOMID,
		AssigneeID:        m.AssigneeID,
		Status:            m.Status,
		ScheduledDate:     m.ScheduledDate,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Notes:             m.Notes,
	}
	if len(m.WorkOrders) > 0 {
		mo.WorkOrders = make([]manufacturing.WorkOrder, len(m.WorkOrders))
		for i := range m.WorkOrders {
			mo.WorkOrders[i] = *m.WorkOrders[i].ToDomain()
		}
	}
	return mo
}

// FromDomain populates the persistence model from a domain ManufacturingOrder.
// Work orders are persisted through their own repository and are not copied.
func (m *ManufacturingOrderModel) FromDomain(mo *manufacturing.ManufacturingOrder) {
	m.FromDomainAggregateRoot(mo.BaseAggregateRoot)
	m.Number = mo.Number
	m.ProductID = mo.ProductID
	m.Quantity = mo.Quantity
	m.BOMID = mo.BOMID
	m.AssigneeID = mo.AssigneeID
	m.Status = mo.Status
	m.ScheduledDate = mo.ScheduledDate
	m.StartDate = mo.StartDate
	m.EndDate = mo.EndDate
	m.Notes = mo.Notes
}

// WorkOrderModel is the persistence model for the WorkOrder aggregate root.
type WorkOrderModel struct {
	AggregateModel
	ManufacturingOrderID uint                          `gorm:"not null;index"`
	WorkCenterID         uint                          `gorm:"not null;index"`
	Operation            string                        `gorm:"type:varchar(200);not null"`
	ExpectedDuration     int                           `gorm:"not null;default:0"`
	RealDuration         int                           `gorm:"not null;default:0"`
	Status               manufacturing.WorkOrderStatus `gorm:"type:varchar(20);not null;default:'PLANNED';index"`
	AssigneeID           *uint                         `gorm:"index"`
	StartedAt            *time.Time
	CompletedAt          *time.Time `gorm:"index"`
	Notes                string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WorkOrderModel) TableName() string {
	return "work_orders"
}

// ToDomain converts the persistence model to a domain WorkOrder.
func (m *WorkOrderModel) ToDomain() *manufacturing.WorkOrder {
	return &manufacturing.WorkOrder{
		BaseAggregateRoot:    m.ToDomainAggregateRoot(),
		ManufacturingOrderID: m.ManufacturingOrderID,
		WorkCenterID:         m.WorkCenterID,
		Operation:            m.Operation,
		ExpectedDuration:     m.ExpectedDuration,
		RealDuration:         m.RealDuration,
		Status:               m.Status,
		AssigneeID:           m.AssigneeID,
		StartedAt:            m.StartedAt,
		CompletedAt:          m.CompletedAt,
		Notes:                m.Notes,
	}
}

// FromDomain populates the persistence model from a domain WorkOrder.
func (m *WorkOrderModel) FromDomain(wo *manufacturing.WorkOrder) {
	m.FromDomainAggregateRoot(wo.BaseAggregateRoot)
	m.ManufacturingOrderID = wo.ManufacturingOrderID
	m.WorkCenterID = wo.WorkCenterID
	m.Operation = wo.Operation
	m.ExpectedDuration = wo.ExpectedDuration
	m.RealDuration = wo.RealDuration
	m.Status = wo.Status
	m.AssigneeID = wo.AssigneeID
	m.StartedAt = wo.StartedAt
	m.CompletedAt = wo.CompletedAt
	m.Notes = wo.Notes
}

// WorkCenterModel is the persistence model for the WorkCenter aggregate root.
type WorkCenterModel struct {
	AggregateModel
	Name        string                         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Capacity    decimal.Decimal                `gorm:"type:decimal(10,2);not null;default:0"`
	CostPerHour decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	Status      manufacturing.WorkCenterStatus `gorm:"type:varchar(30);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (WorkCenterModel) TableName() string {
	return "work_centers"
}

// ToDomain converts the persistence model to a domain WorkCenter.
func (m *WorkCenterModel) ToDomain() *manufacturing.WorkCenter {
	return &manufacturing.WorkCenter{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Capacity:          m.Capacity,
		CostPerHour:       m.CostPerHour,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain WorkCenter.
func (m *WorkCenterModel) FromDomain(wc *manufacturing.WorkCenter) {
	m.FromDomainAggregateRoot(wc.BaseAggregateRoot)
	m.Name = wc.Name
	m.Capacity = wc.Capacity
	m.CostPerHour = wc.CostPerHour
	m.Status = wc.Status
}

// WorkOrderCommentModel is the persistence model for work order comments.
type WorkOrderCommentModel struct {
	BaseModel
	WorkOrderID uint   `gorm:"not null;index"`
	AuthorID    *uint  `gorm:"index"`
	Body        string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (WorkOrderCommentModel) TableName() string {
	return "work_order_comments"
}

// ToDomain converts the persistence model to a domain Comment.
func (m *WorkOrderCommentModel) ToDomain() *manufacturing.Comment {
	return &manufacturing.Comment{
		BaseEntity:  m.BaseModel.ToDomain(),
		WorkOrderID: m.WorkOrderID,
		AuthorID:    m.AuthorID,
		Body:        m.Body,
	}
}

// FromDomain populates the persistence model from a domain Comment.
func (m *WorkOrderCommentModel) FromDomain(c *manufacturing.Comment) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.WorkOrderID = c.WorkOrderID
	m.AuthorID = c.AuthorID
	m.Body = c.Body
}

// WorkOrderIssueModel is the persistence model for issues reported on work orders.
type WorkOrderIssueModel struct {
	BaseModel
	WorkOrderID uint                        `gorm:"not null;index"`
	ReporterID  *uint                       `gorm:"index"`
	Title       string                      `gorm:"type:varchar(200);not null"`
	Description string                      `gorm:"type:text"`
	Severity    manufacturing.IssueSeverity `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (WorkOrderIssueModel) TableName() string {
	return "work_order_issues"
}

// ToDomain converts the persistence model to a domain Issue.
func (m *WorkOrderIssueModel) ToDomain() *manufacturing.Issue {
	return &manufacturing.Issue{
		BaseEntity:  m.BaseModel.ToDomain(),
		WorkOrderID: m.WorkOrderID,
		ReporterID:  m.ReporterID,
		Title:       m.Title,
		Description: m.Description,
		Severity:    m.Severity,
		ResolvedAt:  m.ResolvedAt,
	}
}

// FromDomain populates the persistence model from a domain Issue.
func (m *WorkOrderIssueModel) FromDomain(i *manufacturing.Issue) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.WorkOrderID = i.WorkOrderID
	m.ReporterID = i.ReporterID
	m.Title = i.Title
	m.Description = i.Description
	m.Severity = i.Severity
	m.ResolvedAt = i.ResolvedAt
}

// OrderSequenceModel holds the last manufacturing order number handed out per period.
type OrderSequenceModel struct {
	Period    string `gorm:"type:varchar(6);primaryKey"`
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (OrderSequenceModel) TableName() string {
	return "mo_sequences"
}
