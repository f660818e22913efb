package manufacturing

import (
	"context"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// ManufacturingOrderRepository persists manufacturing orders
type ManufacturingOrderRepository interface {
	FindByID(ctx context.Context, id uint) (*ManufacturingOrder, error)
	// FindByIDWithWorkOrders loads the order together with its work orders
	FindByIDWithWorkOrders(ctx context.Context, id uint) (*ManufacturingOrder, error)
	FindByNumber(ctx context.Context, number string) (*ManufacturingOrder, error)
	// FindAll supports filters status, product_id and search on number
	FindAll(ctx context.Context, filter shared.Filter) ([]ManufacturingOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)
	Save(ctx context.Context, mo *ManufacturingOrder) error
}

// WorkOrderRepository persists work orders
type WorkOrderRepository interface {
	FindByID(ctx context.Context, id uint) (*WorkOrder, error)
	// FindAll supports filters manufacturing_order_id, work_center_id and status
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context) (map[WorkOrderStatus]int64, error)
	// CountCompletedSince counts work orders completed at or after since
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
	Save(ctx context.Context, wo *WorkOrder) error
	// SaveWithLock updates an existing work order whose stored version is wo.Version-1.
	// It returns shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, wo *WorkOrder) error
	Delete(ctx context.Context, id uint) error
}

// WorkCenterRepository persists work centers
type WorkCenterRepository interface {
	FindByID(ctx context.Context, id uint) (*WorkCenter, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkCenter, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, wc *WorkCenter) error
	Delete(ctx context.Context, id uint) error
}

// WorkOrderNoteRepository persists comments and issues of work orders
type WorkOrderNoteRepository interface {
	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, workOrderID uint) ([]Comment, error)
	CreateIssue(ctx context.Context, i *Issue) error
	FindIssue(ctx context.Context, id uint) (*Issue, error)
	SaveIssue(ctx context.Context, i *Issue) error
	ListIssues(ctx context.Context, workOrderID uint) ([]Issue, error)
}
