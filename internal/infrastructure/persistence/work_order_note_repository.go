package persistence

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWorkOrderNoteRepository persists work order comments and issues
type GormWorkOrderNoteRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderNoteRepository creates a new GormWorkOrderNoteRepository
func NewGormWorkOrderNoteRepository(db *gorm.DB) *GormWorkOrderNoteRepository {
	return &GormWorkOrderNoteRepository{db: db}
}

// CreateComment inserts a comment
func (r *GormWorkOrderNoteRepository) CreateComment(ctx context.Context, c *manufacturing.Comment) error {
	model := &models.WorkOrderCommentModel{}
	model.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	c.ID = model.ID
	return nil
}

// ListComments lists the comments of a work order, oldest first
func (r *GormWorkOrderNoteRepository) ListComments(ctx context.Context, workOrderID uint) ([]manufacturing.Comment, error) {
	var rows []models.WorkOrderCommentModel
	if err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]manufacturing.Comment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CreateIssue inserts an issue
func (r *GormWorkOrderNoteRepository) CreateIssue(ctx context.Context, i *manufacturing.Issue) error {
	model := &models.WorkOrderIssueModel{}
	model.FromDomain(i)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	i.ID = model.ID
	return nil
}

// FindIssue finds an issue by ID
func (r *GormWorkOrderNoteRepository) FindIssue(ctx context.Context, id uint) (*manufacturing.Issue, error) {
	var model models.WorkOrderIssueModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Issue")
	}
	return model.ToDomain(), nil
}

// SaveIssue updates an issue
func (r *GormWorkOrderNoteRepository) SaveIssue(ctx context.Context, i *manufacturing.Issue) error {
	model := &models.WorkOrderIssueModel{}
	model.FromDomain(i)
	return r.db.WithContext(ctx).Save(model).Error
}

// ListIssues lists the issues of a work order, oldest first
func (r *GormWorkOrderNoteRepository) ListIssues(ctx context.Context, workOrderID uint) ([]manufacturing.Issue, error) {
	var rows []models.WorkOrderIssueModel
	if err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]manufacturing.Issue, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Ensure GormWorkOrderNoteRepository implements WorkOrderNoteRepository
var _ manufacturing.WorkOrderNoteRepository = (*GormWorkOrderNoteRepository)(nil)
