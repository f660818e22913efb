package manufacturing

import (
	"strings"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// Comment is a free-text remark on a work order
type Comment struct {
	shared.BaseEntity
	WorkOrderID uint
	AuthorID    *uint
	Body        string
}

// NewComment creates a comment
func NewComment(workOrderID uint, authorID *uint, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot be empty")
	}
	return &Comment{
		BaseEntity:  shared.NewBaseEntity(),
		WorkOrderID: workOrderID,
		AuthorID:    authorID,
		Body:        body,
	}, nil
}

// IssueSeverity grades a reported issue
type IssueSeverity string

const (
	IssueSeverityLow      IssueSeverity = "LOW"
	IssueSeverityMedium   IssueSeverity = "MEDIUM"
	IssueSeverityHigh     IssueSeverity = "HIGH"
	IssueSeverityCritical IssueSeverity = "CRITICAL"
)

// IsValid returns true if the severity is known
func (s IssueSeverity) IsValid() bool {
	switch s {
	case IssueSeverityLow, IssueSeverityMedium, IssueSeverityHigh, IssueSeverityCritical:
		return true
	}
	return false
}

// Issue is a problem reported against a work order
type Issue struct {
	shared.BaseEntity
	WorkOrderID uint
	ReporterID  *uint
	Title       string
	Description string
	Severity    IssueSeverity
	ResolvedAt  *time.Time
}

// NewIssue creates an open issue
func NewIssue(workOrderID uint, reporterID *uint, title, description string, severity IssueSeverity) (*Issue, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_ISSUE", "Issue title cannot be empty")
	}
	if severity == "" {
		severity = IssueSeverityMedium
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_SEVERITY", "Invalid issue severity")
	}
	return &Issue{
		BaseEntity:  shared.NewBaseEntity(),
		WorkOrderID: workOrderID,
		ReporterID:  reporterID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Severity:    severity,
	}, nil
}

// IsResolved returns true once the issue was resolved
func (i *Issue) IsResolved() bool {
	return i.ResolvedAt != nil
}

// Resolve closes the issue
func (i *Issue) Resolve() error {
	if i.IsResolved() {
		return shared.NewInvalidStateTransitionError("Issue is already resolved")
	}
	now := time.Now()
	i.ResolvedAt = &now
	i.Touch()
	return nil
}
