package Models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending        TaskStatus = "pending"
	StatusAwaitingAudit  TaskStatus = "awaiting_audit"
	StatusApproved       TaskStatus = "approved"
	StatusWrongExecution TaskStatus = "wrong_execution"
	StatusNotDone        TaskStatus = "not_done"
)

// TaskInstance is one dated unit of work expanded from a template (or
// created ad hoc, in which case TemplateID is nil). Title, description,
// points and priority are snapshots taken at generation time.
type TaskInstance struct {
	gorm.Model
	TemplateID  *uint  `json:"template_id" gorm:"index"`
	AssigneeID  uint   `json:"assignee_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Points      int    `json:"points" gorm:"not null"`
	Priority    string `json:"priority" gorm:"type:varchar(20)"`

	DueAt time.Time `json:"due_at"`
	// DueDay is DueAt's civil day ("2006-01-02") in the anchor timezone,
	// stored separately so the duplicate lookup stays an index scan.
	DueDay string `json:"due_day" gorm:"type:varchar(10);index"`

	Status  TaskStatus `json:"status" gorm:"type:varchar(20);default:pending;index"`
	Attempt int        `json:"attempt" gorm:"default:0"`

	CompletionNote string     `json:"completion_note"`
	ProofPath      string     `json:"proof_path"`
	CompletedAt    *time.Time `json:"completed_at"`

	Observation string     `json:"observation"`
	AuditedByID *uint      `json:"audited_by_id"`
	AuditedAt   *time.Time `json:"audited_at"`
}

func (TaskInstance) TableName() string {
	return "task_instances"
}

// IsOverdue reports whether a still-pending task slipped past its due
// time. Overdue is a display state derived at read time, never stored.
func (t *TaskInstance) IsOverdue(now time.Time) bool {
	return t.Status == StatusPending && now.After(t.DueAt)
}

// Terminal reports whether the task reached an audited end state.
func (t *TaskInstance) Terminal() bool {
	switch t.Status {
	case StatusApproved, StatusWrongExecution, StatusNotDone:
		return true
	}
	return false
}
