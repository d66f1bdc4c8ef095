package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a follow-up item for a user, optionally tied to a quote
type Task struct {
	BaseModel
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Details    string     `gorm:"type:text" json:"details"`
	DueAt      *time.Time `gorm:"type:timestamp;index:idx_tasks_due_at" json:"due_at"`
	Done       bool       `gorm:"not null;default:false;index:idx_tasks_done" json:"done"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index:idx_tasks_assignee_id" json:"assignee_id"`
	QuoteID    *uuid.UUID `gorm:"type:uuid;index:idx_tasks_quote_id" json:"quote_id"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid" json:"created_by"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
