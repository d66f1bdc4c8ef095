package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=255"`
	Details    string     `json:"details,omitempty"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
	QuoteID    *uuid.UUID `json:"quoteId,omitempty"`
}

// UpdateTaskRequest represents a merge-patch of task fields
type UpdateTaskRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Details    *string    `json:"details"`
	DueAt      *time.Time `json:"dueAt"`
	AssigneeID *uuid.UUID `json:"assigneeId"`
}

// SetTaskDoneRequest toggles the done flag on a task
type SetTaskDoneRequest struct {
	Done bool `json:"done"`
}

// TaskResponse represents a task as returned by the API
type TaskResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details,omitempty"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	Done       bool       `json:"done"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
	QuoteID    *uuid.UUID `json:"quoteId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
