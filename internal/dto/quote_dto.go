package dto

import (
	"time"

	"github.com/google/uuid"

	"quote-pipeline-api/internal/domain"
)

// CreateQuoteRequest represents the request to create a new quote.
// Stage defaults to "new" when omitted; position is always assigned by
// the server (tail of the target stage).
type CreateQuoteRequest struct {
	Title         string     `json:"title" binding:"required,min=1,max=255" example:"Roof survey"`
	ClientName    string     `json:"clientName" binding:"required,min=1,max=255" example:"Acme Ltd"`
	CustomerID    *uuid.UUID `json:"customerId,omitempty"`
	Value         *float64   `json:"value,omitempty" binding:"omitempty,gte=0" example:"12500.50"`
	Stage         string     `json:"stage,omitempty" binding:"omitempty,oneof=new follow_up tender won lost"`
	SONumber      string     `json:"soNumber,omitempty" binding:"max=100"`
	ReminderEmail string     `json:"reminderEmail,omitempty" binding:"omitempty,email"`
	NextChaseAt   *time.Time `json:"nextChaseAt,omitempty"`
	Status        string     `json:"status,omitempty" binding:"max=100"`
	Notes         string     `json:"notes,omitempty"`
}

// UpdateQuoteRequest represents a merge-patch of quote fields. All fields
// are optional. Stage and position are deliberately absent: stage moves
// go through the stage or positions endpoints, which renumber siblings.
type UpdateQuoteRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=255"`
	ClientName    *string    `json:"clientName" binding:"omitempty,min=1,max=255"`
	CustomerID    *uuid.UUID `json:"customerId"`
	Value         *float64   `json:"value" binding:"omitempty,gte=0"`
	SONumber      *string    `json:"soNumber" binding:"omitempty,max=100"`
	ReminderEmail *string    `json:"reminderEmail" binding:"omitempty,email"`
	NextChaseAt   *time.Time `json:"nextChaseAt"`
	ClearChase    bool       `json:"clearChase,omitempty"`
	Status        *string    `json:"status" binding:"omitempty,max=100"`
	Notes         *string    `json:"notes"`
}

// QuoteMoveUpdate is one element of a bulk reorder: the desired final
// stage and intra-stage rank of a quote after a drag gesture.
type QuoteMoveUpdate struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Stage    string    `json:"stage" binding:"required,oneof=new follow_up tender won lost"`
	Position int       `json:"position" binding:"required,min=1"`
}

// ReorderQuotesRequest represents the bulk position update issued after
// a drag-and-drop gesture
type ReorderQuotesRequest struct {
	Updates []QuoteMoveUpdate `json:"updates" binding:"required,min=1,dive"`
}

// MoveStageRequest represents a single-card stage move. When position is
// omitted the card is appended to the end of the target stage.
type MoveStageRequest struct {
	Stage    string `json:"stage" binding:"required,oneof=new follow_up tender won lost"`
	Position int    `json:"position,omitempty" binding:"omitempty,min=1"`
}

// QuoteResponse represents a quote as returned by the API
type QuoteResponse struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	ClientName     string       `json:"clientName"`
	CustomerID     *uuid.UUID   `json:"customerId,omitempty"`
	CustomerName   string       `json:"customerName,omitempty"`
	Value          *float64     `json:"value,omitempty"`
	Stage          domain.Stage `json:"stage"`
	Position       int          `json:"position"`
	SONumber       string       `json:"soNumber,omitempty"`
	LastChasedAt   *time.Time   `json:"lastChasedAt,omitempty"`
	NextChaseAt    *time.Time   `json:"nextChaseAt,omitempty"`
	ReminderEmail  string       `json:"reminderEmail,omitempty"`
	AttachmentURL  string       `json:"attachmentUrl,omitempty"`
	AttachmentName string       `json:"attachmentName,omitempty"`
	Status         string       `json:"status,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedBy      *uuid.UUID   `json:"createdBy,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// AttachmentResponse is returned after a successful attachment upload
type AttachmentResponse struct {
	QuoteID        uuid.UUID `json:"quoteId"`
	AttachmentURL  string    `json:"attachmentUrl"`
	AttachmentName string    `json:"attachmentName"`
}
