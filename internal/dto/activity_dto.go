package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateActivityRequest represents the request to log a customer activity
type CreateActivityRequest struct {
	QuoteID    *uuid.UUID             `json:"quoteId,omitempty"`
	Type       string                 `json:"type" binding:"required,oneof=CALL EMAIL MEETING NOTE"`
	Summary    string                 `json:"summary" binding:"required,min=1"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt *time.Time             `json:"occurredAt,omitempty"`
}

// ActivityResponse represents an activity as returned by the API
type ActivityResponse struct {
	ID         uuid.UUID              `json:"id"`
	CustomerID uuid.UUID              `json:"customerId"`
	QuoteID    *uuid.UUID             `json:"quoteId,omitempty"`
	Type       string                 `json:"type"`
	Summary    string                 `json:"summary"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	CreatedAt  time.Time              `json:"createdAt"`
}
