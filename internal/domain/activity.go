package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityType represents the kind of customer interaction logged
type ActivityType string

const (
	ActivityCall    ActivityType = "CALL"
	ActivityEmail   ActivityType = "EMAIL"
	ActivityMeeting ActivityType = "MEETING"
	ActivityNote    ActivityType = "NOTE"
)

// IsValid reports whether t is a known activity type
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote:
		return true
	}
	return false
}

// Activity represents a logged interaction with a customer, optionally
// tied to a specific quote
type Activity struct {
	BaseModel
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_customer_id" json:"customer_id"`
	QuoteID    *uuid.UUID     `gorm:"type:uuid;index:idx_activities_quote_id" json:"quote_id"`
	Type       ActivityType   `gorm:"type:varchar(50);not null" json:"type"`
	Summary    string         `gorm:"type:text;not null" json:"summary"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	OccurredAt time.Time      `gorm:"type:timestamp;not null;index:idx_activities_occurred_at" json:"occurred_at"`
	CreatedBy  *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}
