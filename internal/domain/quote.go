package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage represents one phase of the fixed sales pipeline
type Stage string

const (
	StageNew      Stage = "new"
	StageFollowUp Stage = "follow_up"
	StageTender   Stage = "tender"
	StageWon      Stage = "won"
	StageLost     Stage = "lost"
)

// stageRanks defines the static left-to-right order of pipeline columns
var stageRanks = map[Stage]int{
	StageNew:      0,
	StageFollowUp: 1,
	StageTender:   2,
	StageWon:      3,
	StageLost:     4,
}

// Stages lists all pipeline stages in static rank order
func Stages() []Stage {
	return []Stage{StageNew, StageFollowUp, StageTender, StageWon, StageLost}
}

// IsValid reports whether s is a known pipeline stage
func (s Stage) IsValid() bool {
	_, ok := stageRanks[s]
	return ok
}

// Rank returns the static ordering rank of the stage
func (s Stage) Rank() int {
	if r, ok := stageRanks[s]; ok {
		return r
	}
	return len(stageRanks)
}

// StageRankCaseSQL returns the CASE expression used to order quotes by
// static stage rank. Works on both postgres and sqlite.
func StageRankCaseSQL() string {
	return "CASE stage " +
		"WHEN 'new' THEN 0 " +
		"WHEN 'follow_up' THEN 1 " +
		"WHEN 'tender' THEN 2 " +
		"WHEN 'won' THEN 3 " +
		"WHEN 'lost' THEN 4 " +
		"ELSE 5 END"
}

// Quote represents a sales opportunity card on the pipeline board.
// Position is a 1-based rank within its stage; after every reorder the
// positions of a stage form a contiguous strictly increasing sequence.
type Quote struct {
	BaseModel
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	ClientName     string     `gorm:"type:varchar(255);not null" json:"client_name"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index:idx_quotes_customer_id" json:"customer_id"`
	Value          *float64   `gorm:"type:numeric(14,2)" json:"value"`
	Stage          Stage      `gorm:"type:varchar(50);not null;default:'new';index:idx_quotes_stage_position,priority:1" json:"stage"`
	Position       int        `gorm:"not null;index:idx_quotes_stage_position,priority:2" json:"position"`
	SONumber       string     `gorm:"type:varchar(100)" json:"so_number"`
	LastChasedAt   *time.Time `gorm:"type:timestamp" json:"last_chased_at"`
	NextChaseAt    *time.Time `gorm:"type:timestamp;index:idx_quotes_next_chase_at" json:"next_chase_at"`
	ReminderEmail  string     `gorm:"type:varchar(255)" json:"reminder_email"`
	AttachmentURL  string     `gorm:"type:text" json:"attachment_url"`
	AttachmentName string     `gorm:"type:varchar(255)" json:"attachment_name"`
	Status         string     `gorm:"type:varchar(100)" json:"status"`
	Notes          string     `gorm:"type:text" json:"notes"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;index:idx_quotes_created_by" json:"created_by"`
	Customer       *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName specifies the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// ReminderDue reports whether the quote has an elapsed reminder at the
// given instant
func (q *Quote) ReminderDue(now time.Time) bool {
	return q.ReminderEmail != "" && q.NextChaseAt != nil && !q.NextChaseAt.After(now)
}
