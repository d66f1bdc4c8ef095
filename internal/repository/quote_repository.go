package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// QuoteMove describes the desired stage and intra-stage rank of one quote
// within a bulk reorder.
type QuoteMove struct {
	ID       uuid.UUID
	Stage    domain.Stage
	Position int
}

// QuoteRepository defines the interface for quote data access
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	Update(ctx context.Context, quote *domain.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	FindAllOrdered(ctx context.Context) ([]*domain.Quote, error)
	Reorder(ctx context.Context, moves []QuoteMove) error
	MoveStage(ctx context.Context, id uuid.UUID, stage domain.Stage, position int) error
	FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Quote, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// quoteRepositoryImpl is the GORM implementation of QuoteRepository
type quoteRepositoryImpl struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new instance of QuoteRepository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepositoryImpl{db: db}
}

// Create persists a new quote, assigning its position as the current tail
// of the target stage. Runs in a transaction so two concurrent creates in
// the same stage cannot claim the same slot.
func (r *quoteRepositoryImpl) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		if err := tx.Model(&domain.Quote{}).
			Where("stage = ?", quote.Stage).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}
		quote.Position = maxPosition + 1
		return tx.Create(quote).Error
	})
}

// Update saves all fields of an existing quote
func (r *quoteRepositoryImpl) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

// FindByID finds a quote by its ID with the linked customer preloaded
func (r *quoteRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// FindAllOrdered returns every quote in board order: static stage rank,
// then position, then next chase time (nulls last), then newest first.
func (r *quoteRepositoryImpl) FindAllOrdered(ctx context.Context) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Order(domain.StageRankCaseSQL()).
		Order("position ASC").
		Order("CASE WHEN next_chase_at IS NULL THEN 1 ELSE 0 END, next_chase_at ASC").
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Reorder applies a bulk move list in one transaction and then renumbers
// every affected stage to contiguous 1..N ranks. Any missing quote id
// rolls back the whole batch; readers never observe a half-renumbered
// stage.
func (r *quoteRepositoryImpl) Reorder(ctx context.Context, moves []QuoteMove) error {
	if len(moves) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected := make(map[domain.Stage]bool)

		// Record the source stages before moving anything, so emptied
		// columns are renumbered too.
		ids := make([]uuid.UUID, len(moves))
		for i, m := range moves {
			ids[i] = m.ID
		}
		var current []*domain.Quote
		if err := tx.Where("id IN ?", ids).Find(&current).Error; err != nil {
			return err
		}
		if len(current) != len(moves) {
			return gorm.ErrRecordNotFound
		}
		for _, q := range current {
			affected[q.Stage] = true
		}

		for _, m := range moves {
			result := tx.Model(&domain.Quote{}).
				Where("id = ?", m.ID).
				Updates(map[string]interface{}{
					"stage":    m.Stage,
					"position": m.Position,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			affected[m.Stage] = true
		}

		for stage := range affected {
			if err := renumberStage(tx, stage); err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveStage moves a single quote to the given stage and slot, renumbering
// both the source and destination stages contiguously.
func (r *quoteRepositoryImpl) MoveStage(ctx context.Context, id uuid.UUID, stage domain.Stage, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote domain.Quote
		if err := tx.First(&quote, "id = ?", id).Error; err != nil {
			return err
		}
		sourceStage := quote.Stage

		// Shift the destination siblings at or below the requested slot
		// down by one, then drop the card into the slot.
		if err := tx.Model(&domain.Quote{}).
			Where("stage = ? AND position >= ? AND id <> ?", stage, position, id).
			UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Quote{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"stage":    stage,
				"position": position,
			}).Error; err != nil {
			return err
		}

		if err := renumberStage(tx, stage); err != nil {
			return err
		}
		if sourceStage != stage {
			if err := renumberStage(tx, sourceStage); err != nil {
				return err
			}
		}
		return nil
	})
}

// renumberStage rewrites the positions of every quote in a stage to a
// contiguous 1..N sequence, preserving the current order (position, then
// insertion order as tie-break).
func renumberStage(tx *gorm.DB, stage domain.Stage) error {
	var quotes []*domain.Quote
	if err := tx.
		Where("stage = ?", stage).
		Order("position ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&quotes).Error; err != nil {
		return err
	}

	for i, q := range quotes {
		want := i + 1
		if q.Position == want {
			continue
		}
		if err := tx.Model(&domain.Quote{}).
			Where("id = ?", q.ID).
			Update("position", want).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindDueReminders returns quotes whose reminder has elapsed: a reminder
// email is set and next_chase_at is at or before the given instant.
func (r *quoteRepositoryImpl) FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	if err := r.db.WithContext(ctx).
		Where("reminder_email <> '' AND next_chase_at IS NOT NULL AND next_chase_at <= ?", now).
		Order("next_chase_at ASC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// MarkReminderSent records a dispatched reminder: sets last_chased_at and
// clears next_chase_at so the same due occurrence is never resent. The
// next_chase_at guard makes the call idempotent under overlapping ticks.
func (r *quoteRepositoryImpl) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ? AND next_chase_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"last_chased_at": at,
			"next_chase_at":  nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the total number of quotes
func (r *quoteRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Quote{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
