package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// ActivityRepository defines the interface for activity data access
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Activity, error)
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]*domain.Activity, error)
}

// activityRepositoryImpl is the GORM implementation of ActivityRepository
type activityRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

func (r *activityRepositoryImpl) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepositoryImpl) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("occurred_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepositoryImpl) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	if err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("occurred_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
