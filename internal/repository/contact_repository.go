package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// contactRepositoryImpl is the GORM implementation of ContactRepository
type contactRepositoryImpl struct {
	db *gorm.DB
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepositoryImpl{db: db}
}

func (r *contactRepositoryImpl) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepositoryImpl) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("name ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}
