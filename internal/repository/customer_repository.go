package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// customerRepositoryImpl is the GORM implementation of CustomerRepository
type customerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepositoryImpl{db: db}
}

func (r *customerRepositoryImpl) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepositoryImpl) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// FindByID finds a customer with contacts preloaded
func (r *customerRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Delete soft deletes a customer
func (r *customerRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id).Error
}

func (r *customerRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Customer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
