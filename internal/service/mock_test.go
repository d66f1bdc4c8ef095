package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/repository"
)

// MockQuoteRepository is a mock implementation of repository.QuoteRepository
type MockQuoteRepository struct {
	CreateFunc           func(ctx context.Context, quote *domain.Quote) error
	UpdateFunc           func(ctx context.Context, quote *domain.Quote) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	FindAllOrderedFunc   func(ctx context.Context) ([]*domain.Quote, error)
	ReorderFunc          func(ctx context.Context, moves []repository.QuoteMove) error
	MoveStageFunc        func(ctx context.Context, id uuid.UUID, stage domain.Stage, position int) error
	FindDueRemindersFunc func(ctx context.Context, now time.Time) ([]*domain.Quote, error)
	MarkReminderSentFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	CountFunc            func(ctx context.Context) (int64, error)
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, quote)
	}
	return nil
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, quote)
	}
	return nil
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockQuoteRepository) FindAllOrdered(ctx context.Context) ([]*domain.Quote, error) {
	if m.FindAllOrderedFunc != nil {
		return m.FindAllOrderedFunc(ctx)
	}
	return nil, nil
}

func (m *MockQuoteRepository) Reorder(ctx context.Context, moves []repository.QuoteMove) error {
	if m.ReorderFunc != nil {
		return m.ReorderFunc(ctx, moves)
	}
	return nil
}

func (m *MockQuoteRepository) MoveStage(ctx context.Context, id uuid.UUID, stage domain.Stage, position int) error {
	if m.MoveStageFunc != nil {
		return m.MoveStageFunc(ctx, id, stage, position)
	}
	return nil
}

func (m *MockQuoteRepository) FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Quote, error) {
	if m.FindDueRemindersFunc != nil {
		return m.FindDueRemindersFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockQuoteRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.MarkReminderSentFunc != nil {
		return m.MarkReminderSentFunc(ctx, id, at)
	}
	return nil
}

func (m *MockQuoteRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockCustomerRepository is a mock implementation of repository.CustomerRepository
type MockCustomerRepository struct {
	CreateFunc   func(ctx context.Context, customer *domain.Customer) error
	UpdateFunc   func(ctx context.Context, customer *domain.Customer) error
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindAllFunc  func(ctx context.Context) ([]*domain.Customer, error)
	DeleteFunc   func(ctx context.Context, id uuid.UUID) error
	CountFunc    func(ctx context.Context) (int64, error)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	return nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	return nil
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// MockContactRepository is a mock implementation of repository.ContactRepository
type MockContactRepository struct {
	CreateFunc           func(ctx context.Context, contact *domain.Contact) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	FindByCustomerIDFunc func(ctx context.Context, customerID uuid.UUID) ([]*domain.Contact, error)
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockContactRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Contact, error) {
	if m.FindByCustomerIDFunc != nil {
		return m.FindByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

// MockTaskRepository is a mock implementation of repository.TaskRepository
type MockTaskRepository struct {
	CreateFunc    func(ctx context.Context, task *domain.Task) error
	UpdateFunc    func(ctx context.Context, task *domain.Task) error
	FindByIDFunc  func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindAllFunc   func(ctx context.Context, includeDone bool) ([]*domain.Task, error)
	DeleteFunc    func(ctx context.Context, id uuid.UUID) error
	CountOpenFunc func(ctx context.Context) (int64, error)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockTaskRepository) FindAll(ctx context.Context, includeDone bool) ([]*domain.Task, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, includeDone)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) CountOpen(ctx context.Context) (int64, error) {
	if m.CountOpenFunc != nil {
		return m.CountOpenFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface checks
var (
	_ repository.QuoteRepository    = (*MockQuoteRepository)(nil)
	_ repository.CustomerRepository = (*MockCustomerRepository)(nil)
	_ repository.ContactRepository  = (*MockContactRepository)(nil)
	_ repository.UserRepository     = (*MockUserRepository)(nil)
	_ repository.TaskRepository     = (*MockTaskRepository)(nil)
)
