package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

// CustomerService defines the interface for customer business logic
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) ([]*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	AddContact(ctx context.Context, customerID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, error)
	ListContacts(ctx context.Context, customerID uuid.UUID) ([]*dto.ContactResponse, error)
	DeleteContact(ctx context.Context, customerID, contactID uuid.UUID) error
}

// customerServiceImpl is the implementation of CustomerService
type customerServiceImpl struct {
	customerRepo repository.CustomerRepository
	contactRepo  repository.ContactRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	logger *zap.Logger,
) CustomerService {
	return &customerServiceImpl{
		customerRepo: customerRepo,
		contactRepo:  contactRepo,
		logger:       logger,
	}
}

// CreateCustomer creates a new customer
func (s *customerServiceImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &domain.Customer{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to create customer", err.Error())
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	return toCustomerResponse(customer), nil
}

// GetCustomer returns a customer with its contacts
func (s *customerServiceImpl) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers returns all customers ordered by name
func (s *customerServiceImpl) ListCustomers(ctx context.Context) ([]*dto.CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list customers", err.Error())
	}

	responses := make([]*dto.CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = toCustomerResponse(c)
	}
	return responses, nil
}

// UpdateCustomer applies a merge-patch of customer fields
func (s *customerServiceImpl) UpdateCustomer(ctx context.Context, id uuid.UUID, req *dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Company != nil {
		customer.Company = *req.Company
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to update customer", err.Error())
	}
	return toCustomerResponse(customer), nil
}

// DeleteCustomer soft-deletes a customer. Contacts and activities cascade;
// quotes keep their customer_id and denormalized client name.
func (s *customerServiceImpl) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return response.NewAppError(response.ErrCodeStorage, "Failed to delete customer", err.Error())
	}

	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// AddContact adds a named person to a customer
func (s *customerServiceImpl) AddContact(ctx context.Context, customerID uuid.UUID, req *dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}

	contact := &domain.Contact{
		CustomerID: customerID,
		Name:       req.Name,
		Role:       req.Role,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		s.logger.Error("Failed to create contact", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to create contact", err.Error())
	}
	return toContactResponse(contact), nil
}

// ListContacts returns a customer's contacts ordered by name
func (s *customerServiceImpl) ListContacts(ctx context.Context, customerID uuid.UUID) ([]*dto.ContactResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Customer not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to get customer", err.Error())
	}

	contacts, err := s.contactRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to list contacts", err.Error())
	}

	responses := make([]*dto.ContactResponse, len(contacts))
	for i, c := range contacts {
		responses[i] = toContactResponse(c)
	}
	return responses, nil
}

// DeleteContact removes a contact, verifying it belongs to the customer
func (s *customerServiceImpl) DeleteContact(ctx context.Context, customerID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Contact not found", "")
		}
		return response.NewAppError(response.ErrCodeStorage, "Failed to get contact", err.Error())
	}
	if contact.CustomerID != customerID {
		return response.NewAppError(response.ErrCodeNotFound, "Contact not found", "")
	}

	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return response.NewAppError(response.ErrCodeStorage, "Failed to delete contact", err.Error())
	}
	return nil
}

// toCustomerResponse converts a domain customer to its API representation
func toCustomerResponse(customer *domain.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Company:   customer.Company,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		Notes:     customer.Notes,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
	for i := range customer.Contacts {
		resp.Contacts = append(resp.Contacts, *toContactResponse(&customer.Contacts[i]))
	}
	return resp
}

// toContactResponse converts a domain contact to its API representation
func toContactResponse(contact *domain.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:         contact.ID,
		CustomerID: contact.CustomerID,
		Name:       contact.Name,
		Role:       contact.Role,
		Email:      contact.Email,
		Phone:      contact.Phone,
		CreatedAt:  contact.CreatedAt,
	}
}
