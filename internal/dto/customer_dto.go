package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCustomerRequest represents the request to create a customer
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Company string `json:"company,omitempty" binding:"max=255"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   string `json:"phone,omitempty" binding:"max=50"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// UpdateCustomerRequest represents a merge-patch of customer fields
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Company *string `json:"company" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// CustomerResponse represents a customer as returned by the API
type CustomerResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Company   string            `json:"company,omitempty"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Address   string            `json:"address,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Contacts  []ContactResponse `json:"contacts,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CreateContactRequest represents the request to add a contact to a customer
type CreateContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Role  string `json:"role,omitempty" binding:"max=100"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty" binding:"max=50"`
}

// ContactResponse represents a contact as returned by the API
type ContactResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Role       string    `json:"role,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
