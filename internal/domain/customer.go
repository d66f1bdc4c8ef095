package domain

import (
	"github.com/google/uuid"
)

// Customer represents a client organization quotes are raised against
type Customer struct {
	BaseModel
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Company    string     `gorm:"type:varchar(255)" json:"company"`
	Email      string     `gorm:"type:varchar(255)" json:"email"`
	Phone      string     `gorm:"type:varchar(50)" json:"phone"`
	Address    string     `gorm:"type:text" json:"address"`
	Notes      string     `gorm:"type:text" json:"notes"`
	Contacts   []Contact  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Quotes     []Quote    `gorm:"foreignKey:CustomerID" json:"quotes,omitempty"`
	Activities []Activity `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Contact represents a named person at a customer
type Contact struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index:idx_contacts_customer_id" json:"customer_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Role       string    `gorm:"type:varchar(100)" json:"role"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}
