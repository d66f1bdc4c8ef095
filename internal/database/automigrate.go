package database

import (
	"fmt"

	"gorm.io/gorm"

	"quote-pipeline-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models. Tables,
// indexes and constraints come from the struct definitions in the domain
// package.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Customer{},
		&domain.Contact{},
		&domain.Quote{},
		&domain.Activity{},
		&domain.Task{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
