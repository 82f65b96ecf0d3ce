package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	GSTIN     string    `gorm:"uniqueIndex"`
	CreatedAt time.Time
}

// Vendor is a supplier the company purchases from.
type Vendor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"index"`
	Name      string    `gorm:"index;not null"`
	GSTIN     string
	CreatedAt time.Time
}

// Buyer is a customer the company sells to.
type Buyer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"index"`
	Name      string    `gorm:"index;not null"`
	GSTIN     string
	CreatedAt time.Time
}
