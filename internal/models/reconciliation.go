package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchType string

const (
	MatchTypeExact  MatchType = "exact"
	MatchTypeFuzzy  MatchType = "fuzzy"
	MatchTypeManual MatchType = "manual"
)

type ReconciliationStatus string

const (
	ReconciliationStatusPending  ReconciliationStatus = "pending"
	ReconciliationStatusVerified ReconciliationStatus = "verified"
	ReconciliationStatusSettled  ReconciliationStatus = "settled"
)

// Reconciliation pairs one bank transaction with one invoice. The composite
// unique index keeps a pair to at most one reconciliation.
type Reconciliation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"uniqueIndex:idx_recon_pair"`
	InvoiceID     uuid.UUID `gorm:"uniqueIndex:idx_recon_pair"`
	MatchType     MatchType
	Confidence    float64
	Status        ReconciliationStatus `gorm:"index"`
	MatchDetails  datatypes.JSON
	SettledAt     *time.Time
	CreatedAt     time.Time
}
