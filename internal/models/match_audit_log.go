package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchAuditLog records who settled what and how (auto run vs manual
// override), one row per settlement action.
type MatchAuditLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReconciliationID uuid.UUID `gorm:"index"`
	TransactionID    uuid.UUID `gorm:"index"`
	InvoiceID        uuid.UUID
	Action           string
	PerformedBy      string
	Reason           string
	CreatedAt        time.Time
}
