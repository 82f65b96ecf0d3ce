package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type JournalEntryType string

const (
	EntryTypeSales    JournalEntryType = "sales"
	EntryTypePurchase JournalEntryType = "purchase"
	EntryTypePayment  JournalEntryType = "payment"
	EntryTypeReceipt  JournalEntryType = "receipt"
	EntryTypeOther    JournalEntryType = "other"
)

// JournalEntry is one immutable double-entry posting. Entries are only ever
// created; there is no update or delete path in this subsystem.
type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"index"`
	Type      JournalEntryType
	Date      time.Time
	Narration string
	Reference string `gorm:"index"`
	Lines     []JournalEntryLine `gorm:"foreignKey:EntryID"`
	CreatedAt time.Time
}

// JournalEntryLine is one debit or credit leg. By convention exactly one of
// Debit/Credit is nonzero per line.
type JournalEntryLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID     uuid.UUID `gorm:"index"`
	AccountCode string
	AccountName string
	Debit       decimal.Decimal `gorm:"type:numeric(14,2)"`
	Credit      decimal.Decimal `gorm:"type:numeric(14,2)"`
}
