package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

type TransactionStatus string

const (
	TransactionStatusUnmatched TransactionStatus = "unmatched"
	TransactionStatusMatched   TransactionStatus = "matched"
	TransactionStatusSettled   TransactionStatus = "settled"
)

// BankTransaction is one bank-statement line item. Amount is always a
// positive magnitude; Type carries the direction.
type BankTransaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID `gorm:"index"`
	Date        time.Time `gorm:"column:transaction_date"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);index"`
	Description string
	Reference   string
	Type        TransactionType   `gorm:"index"`
	Status      TransactionStatus `gorm:"index"`
	Category    string
	CreatedAt   time.Time
}
