package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceTypeSales    InvoiceType = "sales"
	InvoiceTypePurchase InvoiceType = "purchase"
)

type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "pending"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

// Invoice is one sales or purchase invoice. Sales invoices reference a buyer,
// purchase invoices a vendor, never both. GST components are mutually
// exclusive per Indian GST rules: IGST alone (inter-state) or CGST+SGST
// together (intra-state).
type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID  `gorm:"index"`
	VendorID      *uuid.UUID `gorm:"index"`
	BuyerID       *uuid.UUID `gorm:"index"`
	Type          InvoiceType
	InvoiceNumber string     `gorm:"index"`
	InvoiceDate   *time.Time `gorm:"column:invoice_date"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	TaxableAmount decimal.Decimal `gorm:"type:numeric(14,2)"`
	IGSTAmount    decimal.Decimal `gorm:"column:igst_amount;type:numeric(14,2)"`
	CGSTAmount    decimal.Decimal `gorm:"column:cgst_amount;type:numeric(14,2)"`
	SGSTAmount    decimal.Decimal `gorm:"column:sgst_amount;type:numeric(14,2)"`
	Status        InvoiceStatus `gorm:"index"`
	CreatedAt     time.Time
}
