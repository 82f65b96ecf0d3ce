// Package repository defines the persistence boundary of the reconciliation
// engine. The engine only sees this interface; backends live in subpackages.
package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicatePair is returned when a reconciliation already exists for a
// (transaction, invoice) pair.
var ErrDuplicatePair = errors.New("reconciliation already exists for pair")

type Store interface {
	// Companies and counterparties
	CreateCompany(company *models.Company) error
	GetCompany(id uuid.UUID) (*models.Company, error)
	GetVendor(id uuid.UUID) (*models.Vendor, error)
	GetBuyer(id uuid.UUID) (*models.Buyer, error)
	FindOrCreateVendor(companyID uuid.UUID, name string) (*models.Vendor, error)
	FindOrCreateBuyer(companyID uuid.UUID, name string) (*models.Buyer, error)

	// Bank transactions
	CreateTransaction(txn *models.BankTransaction) error
	GetTransaction(id uuid.UUID) (*models.BankTransaction, error)
	UnmatchedTransactions(companyID uuid.UUID) ([]*models.BankTransaction, error)
	SaveTransaction(txn *models.BankTransaction) error

	// Invoices
	CreateInvoice(inv *models.Invoice) error
	GetInvoice(id uuid.UUID) (*models.Invoice, error)
	// OpenInvoices returns invoices in status pending or partially_paid.
	OpenInvoices(companyID uuid.UUID) ([]*models.Invoice, error)
	SaveInvoice(inv *models.Invoice) error

	// Reconciliations
	CreateReconciliation(rec *models.Reconciliation) error
	GetReconciliation(id uuid.UUID) (*models.Reconciliation, error)
	FindReconciliation(transactionID, invoiceID uuid.UUID) (*models.Reconciliation, error)
	PendingReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error)
	ListReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error)
	SaveReconciliation(rec *models.Reconciliation) error
	// DeleteReconciliation removes a reconciliation that never settled, so
	// the pair becomes matchable again. Deleting an unknown id is a no-op.
	DeleteReconciliation(id uuid.UUID) error
	// SettledAmount sums the transaction amounts of all settled
	// reconciliations against the invoice, excluding the given
	// reconciliation id (pass uuid.Nil to exclude nothing).
	SettledAmount(invoiceID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error)

	// Journal
	CreateJournalEntry(entry *models.JournalEntry) error
	JournalEntryExists(companyID uuid.UUID, reference string) (bool, error)

	// Audit
	CreateAuditLog(entry *models.MatchAuditLog) error

	// WithinTx runs fn against a transaction-scoped store; all writes inside
	// fn commit or roll back together.
	WithinTx(fn func(Store) error) error
}
