// Package postgres implements repository.Store on GORM/Postgres.
package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

func (s *Store) CreateCompany(company *models.Company) error {
	return s.db.Create(company).Error
}

func (s *Store) GetCompany(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &company, nil
}

func (s *Store) GetVendor(id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.db.First(&vendor, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &vendor, nil
}

func (s *Store) GetBuyer(id uuid.UUID) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := s.db.First(&buyer, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &buyer, nil
}

func (s *Store) FindOrCreateVendor(companyID uuid.UUID, name string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.First(&vendor, "company_id = ? AND name = ?", companyID, name).Error
	if err == nil {
		return &vendor, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	vendor = models.Vendor{ID: uuid.New(), CompanyID: companyID, Name: name, CreatedAt: time.Now()}
	if err := s.db.Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *Store) FindOrCreateBuyer(companyID uuid.UUID, name string) (*models.Buyer, error) {
	var buyer models.Buyer
	err := s.db.First(&buyer, "company_id = ? AND name = ?", companyID, name).Error
	if err == nil {
		return &buyer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	buyer = models.Buyer{ID: uuid.New(), CompanyID: companyID, Name: name, CreatedAt: time.Now()}
	if err := s.db.Create(&buyer).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (s *Store) CreateTransaction(txn *models.BankTransaction) error {
	return s.db.Create(txn).Error
}

func (s *Store) GetTransaction(id uuid.UUID) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	if err := s.db.First(&txn, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &txn, nil
}

func (s *Store) UnmatchedTransactions(companyID uuid.UUID) ([]*models.BankTransaction, error) {
	var txns []*models.BankTransaction
	err := s.db.
		Where("company_id = ? AND status = ?", companyID, models.TransactionStatusUnmatched).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (s *Store) SaveTransaction(txn *models.BankTransaction) error {
	return s.db.Save(txn).Error
}

func (s *Store) CreateInvoice(inv *models.Invoice) error {
	return s.db.Create(inv).Error
}

func (s *Store) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.First(&inv, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &inv, nil
}

func (s *Store) OpenInvoices(companyID uuid.UUID) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := s.db.
		Where("company_id = ? AND status IN ?", companyID,
			[]models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusPartiallyPaid}).
		Order("created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

func (s *Store) SaveInvoice(inv *models.Invoice) error {
	return s.db.Save(inv).Error
}

func (s *Store) CreateReconciliation(rec *models.Reconciliation) error {
	return s.db.Create(rec).Error
}

func (s *Store) GetReconciliation(id uuid.UUID) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &rec, nil
}

func (s *Store) FindReconciliation(transactionID, invoiceID uuid.UUID) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := s.db.First(&rec, "transaction_id = ? AND invoice_id = ?", transactionID, invoiceID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &rec, nil
}

func (s *Store) PendingReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error) {
	var recs []*models.Reconciliation
	err := s.db.Model(&models.Reconciliation{}).
		Joins("JOIN bank_transactions ON bank_transactions.id = reconciliations.transaction_id").
		Where("bank_transactions.company_id = ? AND reconciliations.status = ?",
			companyID, models.ReconciliationStatusPending).
		Order("reconciliations.created_at ASC").
		Find(&recs).Error
	return recs, err
}

func (s *Store) ListReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error) {
	var recs []*models.Reconciliation
	err := s.db.Model(&models.Reconciliation{}).
		Joins("JOIN bank_transactions ON bank_transactions.id = reconciliations.transaction_id").
		Where("bank_transactions.company_id = ?", companyID).
		Order("reconciliations.created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (s *Store) SaveReconciliation(rec *models.Reconciliation) error {
	return s.db.Save(rec).Error
}

func (s *Store) DeleteReconciliation(id uuid.UUID) error {
	return s.db.Delete(&models.Reconciliation{}, "id = ?", id).Error
}

func (s *Store) SettledAmount(invoiceID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	q := s.db.Model(&models.Reconciliation{}).
		Joins("JOIN bank_transactions ON bank_transactions.id = reconciliations.transaction_id").
		Where("reconciliations.invoice_id = ? AND reconciliations.status = ?",
			invoiceID, models.ReconciliationStatusSettled).
		Select("COALESCE(SUM(bank_transactions.amount), 0) AS total")
	if exclude != uuid.Nil {
		q = q.Where("reconciliations.id <> ?", exclude)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (s *Store) CreateJournalEntry(entry *models.JournalEntry) error {
	return s.db.Create(entry).Error
}

func (s *Store) JournalEntryExists(companyID uuid.UUID, reference string) (bool, error) {
	var count int64
	err := s.db.Model(&models.JournalEntry{}).
		Where("company_id = ? AND reference = ?", companyID, reference).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CreateAuditLog(entry *models.MatchAuditLog) error {
	return s.db.Create(entry).Error
}

func (s *Store) WithinTx(fn func(repository.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
