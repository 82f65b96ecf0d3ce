// Package memory implements repository.Store with in-process maps. It backs
// the service tests and mimics database semantics: callers always get copies,
// and mutations only become visible through Save/Create.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	mu sync.Mutex

	companies map[uuid.UUID]models.Company
	vendors   map[uuid.UUID]models.Vendor
	buyers    map[uuid.UUID]models.Buyer

	transactions map[uuid.UUID]models.BankTransaction
	txnOrder     []uuid.UUID

	invoices     map[uuid.UUID]models.Invoice
	invoiceOrder []uuid.UUID

	reconciliations map[uuid.UUID]models.Reconciliation
	reconOrder      []uuid.UUID

	entries []models.JournalEntry
	audits  []models.MatchAuditLog
}

func New() *Store {
	return &Store{
		companies:       make(map[uuid.UUID]models.Company),
		vendors:         make(map[uuid.UUID]models.Vendor),
		buyers:          make(map[uuid.UUID]models.Buyer),
		transactions:    make(map[uuid.UUID]models.BankTransaction),
		invoices:        make(map[uuid.UUID]models.Invoice),
		reconciliations: make(map[uuid.UUID]models.Reconciliation),
	}
}

func (s *Store) CreateCompany(company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[company.ID] = *company
	return nil
}

func (s *Store) GetCompany(id uuid.UUID) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &company, nil
}

func (s *Store) GetVendor(id uuid.UUID) (*models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &vendor, nil
}

func (s *Store) GetBuyer(id uuid.UUID) (*models.Buyer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buyer, ok := s.buyers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &buyer, nil
}

func (s *Store) FindOrCreateVendor(companyID uuid.UUID, name string) (*models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vendors {
		if v.CompanyID == companyID && v.Name == name {
			vendor := v
			return &vendor, nil
		}
	}
	vendor := models.Vendor{ID: uuid.New(), CompanyID: companyID, Name: name}
	s.vendors[vendor.ID] = vendor
	return &vendor, nil
}

func (s *Store) FindOrCreateBuyer(companyID uuid.UUID, name string) (*models.Buyer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buyers {
		if b.CompanyID == companyID && b.Name == name {
			buyer := b
			return &buyer, nil
		}
	}
	buyer := models.Buyer{ID: uuid.New(), CompanyID: companyID, Name: name}
	s.buyers[buyer.ID] = buyer
	return &buyer, nil
}

func (s *Store) CreateTransaction(txn *models.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[txn.ID] = *txn
	s.txnOrder = append(s.txnOrder, txn.ID)
	return nil
}

func (s *Store) GetTransaction(id uuid.UUID) (*models.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) UnmatchedTransactions(companyID uuid.UUID) ([]*models.BankTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BankTransaction
	for _, id := range s.txnOrder {
		txn := s.transactions[id]
		if txn.CompanyID == companyID && txn.Status == models.TransactionStatusUnmatched {
			t := txn
			out = append(out, &t)
		}
	}
	return out, nil
}

func (s *Store) SaveTransaction(txn *models.BankTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[txn.ID] = *txn
	return nil
}

func (s *Store) CreateInvoice(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = *inv
	s.invoiceOrder = append(s.invoiceOrder, inv.ID)
	return nil
}

func (s *Store) GetInvoice(id uuid.UUID) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (s *Store) OpenInvoices(companyID uuid.UUID) ([]*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Invoice
	for _, id := range s.invoiceOrder {
		inv := s.invoices[id]
		if inv.CompanyID != companyID {
			continue
		}
		if inv.Status != models.InvoiceStatusPending && inv.Status != models.InvoiceStatusPartiallyPaid {
			continue
		}
		i := inv
		out = append(out, &i)
	}
	return out, nil
}

func (s *Store) SaveInvoice(inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *Store) CreateReconciliation(rec *models.Reconciliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reconciliations {
		if existing.TransactionID == rec.TransactionID && existing.InvoiceID == rec.InvoiceID {
			return repository.ErrDuplicatePair
		}
	}
	s.reconciliations[rec.ID] = *rec
	s.reconOrder = append(s.reconOrder, rec.ID)
	return nil
}

func (s *Store) GetReconciliation(id uuid.UUID) (*models.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.reconciliations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) FindReconciliation(transactionID, invoiceID uuid.UUID) (*models.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.reconOrder {
		rec := s.reconciliations[id]
		if rec.TransactionID == transactionID && rec.InvoiceID == invoiceID {
			r := rec
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) PendingReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Reconciliation
	for _, id := range s.reconOrder {
		rec := s.reconciliations[id]
		if rec.Status != models.ReconciliationStatusPending {
			continue
		}
		txn, ok := s.transactions[rec.TransactionID]
		if !ok || txn.CompanyID != companyID {
			continue
		}
		r := rec
		out = append(out, &r)
	}
	return out, nil
}

func (s *Store) ListReconciliations(companyID uuid.UUID) ([]*models.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Reconciliation
	for _, id := range s.reconOrder {
		rec := s.reconciliations[id]
		txn, ok := s.transactions[rec.TransactionID]
		if !ok || txn.CompanyID != companyID {
			continue
		}
		r := rec
		out = append(out, &r)
	}
	return out, nil
}

func (s *Store) SaveReconciliation(rec *models.Reconciliation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciliations[rec.ID] = *rec
	return nil
}

func (s *Store) DeleteReconciliation(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reconciliations, id)
	for i, existing := range s.reconOrder {
		if existing == id {
			s.reconOrder = append(s.reconOrder[:i], s.reconOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) SettledAmount(invoiceID uuid.UUID, exclude uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range s.reconciliations {
		if rec.InvoiceID != invoiceID || rec.Status != models.ReconciliationStatusSettled {
			continue
		}
		if exclude != uuid.Nil && rec.ID == exclude {
			continue
		}
		if txn, ok := s.transactions[rec.TransactionID]; ok {
			total = total.Add(txn.Amount)
		}
	}
	return total, nil
}

func (s *Store) CreateJournalEntry(entry *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *Store) JournalEntryExists(companyID uuid.UUID, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.CompanyID == companyID && e.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

// JournalEntries returns a snapshot of all posted entries, for tests.
func (s *Store) JournalEntries() []models.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JournalEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) CreateAuditLog(entry *models.MatchAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, *entry)
	return nil
}

// AuditLogs returns a snapshot of all audit rows, for tests.
func (s *Store) AuditLogs() []models.MatchAuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MatchAuditLog, len(s.audits))
	copy(out, s.audits)
	return out
}

// WithinTx runs fn against the store itself. There is no rollback; the memory
// backend serves tests and demos, not durability.
func (s *Store) WithinTx(fn func(repository.Store) error) error {
	return fn(s)
}
