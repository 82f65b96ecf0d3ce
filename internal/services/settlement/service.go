// Package settlement finalizes reconciliations: status transitions on the
// transaction, invoice and reconciliation, and the journal posting that
// records the receipt or payment.
package settlement

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invoice-reconciliation-backend/internal/ledger"
	"invoice-reconciliation-backend/internal/metrics"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// ErrOverpayment rejects a settlement that would push the total settled
// amount past the invoice total.
var ErrOverpayment = errors.New("settlement would overpay invoice")

// ErrAlreadySettled rejects reuse of a bank transaction that is already
// settled under another reconciliation. A transaction belongs to at most one
// settled reconciliation.
var ErrAlreadySettled = errors.New("transaction already settled")

type Service struct {
	store repository.Store
}

func New(store repository.Store) *Service {
	return &Service{store: store}
}

// Settle marks a reconciliation settled and posts its journal entry.
// Idempotent: an already-settled reconciliation is returned unchanged.
func (s *Service) Settle(reconciliationID uuid.UUID) (*models.Reconciliation, error) {
	return s.settle(reconciliationID, "settled", "system")
}

// ManualSettle is the operator escape hatch for pairs the automatic engine
// missed or scored below threshold. An existing reconciliation for the pair
// is re-settled instead of duplicated; a new one is recorded with match type
// manual and confidence 1.0.
func (s *Service) ManualSettle(transactionID, invoiceID uuid.UUID) (*models.Reconciliation, error) {
	existing, err := s.store.FindReconciliation(transactionID, invoiceID)
	if err == nil {
		return s.settle(existing.ID, "manual_settle", "operator")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rec := &models.Reconciliation{
		ID:            uuid.New(),
		TransactionID: transactionID,
		InvoiceID:     invoiceID,
		MatchType:     models.MatchTypeManual,
		Confidence:    1.0,
		Status:        models.ReconciliationStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := s.store.CreateReconciliation(rec); err != nil {
		return nil, err
	}
	settled, err := s.settle(rec.ID, "manual_settle", "operator")
	if err != nil {
		// A reconciliation that cannot settle must not linger pending, or
		// every later run would sweep and re-fail it.
		if derr := s.store.DeleteReconciliation(rec.ID); derr != nil {
			slog.Error("removing failed manual reconciliation",
				"reconciliation_id", rec.ID, "error", derr)
		}
		return nil, err
	}
	return settled, nil
}

func (s *Service) settle(reconciliationID uuid.UUID, action, actor string) (*models.Reconciliation, error) {
	rec, err := s.store.GetReconciliation(reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("reconciliation %s: %w", reconciliationID, err)
	}
	if rec.Status == models.ReconciliationStatusSettled {
		return rec, nil
	}

	txn, err := s.store.GetTransaction(rec.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", rec.TransactionID, err)
	}
	// This reconciliation is not settled, so a settled transaction can only
	// have been consumed by a different one.
	if txn.Status == models.TransactionStatusSettled {
		return nil, fmt.Errorf("transaction %s: %w", txn.ID, ErrAlreadySettled)
	}
	inv, err := s.store.GetInvoice(rec.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", rec.InvoiceID, err)
	}

	// totalReconciled is always recomputed from durable state so that two
	// transactions matched to the same invoice in one pass cannot overpay it.
	prior, err := s.store.SettledAmount(inv.ID, rec.ID)
	if err != nil {
		return nil, err
	}
	totalReconciled := prior.Add(txn.Amount)
	if totalReconciled.GreaterThan(inv.Amount.Add(ledger.Tolerance)) {
		return nil, fmt.Errorf("invoice %s: %w", inv.ID, ErrOverpayment)
	}

	switch {
	case totalReconciled.GreaterThanOrEqual(inv.Amount.Sub(ledger.Tolerance)):
		inv.Status = models.InvoiceStatusPaid
	case txn.Amount.LessThan(inv.Amount):
		inv.Status = models.InvoiceStatusPartiallyPaid
	}
	if err := s.store.SaveInvoice(inv); err != nil {
		return nil, err
	}

	txn.Status = models.TransactionStatusSettled
	if err := s.store.SaveTransaction(txn); err != nil {
		return nil, err
	}

	now := time.Now()
	rec.Status = models.ReconciliationStatusSettled
	rec.SettledAt = &now
	if err := s.store.SaveReconciliation(rec); err != nil {
		return nil, err
	}
	metrics.Settlements.Inc()

	// A posting failure is logged and swallowed: settlement status takes
	// priority over ledger completeness, and missing entries surface in
	// reconciliation-vs-ledger audits.
	s.postEntry(rec, txn, inv, actor)

	if err := s.store.CreateAuditLog(&models.MatchAuditLog{
		ID:               uuid.New(),
		ReconciliationID: rec.ID,
		TransactionID:    txn.ID,
		InvoiceID:        inv.ID,
		Action:           action,
		PerformedBy:      actor,
		CreatedAt:        now,
	}); err != nil {
		slog.Error("writing settlement audit log", "reconciliation_id", rec.ID, "error", err)
	}

	return rec, nil
}

func (s *Service) postEntry(rec *models.Reconciliation, txn *models.BankTransaction, inv *models.Invoice, actor string) {
	reference := txn.Reference
	if reference == "" {
		reference = txn.ID.String()
	}

	exists, err := s.store.JournalEntryExists(txn.CompanyID, reference)
	if err != nil {
		s.reportPostingFailure(rec, err)
		return
	}
	if exists {
		return
	}

	counterparty := s.counterpartyName(inv)
	narration := buildNarration(txn, inv, counterparty)

	entry, suspense, err := ledger.SettlementEntry(txn, inv, counterparty, narration, reference)
	if err != nil {
		s.reportPostingFailure(rec, err)
		return
	}
	if suspense {
		slog.Warn("settlement GST allocation fell back to suspense",
			"reconciliation_id", rec.ID, "invoice_id", inv.ID)
		if err := s.store.CreateAuditLog(&models.MatchAuditLog{
			ID:               uuid.New(),
			ReconciliationID: rec.ID,
			TransactionID:    txn.ID,
			InvoiceID:        inv.ID,
			Action:           "suspense_allocation",
			PerformedBy:      actor,
			Reason:           "invoice carries no GST components",
			CreatedAt:        time.Now(),
		}); err != nil {
			slog.Error("writing suspense audit log", "reconciliation_id", rec.ID, "error", err)
		}
	}

	if err := s.store.CreateJournalEntry(entry); err != nil {
		s.reportPostingFailure(rec, err)
		return
	}
}

func (s *Service) reportPostingFailure(rec *models.Reconciliation, err error) {
	metrics.PostingFailures.Inc()
	slog.Error("posting settlement journal entry",
		"reconciliation_id", rec.ID,
		"transaction_id", rec.TransactionID,
		"invoice_id", rec.InvoiceID,
		"error", err)
}

func (s *Service) counterpartyName(inv *models.Invoice) string {
	if inv.BuyerID != nil {
		if buyer, err := s.store.GetBuyer(*inv.BuyerID); err == nil {
			return buyer.Name
		}
	}
	if inv.VendorID != nil {
		if vendor, err := s.store.GetVendor(*inv.VendorID); err == nil {
			return vendor.Name
		}
	}
	return "Unknown"
}
