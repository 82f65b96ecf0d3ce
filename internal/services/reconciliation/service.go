// Package reconciliation orchestrates a reconciliation run: it pairs
// unmatched bank transactions with open invoices via the matching strategies,
// gates acceptance on the settlement threshold and hands accepted matches to
// the settlement engine.
package reconciliation

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoice-reconciliation-backend/internal/metrics"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/services/matching"
	"invoice-reconciliation-backend/internal/services/settlement"
)

// SettlementThreshold is the minimum confidence for auto-settlement.
const SettlementThreshold = 0.70

type MatchResult struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	InvoiceID     uuid.UUID        `json:"invoice_id"`
	MatchType     models.MatchType `json:"match_type"`
	Confidence    float64          `json:"confidence"`
	AutoSettled   bool             `json:"auto_settled"`
}

type Summary struct {
	TotalTransactions int           `json:"total_transactions"`
	MatchesFound      int           `json:"matches_found"`
	ExactMatches      int           `json:"exact_matches"`
	FuzzyMatches      int           `json:"fuzzy_matches"`
	AutoSettled       int           `json:"auto_settled"`
	SettledExisting   int           `json:"settled_existing"`
	Matches           []MatchResult `json:"matches"`
	Message           string        `json:"message,omitempty"`
}

type Service struct {
	store repository.Store
	locks sync.Map // companyID -> *sync.Mutex
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func (s *Service) companyLock(companyID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(companyID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Reconcile runs one reconciliation pass for the company. Runs for the same
// company are serialized, and the whole pass commits as one transaction.
func (s *Service) Reconcile(companyID uuid.UUID) (*Summary, error) {
	mu := s.companyLock(companyID)
	mu.Lock()
	defer mu.Unlock()

	var summary *Summary
	err := s.store.WithinTx(func(store repository.Store) error {
		var err error
		summary, err = reconcile(store, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.ReconciliationRuns.Inc()
	return summary, nil
}

func reconcile(store repository.Store, companyID uuid.UUID) (*Summary, error) {
	txns, err := store.UnmatchedTransactions(companyID)
	if err != nil {
		return nil, err
	}
	invoices, err := store.OpenInvoices(companyID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalTransactions: len(txns),
		Matches:           []MatchResult{},
	}
	if len(txns) == 0 || len(invoices) == 0 {
		summary.Message = "no unmatched transactions or open invoices"
		return summary, nil
	}

	settler := settlement.New(store)

	for _, txn := range txns {
		inv, result := matching.Best(txn, invoices)
		if inv == nil || !result.Matched() || result.Confidence < SettlementThreshold {
			continue
		}

		details, _ := json.Marshal(map[string]any{
			"match_type":       result.Type,
			"confidence":       result.Confidence,
			"invoice_number":   inv.InvoiceNumber,
			"transaction_ref":  txn.Reference,
			"transaction_desc": txn.Description,
		})
		rec := &models.Reconciliation{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			InvoiceID:     inv.ID,
			MatchType:     result.Type,
			Confidence:    result.Confidence,
			Status:        models.ReconciliationStatusPending,
			MatchDetails:  details,
			CreatedAt:     time.Now(),
		}
		if err := store.CreateReconciliation(rec); err != nil {
			return nil, err
		}
		if _, err := settler.Settle(rec.ID); err != nil {
			slog.Error("settling new reconciliation",
				"reconciliation_id", rec.ID, "transaction_id", txn.ID, "error", err)
			// Drop the record rather than leave it pending, or every later
			// run would sweep and re-fail it.
			if derr := store.DeleteReconciliation(rec.ID); derr != nil {
				return nil, derr
			}
			continue
		}

		// Refresh the local copy so an invoice paid off mid-run stops
		// matching later transactions.
		if fresh, err := store.GetInvoice(inv.ID); err == nil {
			*inv = *fresh
		}

		if result.Type == models.MatchTypeExact {
			summary.ExactMatches++
		} else {
			summary.FuzzyMatches++
		}
		metrics.MatchesFound.WithLabelValues(string(result.Type)).Inc()
		summary.MatchesFound++
		summary.AutoSettled++
		summary.Matches = append(summary.Matches, MatchResult{
			TransactionID: txn.ID,
			InvoiceID:     inv.ID,
			MatchType:     result.Type,
			Confidence:    result.Confidence,
			AutoSettled:   true,
		})
	}

	// Sweep reconciliations created earlier via manual settlement requests
	// that are still pending.
	pending, err := store.PendingReconciliations(companyID)
	if err != nil {
		return nil, err
	}
	for _, rec := range pending {
		if _, err := settler.Settle(rec.ID); err != nil {
			slog.Error("settling existing reconciliation",
				"reconciliation_id", rec.ID, "error", err)
			// A pending record that cannot settle is stale, e.g. its
			// transaction has since settled elsewhere. Remove it so it
			// stops resurfacing.
			if derr := store.DeleteReconciliation(rec.ID); derr != nil {
				return nil, derr
			}
			continue
		}
		summary.SettledExisting++
	}

	return summary, nil
}
