package matching

import "invoice-reconciliation-backend/internal/models"

// Exact requires the amount to match to the cent and, when the invoice is
// dated, the dates to be at most one day apart. A reference overlap with the
// invoice number lifts the confidence from 0.95 to 0.98.
func Exact(txn *models.BankTransaction, inv *models.Invoice) Result {
	if txn.Amount.Sub(inv.Amount).Abs().GreaterThan(tolerance) {
		return Result{}
	}

	if inv.InvoiceDate != nil && dayGap(txn.Date, *inv.InvoiceDate) > 1 {
		return Result{}
	}

	if txn.Reference != "" && inv.InvoiceNumber != "" && containsEither(txn.Reference, inv.InvoiceNumber) {
		return Result{Confidence: 0.98, Type: models.MatchTypeExact}
	}
	return Result{Confidence: 0.95, Type: models.MatchTypeExact}
}
