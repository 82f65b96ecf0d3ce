package matching

import "invoice-reconciliation-backend/internal/models"

var strategies = []func(*models.BankTransaction, *models.Invoice) Result{
	Exact,
	Fuzzy,
	Partial,
}

// Best reduces the eligible invoices to the single highest-confidence match
// for the transaction. Credit transactions are only compared against sales
// invoices, debits against purchase invoices; paid invoices are skipped. Ties
// keep the first result found, so the exact strategy wins a tie by being
// evaluated first.
func Best(txn *models.BankTransaction, invoices []*models.Invoice) (*models.Invoice, Result) {
	var (
		bestInvoice *models.Invoice
		best        Result
	)
	for _, inv := range invoices {
		if inv.Status == models.InvoiceStatusPaid {
			continue
		}
		if txn.Type == models.TransactionTypeCredit && inv.Type != models.InvoiceTypeSales {
			continue
		}
		if txn.Type == models.TransactionTypeDebit && inv.Type != models.InvoiceTypePurchase {
			continue
		}
		for _, score := range strategies {
			if r := score(txn, inv); r.Confidence > best.Confidence {
				best = r
				bestInvoice = inv
			}
		}
	}
	return bestInvoice, best
}
