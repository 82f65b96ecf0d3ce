package matching

import "invoice-reconciliation-backend/internal/models"

// Fuzzy accepts amounts within 1% and dates within 5 days. Confidence blends
// the amount deviation (70%) and date proximity (30%); the trailing 0.85
// factor keeps every fuzzy score below the exact-match floor of 0.95.
func Fuzzy(txn *models.BankTransaction, inv *models.Invoice) Result {
	if !inv.Amount.IsPositive() {
		return Result{}
	}
	amountDiff := txn.Amount.Sub(inv.Amount).Abs().Div(inv.Amount).InexactFloat64()
	if amountDiff > 0.01 {
		return Result{}
	}

	dateConfidence := 0.5
	if inv.InvoiceDate != nil {
		gap := dayGap(txn.Date, *inv.InvoiceDate)
		if gap > 5 {
			return Result{}
		}
		dateConfidence = 1.0 - (float64(gap)/5.0)*0.2
	}

	amountConfidence := 1.0 - amountDiff*10

	confidence := (amountConfidence*0.7 + dateConfidence*0.3) * 0.85
	return Result{Confidence: confidence, Type: models.MatchTypeFuzzy}
}
