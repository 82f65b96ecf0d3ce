package matching

import (
	"math"

	"invoice-reconciliation-backend/internal/models"
)

// Fractions customers commonly pay an invoice in.
var commonRatios = []float64{0.5, 0.6, 0.4, 0.3, 0.2, 0.7, 0.8, 0.25, 0.75, 0.33, 0.67}

// Partial scores a payment smaller than the invoice total. Eligibility
// requires a textual link to the invoice number in the transaction reference
// or description. The classification stays fuzzy; the partial semantics are
// carried by the settlement amount.
func Partial(txn *models.BankTransaction, inv *models.Invoice) Result {
	if !txn.Amount.LessThan(inv.Amount) {
		return Result{}
	}

	var referenceConfidence float64
	switch {
	case referencesInvoice(txn.Reference, inv.InvoiceNumber):
		referenceConfidence = 0.95
	case referencesInvoice(txn.Description, inv.InvoiceNumber):
		referenceConfidence = 0.85
	default:
		return Result{}
	}

	dateConfidence := 0.5
	if inv.InvoiceDate != nil {
		daysLate := daysAfter(txn.Date, *inv.InvoiceDate)
		switch {
		case daysLate < 0:
			// Advance payment, penalized.
			dateConfidence = 0.7
		case daysLate <= 90:
			dateConfidence = 1.0
		default:
			dateConfidence = math.Max(0.5, 0.7-float64(daysLate-90)/90.0*0.2)
		}
	}

	ratio := txn.Amount.Div(inv.Amount).InexactFloat64()
	amountConfidence := 0.75
	for _, common := range commonRatios {
		if math.Abs(ratio-common) <= 0.01 {
			amountConfidence = 0.9
			break
		}
	}

	confidence := (referenceConfidence*0.5 + amountConfidence*0.3 + dateConfidence*0.2) * 0.85
	return Result{Confidence: confidence, Type: models.MatchTypeFuzzy}
}
