package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Rails in the order bank narrations usually spell them, e.g.
// "RTGSDR-UTIB0000041" or "NEFT-SBIN0050165".
var paymentRails = []string{"RTGS", "NEFT", "IMPS", "UPI", "CHQ"}

// paymentRail extracts the payment rail from a bank narration, or "".
func paymentRail(description string) string {
	upper := strings.ToUpper(description)
	for _, rail := range paymentRails {
		if strings.Contains(upper, rail) {
			return rail
		}
	}
	return ""
}

// buildNarration describes the settlement: percentage paid, counterparty and,
// when detectable, the payment rail and bank reference.
func buildNarration(txn *models.BankTransaction, inv *models.Invoice, counterparty string) string {
	verb, preposition := "Receipt", "from"
	if txn.Type == models.TransactionTypeDebit {
		verb, preposition = "Payment", "to"
	}

	var b strings.Builder
	if inv.Amount.IsPositive() {
		pct := txn.Amount.Div(inv.Amount).Mul(hundred).Round(1)
		fmt.Fprintf(&b, "%s of %s%% against invoice %s %s %s", verb, pct, inv.InvoiceNumber, preposition, counterparty)
	} else {
		fmt.Fprintf(&b, "%s against invoice %s %s %s", verb, inv.InvoiceNumber, preposition, counterparty)
	}

	if rail := paymentRail(txn.Description); rail != "" {
		fmt.Fprintf(&b, " via %s", rail)
	}
	if txn.Reference != "" {
		fmt.Fprintf(&b, " (ref %s)", txn.Reference)
	}
	return b.String()
}
