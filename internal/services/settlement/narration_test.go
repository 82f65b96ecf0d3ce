package settlement

import (
	"strings"
	"testing"
	"time"

	"invoice-reconciliation-backend/internal/models"
)

func TestPaymentRail(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"RTGSDR-UTIB0000041", "RTGS"},
		{"NEFT-SBIN0050165 ACME TRADERS", "NEFT"},
		{"imps/12345/transfer", "IMPS"},
		{"UPI/409822/payment", "UPI"},
		{"CHQ PAID 000412", "CHQ"},
		{"CASH DEPOSIT BRANCH", ""},
	}
	for _, tt := range tests {
		if got := paymentRail(tt.description); got != tt.want {
			t.Errorf("paymentRail(%q) = %q, want %q", tt.description, got, tt.want)
		}
	}
}

func TestBuildNarration(t *testing.T) {
	txn := &models.BankTransaction{
		Date:        time.Now(),
		Amount:      amount("5000.00"),
		Description: "RTGSDR-UTIB0000041",
		Reference:   "UTIB0000041",
		Type:        models.TransactionTypeCredit,
	}
	inv := &models.Invoice{
		InvoiceNumber: "INV-2024-001",
		Amount:        amount("10000.00"),
	}

	got := buildNarration(txn, inv, "Acme Traders")

	for _, want := range []string{"Receipt", "50%", "INV-2024-001", "Acme Traders", "RTGS", "UTIB0000041"} {
		if !strings.Contains(got, want) {
			t.Errorf("narration %q missing %q", got, want)
		}
	}

	debit := *txn
	debit.Type = models.TransactionTypeDebit
	got = buildNarration(&debit, inv, "Steel Supplies")
	if !strings.Contains(got, "Payment") || !strings.Contains(got, "to Steel Supplies") {
		t.Errorf("debit narration %q should describe a payment to the vendor", got)
	}
}
