// Package ledger builds double-entry journal postings for invoices and
// settlements and enforces the balance invariant on every entry it produces.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
)

// Tolerance absorbs rounding on all monetary equality comparisons.
var Tolerance = decimal.RequireFromString("0.01")

func line(entryID uuid.UUID, code, name string, debit, credit decimal.Decimal) models.JournalEntryLine {
	return models.JournalEntryLine{
		ID:          uuid.New(),
		EntryID:     entryID,
		AccountCode: code,
		AccountName: name,
		Debit:       debit,
		Credit:      credit,
	}
}

// Validate checks the accounting identity: sum(debit) == sum(credit) within
// Tolerance.
func Validate(lines []models.JournalEntryLine) error {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if debit.Sub(credit).Abs().GreaterThan(Tolerance) {
		return fmt.Errorf("unbalanced entry: debit %s, credit %s", debit, credit)
	}
	return nil
}

// InvoiceEntry builds the posting recorded when an invoice is ingested.
// Sales: debit Debtors for the gross amount, credit Sales for the taxable
// amount plus GST payable per component. Purchase: the mirror image against
// Creditors and GST input accounts.
func InvoiceEntry(inv *models.Invoice, counterparty string) (*models.JournalEntry, error) {
	date := time.Now()
	if inv.InvoiceDate != nil {
		date = *inv.InvoiceDate
	}

	entry := &models.JournalEntry{
		ID:        uuid.New(),
		CompanyID: inv.CompanyID,
		Date:      date,
		Reference: inv.InvoiceNumber,
		CreatedAt: time.Now(),
	}

	if inv.Type == models.InvoiceTypeSales {
		entry.Type = models.EntryTypeSales
		entry.Narration = fmt.Sprintf("Sales invoice %s", inv.InvoiceNumber)
		entry.Lines = append(entry.Lines,
			line(entry.ID, AccountDebtors, fmt.Sprintf("Debtors – %s", counterparty), inv.Amount, decimal.Zero),
			line(entry.ID, AccountSales, "Sales A/c", decimal.Zero, inv.TaxableAmount),
		)
		if inv.IGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountIGSTPayable, "IGST Payable A/c", decimal.Zero, inv.IGSTAmount))
		}
		if inv.CGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountCGSTPayable, "CGST Payable A/c", decimal.Zero, inv.CGSTAmount))
		}
		if inv.SGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountSGSTPayable, "SGST Payable A/c", decimal.Zero, inv.SGSTAmount))
		}
	} else {
		entry.Type = models.EntryTypePurchase
		entry.Narration = fmt.Sprintf("Purchase invoice %s", inv.InvoiceNumber)
		entry.Lines = append(entry.Lines,
			line(entry.ID, AccountPurchases, "Purchase Expenses", inv.TaxableAmount, decimal.Zero),
		)
		if inv.IGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountIGSTInput, "IGST Input A/c", inv.IGSTAmount, decimal.Zero))
		}
		if inv.CGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountCGSTInput, "CGST Input A/c", inv.CGSTAmount, decimal.Zero))
		}
		if inv.SGSTAmount.IsPositive() {
			entry.Lines = append(entry.Lines,
				line(entry.ID, AccountSGSTInput, "SGST Input A/c", inv.SGSTAmount, decimal.Zero))
		}
		entry.Lines = append(entry.Lines,
			line(entry.ID, AccountCreditors, fmt.Sprintf("Creditors – %s", counterparty), decimal.Zero, inv.Amount),
		)
	}

	if err := Validate(entry.Lines); err != nil {
		return nil, err
	}
	return entry, nil
}

// SettlementEntry builds the posting for a settled reconciliation. Credit
// transactions produce a receipt, debit transactions a payment. A full
// payment is two lines (Bank against the counterparty control account). A
// partial payment keeps the 1-debit/2-credit shape: the control account is
// relieved of the principal portion, taxable_amount * (txn/invoice), and the
// remainder goes to the GST settlement account matching the invoice's tax
// components, or to Suspense when the invoice carries no GST. The returned
// bool reports the Suspense fallback.
func SettlementEntry(txn *models.BankTransaction, inv *models.Invoice, counterparty, narration, reference string) (*models.JournalEntry, bool, error) {
	entry := &models.JournalEntry{
		ID:        uuid.New(),
		CompanyID: txn.CompanyID,
		Date:      txn.Date,
		Narration: narration,
		Reference: reference,
		CreatedAt: time.Now(),
	}

	controlCode, controlName := AccountDebtors, fmt.Sprintf("Debtors – %s", counterparty)
	entry.Type = models.EntryTypeReceipt
	if txn.Type == models.TransactionTypeDebit {
		entry.Type = models.EntryTypePayment
		controlCode, controlName = AccountCreditors, fmt.Sprintf("Creditors – %s", counterparty)
	}

	entry.Lines = append(entry.Lines,
		line(entry.ID, AccountBank, "Bank A/c", txn.Amount, decimal.Zero))

	suspense := false
	if txn.Amount.Sub(inv.Amount).Abs().LessThanOrEqual(Tolerance) {
		// Full payment: single credit to the control account.
		entry.Lines = append(entry.Lines,
			line(entry.ID, controlCode, controlName, decimal.Zero, txn.Amount))
	} else {
		principal := inv.TaxableAmount.Mul(txn.Amount).Div(inv.Amount).Round(2)
		remainder := txn.Amount.Sub(principal)

		gstCode, gstName := AccountSuspense, "Suspense A/c"
		switch {
		case inv.IGSTAmount.IsPositive():
			gstCode, gstName = AccountIGSTSettlement, "IGST Settlement A/c"
		case inv.CGSTAmount.IsPositive() || inv.SGSTAmount.IsPositive():
			gstCode, gstName = AccountGSTSettlement, "CGST/SGST Settlement A/c"
		default:
			suspense = true
		}

		entry.Lines = append(entry.Lines,
			line(entry.ID, controlCode, controlName, decimal.Zero, principal),
			line(entry.ID, gstCode, gstName, decimal.Zero, remainder),
		)
	}

	if err := Validate(entry.Lines); err != nil {
		return nil, false, err
	}
	return entry, suspense, nil
}
