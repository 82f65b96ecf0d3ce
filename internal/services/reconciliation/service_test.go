package reconciliation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/repository/memory"
	"invoice-reconciliation-backend/internal/services/settlement"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	store   *memory.Store
	company uuid.UUID
	buyer   *models.Buyer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	companyID := uuid.New()
	if err := store.CreateCompany(&models.Company{ID: companyID, Name: "Test Co"}); err != nil {
		t.Fatal(err)
	}
	buyer, err := store.FindOrCreateBuyer(companyID, "Acme Traders")
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{store: store, company: companyID, buyer: buyer}
}

func (f *fixture) addTransaction(t *testing.T, amt, date, reference, description string) *models.BankTransaction {
	t.Helper()
	txn := &models.BankTransaction{
		ID:          uuid.New(),
		CompanyID:   f.company,
		Date:        day(date),
		Amount:      amount(amt),
		Reference:   reference,
		Description: description,
		Type:        models.TransactionTypeCredit,
		Status:      models.TransactionStatusUnmatched,
	}
	if err := f.store.CreateTransaction(txn); err != nil {
		t.Fatal(err)
	}
	return txn
}

func (f *fixture) addInvoice(t *testing.T, number, amt, taxable, igst, date string) *models.Invoice {
	t.Helper()
	inv := &models.Invoice{
		ID:            uuid.New(),
		CompanyID:     f.company,
		BuyerID:       &f.buyer.ID,
		Type:          models.InvoiceTypeSales,
		InvoiceNumber: number,
		Amount:        amount(amt),
		TaxableAmount: amount(taxable),
		IGSTAmount:    amount(igst),
		Status:        models.InvoiceStatusPending,
	}
	if date != "" {
		d := day(date)
		inv.InvoiceDate = &d
	}
	if err := f.store.CreateInvoice(inv); err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestReconcileExactMatch(t *testing.T) {
	f := newFixture(t)
	txn := f.addTransaction(t, "11800.00", "2024-04-10", "UTR123", "")
	inv := f.addInvoice(t, "INV-2024-001", "11800.00", "10000.00", "1800.00", "2024-04-10")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TotalTransactions != 1 || summary.MatchesFound != 1 {
		t.Fatalf("summary = %+v, want 1 transaction and 1 match", summary)
	}
	if summary.ExactMatches != 1 || summary.FuzzyMatches != 0 {
		t.Errorf("got %d exact / %d fuzzy, want 1 / 0", summary.ExactMatches, summary.FuzzyMatches)
	}
	if summary.AutoSettled != 1 {
		t.Errorf("auto_settled = %d, want 1", summary.AutoSettled)
	}
	if len(summary.Matches) != 1 {
		t.Fatalf("got %d match records, want 1", len(summary.Matches))
	}
	match := summary.Matches[0]
	if match.TransactionID != txn.ID || match.InvoiceID != inv.ID {
		t.Error("match record references the wrong pair")
	}
	if match.MatchType != models.MatchTypeExact || match.Confidence < 0.95 {
		t.Errorf("match = %+v, want exact with confidence >= 0.95", match)
	}

	gotInv, _ := f.store.GetInvoice(inv.ID)
	if gotInv.Status != models.InvoiceStatusPaid {
		t.Errorf("invoice status = %q, want paid", gotInv.Status)
	}
	gotTxn, _ := f.store.GetTransaction(txn.ID)
	if gotTxn.Status != models.TransactionStatusSettled {
		t.Errorf("transaction status = %q, want settled", gotTxn.Status)
	}
	if got := len(f.store.JournalEntries()); got != 1 {
		t.Errorf("got %d journal entries, want 1", got)
	}
}

func TestReconcileFuzzyMatch(t *testing.T) {
	f := newFixture(t)
	f.addTransaction(t, "11750.00", "2024-04-13", "", "")
	f.addInvoice(t, "INV-2024-002", "11800.00", "10000.00", "1800.00", "2024-04-10")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.FuzzyMatches != 1 || summary.ExactMatches != 0 {
		t.Fatalf("got %d fuzzy / %d exact, want 1 / 0 (summary %+v)", summary.FuzzyMatches, summary.ExactMatches, summary)
	}
	got := summary.Matches[0].Confidence
	if got < 0.70 || got >= 0.95 {
		t.Errorf("fuzzy confidence = %v, want within [0.70, 0.95)", got)
	}
}

func TestReconcileNoMatch(t *testing.T) {
	f := newFixture(t)
	txn := f.addTransaction(t, "999999.00", "2024-04-10", "", "")
	f.addInvoice(t, "INV-2024-003", "11800.00", "10000.00", "1800.00", "2024-04-10")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.MatchesFound != 0 {
		t.Errorf("matches_found = %d, want 0", summary.MatchesFound)
	}
	if summary.TotalTransactions != 1 {
		t.Errorf("total_transactions = %d, want 1", summary.TotalTransactions)
	}
	gotTxn, _ := f.store.GetTransaction(txn.ID)
	if gotTxn.Status != models.TransactionStatusUnmatched {
		t.Errorf("transaction status = %q, want unmatched", gotTxn.Status)
	}
}

func TestReconcileThresholdGate(t *testing.T) {
	f := newFixture(t)
	// Undated invoice, ~0.5% amount deviation: fuzzy scores
	// (0.95*0.7 + 0.5*0.3)*0.85 ≈ 0.693, below the 0.70 gate. No reference
	// or description link, so the partial strategy is ineligible too.
	f.addTransaction(t, "9950.00", "2024-04-10", "", "")
	inv := f.addInvoice(t, "ZQ-88", "10000.00", "8475.00", "1525.00", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}
	if summary.MatchesFound != 0 {
		t.Fatalf("below-threshold pair was matched: %+v", summary)
	}
	recs, _ := f.store.ListReconciliations(f.company)
	if len(recs) != 0 {
		t.Fatalf("got %d reconciliations, want 0", len(recs))
	}

	// The operator override still works for the same pair.
	txns, _ := f.store.UnmatchedTransactions(f.company)
	rec, err := settlement.New(f.store).ManualSettle(txns[0].ID, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MatchType != models.MatchTypeManual || rec.Confidence != 1.0 {
		t.Errorf("manual reconciliation = %+v, want manual type with confidence 1.0", rec)
	}
	if rec.Status != models.ReconciliationStatusSettled {
		t.Errorf("status = %q, want settled", rec.Status)
	}
}

func TestReconcileEmptySets(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.store)

	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Message == "" {
		t.Error("empty run should carry a message")
	}
	if summary.TotalTransactions != 0 || summary.MatchesFound != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
}

func TestReconcileTwoPartialPaymentsSameInvoice(t *testing.T) {
	f := newFixture(t)
	inv := f.addInvoice(t, "INV-2024-010", "10000.00", "8475.00", "1525.00", "2024-04-01")
	f.addTransaction(t, "5000.00", "2024-04-10", "INV-2024-010 first", "")
	f.addTransaction(t, "5000.00", "2024-04-20", "INV-2024-010 second", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.MatchesFound != 2 {
		t.Fatalf("matches_found = %d, want 2 (summary %+v)", summary.MatchesFound, summary)
	}

	gotInv, _ := f.store.GetInvoice(inv.ID)
	if gotInv.Status != models.InvoiceStatusPaid {
		t.Errorf("invoice status = %q, want paid after two half payments", gotInv.Status)
	}

	// No overpayment: settled total equals the invoice amount.
	total, err := f.store.SettledAmount(inv.ID, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if !total.Equal(amount("10000.00")) {
		t.Errorf("settled total = %s, want 10000.00", total)
	}
}

func TestReconcileDropsFailedMatch(t *testing.T) {
	f := newFixture(t)
	// Two 60% payments both reference the invoice; the second would overpay,
	// so its settlement fails and the reconciliation must not stay pending.
	inv := f.addInvoice(t, "INV-2024-100", "10000.00", "8475.00", "1525.00", "2024-04-01")
	f.addTransaction(t, "6000.00", "2024-04-10", "INV-2024-100 A", "")
	f.addTransaction(t, "6000.00", "2024-04-12", "INV-2024-100 B", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.MatchesFound != 1 {
		t.Fatalf("matches_found = %d, want 1 (summary %+v)", summary.MatchesFound, summary)
	}
	recs, _ := f.store.ListReconciliations(f.company)
	if len(recs) != 1 {
		t.Fatalf("got %d reconciliations, want only the settled one", len(recs))
	}
	if recs[0].Status != models.ReconciliationStatusSettled {
		t.Errorf("surviving reconciliation status = %q, want settled", recs[0].Status)
	}

	// The dropped record must not resurface through later sweeps.
	again, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}
	if again.SettledExisting != 0 {
		t.Errorf("settled_existing = %d on re-run, want 0", again.SettledExisting)
	}
	gotInv, _ := f.store.GetInvoice(inv.ID)
	if gotInv.Status != models.InvoiceStatusPartiallyPaid {
		t.Errorf("invoice status = %q, want partially_paid", gotInv.Status)
	}
}

func TestReconcileSweepDropsStaleReconciliation(t *testing.T) {
	f := newFixture(t)
	txn := f.addTransaction(t, "11800.00", "2024-04-10", "UTR300", "")
	invA := f.addInvoice(t, "INV-2024-300", "11800.00", "10000.00", "1800.00", "2024-04-10")
	invB := f.addInvoice(t, "INV-2024-301", "9000.00", "9000.00", "0.00", "2024-04-10")

	if _, err := settlement.New(f.store).ManualSettle(txn.ID, invA.ID); err != nil {
		t.Fatal(err)
	}

	// A pending record pairing the consumed transaction with another invoice.
	stale := &models.Reconciliation{
		ID:            uuid.New(),
		TransactionID: txn.ID,
		InvoiceID:     invB.ID,
		MatchType:     models.MatchTypeManual,
		Confidence:    1.0,
		Status:        models.ReconciliationStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := f.store.CreateReconciliation(stale); err != nil {
		t.Fatal(err)
	}
	// An unrelated transaction keeps the run non-empty.
	f.addTransaction(t, "42.00", "2024-04-10", "", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	// The sweep must not settle the same bank credit a second time.
	if summary.SettledExisting != 0 {
		t.Errorf("settled_existing = %d, want 0", summary.SettledExisting)
	}
	if _, err := f.store.GetReconciliation(stale.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stale reconciliation lookup: err = %v, want ErrNotFound", err)
	}
	gotB, _ := f.store.GetInvoice(invB.ID)
	if gotB.Status != models.InvoiceStatusPending {
		t.Errorf("second invoice status = %q, want pending", gotB.Status)
	}

	recs, _ := f.store.ListReconciliations(f.company)
	var settled int
	for _, rec := range recs {
		if rec.TransactionID == txn.ID && rec.Status == models.ReconciliationStatusSettled {
			settled++
		}
	}
	if settled != 1 {
		t.Errorf("transaction belongs to %d settled reconciliations, want 1", settled)
	}
}

func TestReconcileSweepsPendingReconciliations(t *testing.T) {
	f := newFixture(t)
	txn := f.addTransaction(t, "11800.00", "2024-04-10", "", "")
	inv := f.addInvoice(t, "INV-2024-020", "11800.00", "10000.00", "1800.00", "2024-04-10")

	// A reconciliation left pending by an earlier manual request.
	rec := &models.Reconciliation{
		ID:            uuid.New(),
		TransactionID: txn.ID,
		InvoiceID:     inv.ID,
		MatchType:     models.MatchTypeManual,
		Confidence:    1.0,
		Status:        models.ReconciliationStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := f.store.CreateReconciliation(rec); err != nil {
		t.Fatal(err)
	}
	// Park the transaction so the matcher does not grab it first.
	txn.Status = models.TransactionStatusMatched
	if err := f.store.SaveTransaction(txn); err != nil {
		t.Fatal(err)
	}
	// Another transaction keeps the run non-empty.
	f.addTransaction(t, "42.00", "2024-04-10", "", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}

	if summary.SettledExisting != 1 {
		t.Fatalf("settled_existing = %d, want 1 (summary %+v)", summary.SettledExisting, summary)
	}
	gotRec, _ := f.store.GetReconciliation(rec.ID)
	if gotRec.Status != models.ReconciliationStatusSettled {
		t.Errorf("swept reconciliation status = %q, want settled", gotRec.Status)
	}
}

func TestReconcileNeverBelowThreshold(t *testing.T) {
	f := newFixture(t)
	// A spread of invoices and transactions; whatever matches must clear
	// the gate.
	f.addInvoice(t, "INV-1", "11800.00", "10000.00", "1800.00", "2024-04-10")
	f.addInvoice(t, "INV-2", "5000.00", "4237.00", "763.00", "2024-04-12")
	f.addInvoice(t, "INV-3", "900.00", "900.00", "0.00", "")
	f.addTransaction(t, "11800.00", "2024-04-10", "INV-1", "")
	f.addTransaction(t, "4990.00", "2024-04-13", "", "")
	f.addTransaction(t, "123.00", "2024-04-10", "", "")

	svc := NewService(f.store)
	summary, err := svc.Reconcile(f.company)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range summary.Matches {
		if m.Confidence < SettlementThreshold {
			t.Errorf("match %+v below threshold %v", m, SettlementThreshold)
		}
	}
}
