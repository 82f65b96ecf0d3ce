package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"invoice-reconciliation-backend/internal/ledger"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
)

// IngestionHandler admits already-structured records from the upstream
// collaborators (invoice processing and statement parsing).
type IngestionHandler struct {
	store repository.Store
}

func NewIngestionHandler(store repository.Store) *IngestionHandler {
	return &IngestionHandler{store: store}
}

func (h *IngestionHandler) CreateCompany(c *gin.Context) {
	var payload struct {
		Name  string `json:"name"`
		GSTIN string `json:"gstin"`
	}
	if err := c.BindJSON(&payload); err != nil || payload.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	company := &models.Company{
		ID:        uuid.New(),
		Name:      payload.Name,
		GSTIN:     payload.GSTIN,
		CreatedAt: time.Now(),
	}
	if err := h.store.CreateCompany(company); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company created", "company": company})
}

// CreateInvoice records an invoice and posts its sales/purchase journal
// entry, mirroring what the extraction pipeline feeds this engine.
func (h *IngestionHandler) CreateInvoice(c *gin.Context) {
	var payload struct {
		CompanyID        string          `json:"company_id"`
		Type             string          `json:"type"`
		InvoiceNumber    string          `json:"invoice_number"`
		InvoiceDate      string          `json:"invoice_date"` // "yyyy-mm-dd"
		CounterpartyName string          `json:"counterparty_name"`
		Amount           decimal.Decimal `json:"amount"`
		TaxableAmount    decimal.Decimal `json:"taxable_amount"`
		IGSTAmount       decimal.Decimal `json:"igst_amount"`
		CGSTAmount       decimal.Decimal `json:"cgst_amount"`
		SGSTAmount       decimal.Decimal `json:"sgst_amount"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}
	invoiceType := models.InvoiceType(payload.Type)
	if invoiceType != models.InvoiceTypeSales && invoiceType != models.InvoiceTypePurchase {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be sales or purchase"})
		return
	}
	if !payload.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	var invoiceDate *time.Time
	if payload.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice date, expected yyyy-mm-dd"})
			return
		}
		invoiceDate = &parsed
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Type:          invoiceType,
		InvoiceNumber: payload.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		Amount:        payload.Amount,
		TaxableAmount: payload.TaxableAmount,
		IGSTAmount:    payload.IGSTAmount,
		CGSTAmount:    payload.CGSTAmount,
		SGSTAmount:    payload.SGSTAmount,
		Status:        models.InvoiceStatusPending,
		CreatedAt:     time.Now(),
	}

	counterparty := payload.CounterpartyName
	if counterparty == "" {
		counterparty = "Unknown"
	}
	if invoiceType == models.InvoiceTypeSales {
		buyer, err := h.store.FindOrCreateBuyer(companyID, counterparty)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invoice.BuyerID = &buyer.ID
	} else {
		vendor, err := h.store.FindOrCreateVendor(companyID, counterparty)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		invoice.VendorID = &vendor.ID
	}

	// Validate the posting before persisting anything, so a rejected invoice
	// leaves no record behind.
	entry, err := ledger.InvoiceEntry(invoice, counterparty)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	err = h.store.WithinTx(func(tx repository.Store) error {
		if err := tx.CreateInvoice(invoice); err != nil {
			return err
		}
		return tx.CreateJournalEntry(entry)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invoice created", "invoice": invoice})
}

// CreateTransaction records one bank-statement line item in status unmatched.
func (h *IngestionHandler) CreateTransaction(c *gin.Context) {
	var payload struct {
		CompanyID   string          `json:"company_id"`
		Date        string          `json:"date"` // "yyyy-mm-dd"
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Reference   string          `json:"reference"`
		Type        string          `json:"type"`
		Category    string          `json:"category"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}
	txnType := models.TransactionType(payload.Type)
	if txnType != models.TransactionTypeCredit && txnType != models.TransactionTypeDebit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be credit or debit"})
		return
	}
	if !payload.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
		return
	}

	txn := &models.BankTransaction{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Date:        date,
		Amount:      payload.Amount,
		Description: payload.Description,
		Reference:   payload.Reference,
		Type:        txnType,
		Status:      models.TransactionStatusUnmatched,
		Category:    payload.Category,
		CreatedAt:   time.Now(),
	}
	if err := h.store.CreateTransaction(txn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction created", "transaction": txn})
}
