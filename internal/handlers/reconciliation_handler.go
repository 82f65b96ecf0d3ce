package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoice-reconciliation-backend/internal/repository"
	reconciliation "invoice-reconciliation-backend/internal/services/reconciliation"
	settlement "invoice-reconciliation-backend/internal/services/settlement"
)

type ReconciliationHandler struct {
	recon  *reconciliation.Service
	settle *settlement.Service
	store  repository.Store
}

func NewReconciliationHandler(recon *reconciliation.Service, settle *settlement.Service, store repository.Store) *ReconciliationHandler {
	return &ReconciliationHandler{recon: recon, settle: settle, store: store}
}

// Run triggers a reconciliation pass for a company.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}

	summary, err := h.recon.Reconcile(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SettleReconciliation settles a single reconciliation by id.
func (h *ReconciliationHandler) SettleReconciliation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reconciliation ID"})
		return
	}

	rec, err := h.settle.Settle(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reconciliation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation settled", "reconciliation": rec})
}

// ManualSettle pairs a transaction with an invoice on operator authority,
// bypassing the confidence gate.
func (h *ReconciliationHandler) ManualSettle(c *gin.Context) {
	var payload struct {
		TransactionID string `json:"transaction_id"`
		InvoiceID     string `json:"invoice_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	txnID, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	rec, err := h.settle.ManualSettle(txnID, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction or invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settled", "reconciliation": rec})
}

// ListReconciliations returns all reconciliations for a company.
func (h *ReconciliationHandler) ListReconciliations(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company ID"})
		return
	}

	recs, err := h.store.ListReconciliations(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": recs, "count": len(recs)})
}
