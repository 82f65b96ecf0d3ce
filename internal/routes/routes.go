package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	handler "invoice-reconciliation-backend/internal/handlers"
	"invoice-reconciliation-backend/internal/repository/postgres"
	reconciliation "invoice-reconciliation-backend/internal/services/reconciliation"
	settlement "invoice-reconciliation-backend/internal/services/settlement"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	store := postgres.New(db)

	reconService := reconciliation.NewService(store)
	settleService := settlement.New(store)

	reconHandler := handler.NewReconciliationHandler(reconService, settleService, store)
	ingestHandler := handler.NewIngestionHandler(store)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Reconciliation engine
	recon := api.Group("/reconciliation")
	recon.POST("/run", reconHandler.Run)
	recon.POST("/settle", reconHandler.ManualSettle)

	api.GET("/reconciliations", reconHandler.ListReconciliations)
	api.POST("/reconciliations/:id/settle", reconHandler.SettleReconciliation)

	// Ingestion collaborators
	api.POST("/companies", ingestHandler.CreateCompany)
	api.POST("/invoices", ingestHandler.CreateInvoice)
	api.POST("/transactions", ingestHandler.CreateTransaction)
}
