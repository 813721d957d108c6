// internal/app/router.go
package app

import (
	leadHandler "leadflow-service/internal/handlers/lead"
	ledgerHandler "leadflow-service/internal/handlers/ledger"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/auth"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	LeadHandler        *leadHandler.LeadHandler
	TransactionHandler *ledgerHandler.TransactionHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Leads ====================
	leads := api.Group("/leads")
	leads.Use(h.AuthMiddleware.Auth())
	{
		// Marketplace view; visibility filtering applies per caller
		leads.GET("", h.LeadHandler.ListLeads)
		leads.GET("/:id", h.LeadHandler.GetLead)
		leads.GET("/:id/assignment", h.LeadHandler.GetLeadAssignment)

		// Posting (brokers and the platform operator)
		leads.POST("", h.AuthMiddleware.RequireRole(auth.RoleAdmin, auth.RoleBroker), h.LeadHandler.CreateLead)

		// Buying (contractors)
		leads.POST("/:id/purchase", h.AuthMiddleware.RequireRole(auth.RoleContractor), h.LeadHandler.PurchaseLead)

		// Lifecycle administration
		admin := leads.Group("")
		admin.Use(h.AuthMiddleware.RequireRole(auth.RoleAdmin, auth.RoleBroker))
		{
			admin.PUT("/:id/expire", h.LeadHandler.ExpireLead)
			admin.PUT("/:id/reactivate", h.LeadHandler.ReactivateLead)
			admin.PUT("/:id/archive", h.LeadHandler.ArchiveLead)
		}

		leads.DELETE("/:id", h.AuthMiddleware.RequireRole(auth.RoleAdmin), h.LeadHandler.DeleteLead)
	}

	// ==================== Transactions ====================
	transactions := api.Group("/transactions")
	transactions.Use(h.AuthMiddleware.Auth())
	{
		transactions.GET("", h.TransactionHandler.ListTransactions)
		transactions.GET("/:id", h.TransactionHandler.GetTransaction)
		transactions.GET("/stats", h.TransactionHandler.GetRevenueStats)
	}
}
