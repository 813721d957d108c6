// internal/handlers/ledger/transaction_handler.go
package ledger

import (
	"net/http"
	"strconv"

	"leadflow-service/internal/domain/ledger"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/auth"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/ledger"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	ledgerService *service.LedgerService
}

func NewTransactionHandler(ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// ListTransactions returns ledger entries matching the filters. Brokers are
// pinned to their own sales; admins may filter freely.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var filters ledger.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}
	scopeFilters(principal, &filters)

	transactions, total, err := h.ledgerService.ListTransactions(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "transactions retrieved", gin.H{
		"transactions": transactions,
		"total":        total,
		"page":         filters.Page,
	})
}

// GetTransaction retrieves a single ledger entry.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid transaction ID", err)
		return
	}

	t, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "transaction retrieved", t)
}

// GetRevenueStats aggregates revenue over the filtered set.
func (h *TransactionHandler) GetRevenueStats(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var filters ledger.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}
	scopeFilters(principal, &filters)

	agg, err := h.ledgerService.AggregateRevenue(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "revenue stats retrieved", agg)
}

// scopeFilters narrows the read-side view to what the caller may see.
func scopeFilters(p auth.Principal, filters *ledger.ListFilters) {
	switch {
	case p.IsAdmin():
		// unrestricted
	case p.HasRole(auth.RoleBroker):
		filters.PosterID = p.IdentityID
	default:
		filters.BuyerID = p.IdentityID
	}
}
