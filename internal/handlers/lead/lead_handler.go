// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"
	"strconv"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// CreateLead routes a new lead into one of the three distribution channels.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var input lead.CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	created, err := h.leadService.CreateLead(c.Request.Context(), principal, &input)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "lead created", created)
}

// GetLead retrieves a lead by ID
func (h *LeadHandler) GetLead(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.leadService.GetLead(c.Request.Context(), principal, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead retrieved", l)
}

// ListLeads returns the marketplace view for the caller.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	var filters lead.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	leads, total, err := h.leadService.ListLeads(c.Request.Context(), principal, &filters)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "leads retrieved", gin.H{
		"leads": leads,
		"total": total,
		"page":  filters.Page,
	})
}

// PurchaseLead confirms a sale for the authenticated contractor. The amount
// has already been authorized by the payment processor.
func (h *LeadHandler) PurchaseLead(c *gin.Context) {
	principal := middleware.MustGetPrincipal(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var input lead.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.leadService.ConfirmPurchase(c.Request.Context(), principal, id, input.Amount)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead purchased", result)
}

// ExpireLead flips an available lead to expired (administrative action).
func (h *LeadHandler) ExpireLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.leadService.ExpireLead(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead expired", l)
}

// ReactivateLead returns an expired lead to the marketplace.
func (h *LeadHandler) ReactivateLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.leadService.ReactivateLead(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead reactivated", l)
}

// ArchiveLead retires a lead from circulation.
func (h *LeadHandler) ArchiveLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.leadService.ArchiveLead(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead archived", l)
}

// DeleteLead deletes a lead (hard for seed data, soft otherwise).
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "lead deleted", nil)
}

// GetLeadAssignment returns the assignment record of an exclusive lead.
func (h *LeadHandler) GetLeadAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.leadService.GetLeadAssignment(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "assignment retrieved", a)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid lead ID", err)
		return 0, false
	}
	return id, true
}
