package handlers

import (
	"net/http"
	"time"

	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BillHandler holds the billing service.
type BillHandler struct {
	billingService services.BillingService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(bs services.BillingService) *BillHandler {
	return &BillHandler{billingService: bs}
}

// monthParam reads the optional ?month=YYYY-MM query, defaulting to now.
func monthParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse("2006-01", raw)
	if err != nil {
		utils.RespondValidationFailed(c, "invalid month, expected YYYY-MM")
		return time.Time{}, false
	}
	return parsed, true
}

// CreateTemplate handles creating a recurring bill template.
func (h *BillHandler) CreateTemplate(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateBillTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	template, err := h.billingService.CreateTemplate(orgID, req)
	if err != nil {
		respondServiceError(c, err, "CreateTemplate")
		return
	}
	c.JSON(http.StatusCreated, template)
}

// GetTemplates handles listing all templates.
func (h *BillHandler) GetTemplates(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	templates, err := h.billingService.GetTemplates(orgID)
	if err != nil {
		respondServiceError(c, err, "GetTemplates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": templates})
}

// GetTemplateByID handles fetching a single template.
func (h *BillHandler) GetTemplateByID(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	template, err := h.billingService.GetTemplateByID(orgID, templateID)
	if err != nil {
		respondServiceError(c, err, "GetTemplateByID")
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles editing a template. Future months only.
func (h *BillHandler) UpdateTemplate(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateBillTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	template, err := h.billingService.UpdateTemplate(orgID, templateID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTemplate")
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate handles removing a template. Generated instances stay in the
// ledger with their template link cleared by the schema.
func (h *BillHandler) DeleteTemplate(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.billingService.DeleteTemplate(orgID, templateID); err != nil {
		respondServiceError(c, err, "DeleteTemplate")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill template deleted successfully"})
}

// GetMonthBills generates any missing instances for the month, then lists them.
func (h *BillHandler) GetMonthBills(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	ref, ok := monthParam(c)
	if !ok {
		return
	}

	bills, err := h.billingService.MonthBills(orgID, ref)
	if err != nil {
		respondServiceError(c, err, "GetMonthBills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bills})
}

// GenerateMonth explicitly runs the month expansion and reports how many
// entries were appended. Re-running is always safe.
func (h *BillHandler) GenerateMonth(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	ref, ok := monthParam(c)
	if !ok {
		return
	}

	generated, err := h.billingService.EnsureMonth(orgID, ref)
	if err != nil {
		respondServiceError(c, err, "GenerateMonth")
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": generated})
}
