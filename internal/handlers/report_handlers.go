package handlers

import (
	"net/http"
	"time"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the finance service.
type ReportHandler struct {
	financeService services.FinanceService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(fs services.FinanceService) *ReportHandler {
	return &ReportHandler{financeService: fs}
}

// GetFinanceReport recomputes period totals from the ledger. Defaults to the
// current month when no range is given.
func (h *ReportHandler) GetFinanceReport(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	today := models.Today()
	start, end := today.MonthStart(), today.MonthEnd()
	if raw := c.Query("start"); raw != "" {
		parsed, err := models.ParseCivilDate(raw)
		if err != nil {
			utils.RespondValidationFailed(c, "invalid start date: "+err.Error())
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := models.ParseCivilDate(raw)
		if err != nil {
			utils.RespondValidationFailed(c, "invalid end date: "+err.Error())
			return
		}
		end = parsed
	}

	report, err := h.financeService.PeriodReport(orgID, start, end)
	if err != nil {
		respondServiceError(c, err, "GetFinanceReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary returns the headline numbers for the home screen.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	summary, err := h.financeService.Dashboard(orgID, time.Now())
	if err != nil {
		respondServiceError(c, err, "GetDashboardSummary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
