package handlers

import (
	"net/http"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler holds the appointment service.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(as services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: as}
}

// CreateAppointment handles booking a service slot.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.CreateAppointment(orgID, req)
	if err != nil {
		respondServiceError(c, err, "CreateAppointment")
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments handles listing appointments with date/status filters.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var filters models.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}

	appointments, totalCount, err := h.appointmentService.GetAppointments(orgID, filters)
	if err != nil {
		respondServiceError(c, err, "GetAppointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      appointments,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetAppointmentByID handles fetching a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetAppointmentByID(orgID, appointmentID)
	if err != nil {
		respondServiceError(c, err, "GetAppointmentByID")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment handles editing slot details.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.UpdateAppointment(orgID, appointmentID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateAppointment")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointmentStatus applies one lifecycle transition.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(orgID, appointmentID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateAppointmentStatus")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// CompleteAppointment finishes a slot, optionally recording the sale.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.Complete(orgID, appointmentID, req)
	if err != nil {
		respondServiceError(c, err, "CompleteAppointment")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment removes a slot, releasing any held reservation.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	appointmentID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.DeleteAppointment(orgID, appointmentID); err != nil {
		respondServiceError(c, err, "DeleteAppointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
