package handlers

import (
	"net/http"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	client, err := h.clientService.CreateClient(orgID, req)
	if err != nil {
		respondServiceError(c, err, "CreateClient")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles listing clients with search and pagination.
func (h *ClientHandler) GetClients(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var filters models.ClientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}

	clients, totalCount, err := h.clientService.GetClients(orgID, filters)
	if err != nil {
		respondServiceError(c, err, "GetClients")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      clients,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetClientByID handles fetching a single client.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	clientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(orgID, clientID)
	if err != nil {
		respondServiceError(c, err, "GetClientByID")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles editing a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	clientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(orgID, clientID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateClient")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles removing a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	clientID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(orgID, clientID); err != nil {
		respondServiceError(c, err, "DeleteClient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
