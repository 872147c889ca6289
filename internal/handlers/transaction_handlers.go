package handlers

import (
	"net/http"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler holds the ledger service.
type TransactionHandler struct {
	ledgerService services.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ls services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ls}
}

// AppendTransaction handles appending a ledger entry.
func (h *TransactionHandler) AppendTransaction(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.AppendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tx, err := h.ledgerService.Append(orgID, req)
	if err != nil {
		respondServiceError(c, err, "AppendTransaction")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// GetTransactionByID handles fetching a single ledger entry.
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	txID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.ledgerService.GetByID(orgID, txID)
	if err != nil {
		respondServiceError(c, err, "GetTransactionByID")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// GetTransactionsByPeriod handles the period query. start and end are
// mandatory YYYY-MM-DD query parameters.
func (h *TransactionHandler) GetTransactionsByPeriod(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	start, err := models.ParseCivilDate(c.Query("start"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid start date: "+err.Error())
		return
	}
	end, err := models.ParseCivilDate(c.Query("end"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid end date: "+err.Error())
		return
	}

	transactions, err := h.ledgerService.QueryByPeriod(orgID, start, end)
	if err != nil {
		respondServiceError(c, err, "GetTransactionsByPeriod")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": transactions})
}

// UpdateTransaction handles editing a ledger entry.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	txID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tx, err := h.ledgerService.Update(orgID, txID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTransaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles removing a ledger entry.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	txID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerService.Remove(orgID, txID); err != nil {
		respondServiceError(c, err, "DeleteTransaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
