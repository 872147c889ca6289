package handlers

import (
	"net/http"

	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler holds the checkout service.
type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(cs services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

// Checkout handles a counter sale. The response is 201 even when warnings are
// present: the ledger entry committed, the warnings describe what did not.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.checkoutService.Checkout(orgID, req)
	if err != nil {
		respondServiceError(c, err, "Checkout")
		return
	}
	c.JSON(http.StatusCreated, result)
}
