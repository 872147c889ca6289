package handlers

import (
	"net/http"
	"strconv"

	"tintshop_backend/internal/models"
	"tintshop_backend/internal/services"
	"tintshop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler holds the catalog service.
type ProductHandler struct {
	catalogService services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(cs services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: cs}
}

// CreateProduct handles the creation of a new product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(orgID, req)
	if err != nil {
		respondServiceError(c, err, "CreateProduct")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts handles listing products with search and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	var filters models.ProductFilters
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

	products, totalCount, err := h.catalogService.GetProducts(orgID, filters)
	if err != nil {
		respondServiceError(c, err, "GetProducts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      products,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetProductByID handles fetching a single product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProductByID(orgID, productID)
	if err != nil {
		respondServiceError(c, err, "GetProductByID")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles editing product fields.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(orgID, productID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateProduct")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(orgID, productID); err != nil {
		respondServiceError(c, err, "DeleteProduct")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdjustStock handles applying a signed stock delta to a product.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	product, err := h.catalogService.AdjustStock(orgID, productID, req)
	if err != nil {
		respondServiceError(c, err, "AdjustStock")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetLowStockProducts handles listing products at or below their threshold.
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}

	products, err := h.catalogService.GetLowStockProducts(orgID)
	if err != nil {
		respondServiceError(c, err, "GetLowStockProducts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// GetStockMovements handles listing the stock audit trail.
func (h *ProductHandler) GetStockMovements(c *gin.Context) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondValidationFailed(c, "invalid product_id format")
			return
		}
		productID = &parsed
	}

	movements, totalCount, err := h.catalogService.GetStockMovements(orgID, productID, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetStockMovements")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      movements,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}
