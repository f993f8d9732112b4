package handlers

import (
	"net/http"
	"strconv"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// CreateProduct handles creation of a catalogue item.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		respondServiceError(c, err, "CreateProduct: Error from productService.CreateProduct")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts handles fetching products with pagination, category filter
// and free-text search. Each row carries its current ledger stock.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	category := utils.NewNullString(c.Query("category"))
	search := utils.NewNullString(c.Query("search"))

	products, totalCount, err := h.productService.GetProducts(category, search, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetProducts: Error from productService.GetProducts")
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      products,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetAllProducts handles fetching the whole catalogue without pagination,
// for selection lists.
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	products, err := h.productService.GetAllProducts()
	if err != nil {
		respondServiceError(c, err, "GetAllProducts: Error from productService.GetAllProducts")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

// GetProductByCode resolves a typed product code to a product.
func (h *ProductHandler) GetProductByCode(c *gin.Context) {
	code := c.Param("code")
	if utils.IsEmpty(code) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Product code is required", ""))
		return
	}

	product, err := h.productService.GetProductByCode(code)
	if err != nil {
		respondServiceError(c, err, "GetProductByCode: Error from productService.GetProductByCode")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductByID handles fetching a single product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err, "GetProductByID: Error from productService.GetProductByID")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductByBarcodeID resolves a scanned barcode to a product.
func (h *ProductHandler) GetProductByBarcodeID(c *gin.Context) {
	barcodeID := c.Param("barcodeID")
	if utils.IsEmpty(barcodeID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Barcode identifier is required", ""))
		return
	}

	product, err := h.productService.GetProductByBarcodeID(barcodeID)
	if err != nil {
		respondServiceError(c, err, "GetProductByBarcodeID: Error from productService.GetProductByBarcodeID")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles updating a catalogue item.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateProduct: Error from productService.UpdateProduct")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a catalogue item. Products that still
// have ledger entries are refused.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondServiceError(c, err, "DeleteProduct: Error from productService.DeleteProduct")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
