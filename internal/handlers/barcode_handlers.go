package handlers

import (
	"image/png"
	"net/http"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/gin-gonic/gin"
)

const (
	barcodeWidth  = 300
	barcodeHeight = 80
)

// BarcodeHandler renders printable barcode labels for products.
type BarcodeHandler struct {
	productService services.ProductService
}

// NewBarcodeHandler creates a new BarcodeHandler.
func NewBarcodeHandler(ps services.ProductService) *BarcodeHandler {
	return &BarcodeHandler{productService: ps}
}

// RenderProductBarcode handles GET /products/:id/barcode.png. It encodes
// the product's barcode identifier (falling back to the product code) as
// a Code 128 PNG.
func (h *BarcodeHandler) RenderProductBarcode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		respondServiceError(c, err, "RenderProductBarcode: Error from productService.GetProductByID")
		return
	}

	content := product.Code
	if product.BarcodeID != nil && *product.BarcodeID != "" {
		content = *product.BarcodeID
	}

	bc, err := code128.Encode(content)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeBadRequest, "Product code cannot be encoded as Code 128.", err.Error()))
		return
	}

	scaled, err := barcode.Scale(bc, barcodeWidth, barcodeHeight)
	if err != nil {
		utils.LogError(err, "RenderProductBarcode: Failed to scale barcode")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to render barcode.", ""))
		return
	}

	c.Header("Content-Type", "image/png")
	if err := png.Encode(c.Writer, scaled); err != nil {
		utils.LogError(err, "RenderProductBarcode: Failed to encode PNG")
	}
}
