package handlers

import (
	"net/http"
	"strconv"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles recording a marketplace order line.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err, "CreateOrder: Error from orderService.CreateOrder")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders handles listing orders with pagination and search.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orders, totalCount, err := h.orderService.GetOrders(utils.NewNullString(c.Query("search")), page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetOrders: Error from orderService.GetOrders")
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateOrder handles editing an order line.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrder(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateOrder: Error from orderService.UpdateOrder")
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles removing an order line.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(id); err != nil {
		respondServiceError(c, err, "DeleteOrder: Error from orderService.DeleteOrder")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// VerifyOrders reconciles recorded orders against incoming ledger
// entries by resi number.
func (h *OrderHandler) VerifyOrders(c *gin.Context) {
	verifications, err := h.orderService.VerifyOrders()
	if err != nil {
		respondServiceError(c, err, "VerifyOrders: Error from orderService.VerifyOrders")
		return
	}

	if verifications == nil {
		verifications = []models.OrderVerification{}
	}
	c.JSON(http.StatusOK, gin.H{"data": verifications})
}
