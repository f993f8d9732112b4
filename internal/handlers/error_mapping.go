package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors onto the API error envelope.
// Unknown errors are logged and surfaced as a generic internal failure.
func respondServiceError(c *gin.Context, err error, logContext string) {
	var dupResi *services.DuplicateResiError
	var insufficient *services.InsufficientStockError

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed.", err.Error()))
	case errors.As(err, &dupResi):
		c.JSON(http.StatusConflict, gin.H{
			"error": utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Resi number already used.", err.Error()),
			"resi_check": gin.H{
				"is_duplicate": true,
				"duplicates":   dupResi.Duplicates,
			},
		})
		c.Abort()
	case errors.As(err, &insufficient):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict,
			"Insufficient stock for product "+utils.Int64ToStr(insufficient.ProductID)+". Available: "+strconv.Itoa(insufficient.Available), err.Error()))
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrProductCodeExists),
		errors.Is(err, services.ErrProductHasEntries),
		errors.Is(err, services.ErrUsernameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), ""))
	default:
		utils.LogError(err, logContext)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", ""))
	}
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" parameter", ""))
		return 0, false
	}
	return id, true
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) *int64 {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := raw.(int64)
	if !ok {
		return nil
	}
	return &id
}
