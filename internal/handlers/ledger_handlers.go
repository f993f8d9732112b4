package handlers

import (
	"net/http"
	"strconv"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LedgerHandler holds the ledger service.
type LedgerHandler struct {
	ledgerService services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ls services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ls}
}

// CreateEntry handles recording a stock movement. Outgoing movements are
// refused when the product's current stock cannot cover the quantity.
func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var req services.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entry, err := h.ledgerService.CreateEntry(req, currentUserID(c))
	if err != nil {
		respondServiceError(c, err, "CreateEntry: Error from ledgerService.CreateEntry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetEntries handles listing ledger entries with optional product,
// direction and date-window filters.
func (h *LedgerHandler) GetEntries(c *gin.Context) {
	filter, ok := parseEntryFilter(c)
	if !ok {
		return
	}

	entries, totalCount, err := h.ledgerService.GetEntries(filter)
	if err != nil {
		respondServiceError(c, err, "GetEntries: Error from ledgerService.GetEntries")
		return
	}

	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      entries,
		"total":     totalCount,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetEntryByID handles fetching a single ledger entry.
func (h *LedgerHandler) GetEntryByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetEntryByID(id)
	if err != nil {
		respondServiceError(c, err, "GetEntryByID: Error from ledgerService.GetEntryByID")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles editing a ledger entry. Stock and resi-number
// checks exclude the entry being edited.
func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	entry, err := h.ledgerService.UpdateEntry(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateEntry: Error from ledgerService.UpdateEntry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles removing a ledger entry.
func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteEntry(id); err != nil {
		respondServiceError(c, err, "DeleteEntry: Error from ledgerService.DeleteEntry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ledger entry deleted successfully"})
}

// CheckResi reports whether a resi number is already used within a
// category, optionally excluding one entry (for edits).
func (h *LedgerHandler) CheckResi(c *gin.Context) {
	resiNumber := c.Param("resiNumber")
	category := c.DefaultQuery("category", models.CategoryIncoming)

	var excludeID *int64
	if v := c.Query("exclude_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid exclude_id parameter", ""))
			return
		}
		excludeID = &id
	}

	result, err := h.ledgerService.CheckResiDuplicate(resiNumber, category, excludeID)
	if err != nil {
		respondServiceError(c, err, "CheckResi: Error from ledgerService.CheckResiDuplicate")
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseEntryFilter(c *gin.Context) (repositories.EntryFilter, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := repositories.EntryFilter{Page: page, PageSize: pageSize}

	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid product_id parameter", ""))
			return filter, false
		}
		filter.ProductID = &id
	}
	if v := c.Query("direction"); v != "" {
		if v != models.DirectionIn && v != models.DirectionOut {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "direction must be 'in' or 'out'", ""))
			return filter, false
		}
		filter.Direction = &v
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "start_date must be YYYY-MM-DD", ""))
			return filter, false
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "end_date must be YYYY-MM-DD", ""))
			return filter, false
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	return filter, true
}
