package handlers

import (
	"net/http"
	"strconv"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report and stock services.
type ReportHandler struct {
	reportService services.ReportService
	stockService  services.StockService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService, ss services.StockService) *ReportHandler {
	return &ReportHandler{reportService: rs, stockService: ss}
}

// GetStockAggregate returns the per-product ledger sums, optionally
// windowed by start_date/end_date and narrowed to one product.
func (h *ReportHandler) GetStockAggregate(c *gin.Context) {
	var productID *int64
	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid product_id parameter", ""))
			return
		}
		productID = &id
	}

	var startDate, endDate *time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "start_date must be YYYY-MM-DD", ""))
			return
		}
		startDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "end_date must be YYYY-MM-DD", ""))
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		endDate = &end
	}

	snapshots, err := h.stockService.GetStockAggregates(productID, startDate, endDate)
	if err != nil {
		respondServiceError(c, err, "GetStockAggregate: Error from stockService.GetStockAggregates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snapshots})
}

// GetReport builds a stock, incoming or outgoing report over an
// optional date window.
func (h *ReportHandler) GetReport(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}

	result, err := h.reportService.GetReport(params)
	if err != nil {
		respondServiceError(c, err, "GetReport: Error from reportService.GetReport")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDashboard returns the aggregated dashboard figures. The period
// query bounds the monthly series in months, default 6.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	period, _ := strconv.Atoi(c.DefaultQuery("period", "6"))
	if period <= 0 {
		period = 6
	}

	summary, err := h.reportService.GetDashboard(period)
	if err != nil {
		respondServiceError(c, err, "GetDashboard: Error from reportService.GetDashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetStockClassification returns the full movement-tier buckets without
// the dashboard's top-N truncation.
func (h *ReportHandler) GetStockClassification(c *gin.Context) {
	topN, _ := strconv.Atoi(c.DefaultQuery("top", "0"))
	if topN < 0 {
		topN = 0
	}

	classification, err := h.reportService.GetClassification(topN)
	if err != nil {
		respondServiceError(c, err, "GetStockClassification: Error from reportService.GetClassification")
		return
	}
	c.JSON(http.StatusOK, classification)
}

func bindReportParams(c *gin.Context) (models.ReportRequestParams, bool) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, "Invalid report parameters: "+err.Error())
		return params, false
	}
	if params.ReportType == "" {
		params.ReportType = models.ReportTypeStock
	}
	return params, true
}
