package handlers

import (
	"fmt"
	"net/http"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// ExportHandler renders report data as downloadable xlsx workbooks.
type ExportHandler struct {
	reportService services.ReportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(rs services.ReportService) *ExportHandler {
	return &ExportHandler{reportService: rs}
}

// ExportReport handles GET /reports/export. It builds the same report
// as GetReport and streams it as an xlsx attachment.
func (h *ExportHandler) ExportReport(c *gin.Context) {
	params, ok := bindReportParams(c)
	if !ok {
		return
	}
	// Exports always include zero-movement products for stock sheets.
	params.IncludeEmpty = true

	result, err := h.reportService.GetReport(params)
	if err != nil {
		respondServiceError(c, err, "ExportReport: Error from reportService.GetReport")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	switch result.ReportType {
	case models.ReportTypeStock:
		writeStockSheet(f, result.StockReport)
	case models.ReportTypeIncoming:
		writeEntriesSheet(f, result.IncomingReport)
	case models.ReportTypeOutgoing:
		writeEntriesSheet(f, result.OutgoingReport)
	}

	filename := fmt.Sprintf("%s-report.xlsx", result.ReportType)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		utils.LogError(err, "ExportReport: Failed to write xlsx response")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to write export file.", ""))
	}
}

func writeStockSheet(f *excelize.File, rows []models.StockSnapshot) {
	headers := []string{"Code", "Name", "Category", "Brand", "Unit", "Stock At Start", "Total In", "Total Out", "Calculated Stock", "Min Stock", "Price"}
	writeHeaderRow(f, headers)

	for i, r := range rows {
		row := i + 2
		setRow(f, row,
			r.Code, r.Name, r.Category, r.Brand, r.Unit,
			r.StockAtStart, r.TotalIncoming, r.TotalOutgoing, r.CalculatedStock,
			r.MinStock, r.Price)
	}
}

func writeEntriesSheet(f *excelize.File, entries []models.LedgerEntry) {
	headers := []string{"Date", "Product Code", "Product Name", "Direction", "Quantity", "Unit", "Partner", "Resi Number"}
	writeHeaderRow(f, headers)

	for i, e := range entries {
		code, name, unit := "", "", ""
		if e.Product != nil {
			code, name, unit = e.Product.Code, e.Product.Name, e.Product.Unit
		}
		partner, resi := "", ""
		if e.Partner != nil {
			partner = *e.Partner
		}
		if e.ResiNumber != nil {
			resi = *e.ResiNumber
		}
		setRow(f, i+2,
			e.EntryDate.Format("2006-01-02"), code, name,
			e.Direction, e.Quantity, unit, partner, resi)
	}
}

func writeHeaderRow(f *excelize.File, headers []string) {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}
}

func setRow(f *excelize.File, row int, values ...interface{}) {
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(exportSheet, cell, v)
	}
}
