package services

import (
	"errors"
	"testing"
	"time"

	"inventory_backend/internal/models"
)

func TestParseReportDates(t *testing.T) {
	start, end, err := parseReportDates(models.ReportRequestParams{
		StartDate: "2026-01-01",
		EndDate:   "2026-06-30",
	})
	if err != nil {
		t.Fatalf("parseReportDates: %v", err)
	}
	if start == nil || end == nil {
		t.Fatal("both bounds should be set")
	}
	// The end bound extends to the end of its day so timestamped entries
	// on the last day are still included.
	if end.Day() != 30 || end.Hour() != 23 {
		t.Errorf("end = %v, want end of 2026-06-30", end)
	}

	_, _, err = parseReportDates(models.ReportRequestParams{StartDate: "30-06-2026"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("malformed start_date: err = %v, want ErrValidation", err)
	}

	_, _, err = parseReportDates(models.ReportRequestParams{StartDate: "2026-06-30", EndDate: "2026-01-01"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("inverted bounds: err = %v, want ErrValidation", err)
	}
}

func newReportFixture() (ReportService, *fakeLedgerRepo, *fakeProductRepo) {
	ledgerRepo := &fakeLedgerRepo{}
	productRepo := &fakeProductRepo{}
	return NewReportService(ledgerRepo, productRepo), ledgerRepo, productRepo
}

func TestGetReportStockIncludeEmpty(t *testing.T) {
	svc, ledgerRepo, _ := newReportFixture()
	ledgerRepo.aggregates = []models.ProductAggregate{
		{ProductID: 1, Code: "SKU-1", InWindow: 10, OutWindow: 4, InTotal: 10, OutTotal: 4},
		{ProductID: 2, Code: "SKU-2"}, // never moved
	}

	result, err := svc.GetReport(models.ReportRequestParams{ReportType: models.ReportTypeStock})
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(result.StockReport) != 1 || result.StockReport[0].ProductID != 1 {
		t.Errorf("default report should drop zero-movement products, got %+v", result.StockReport)
	}

	result, err = svc.GetReport(models.ReportRequestParams{ReportType: models.ReportTypeStock, IncludeEmpty: true})
	if err != nil {
		t.Fatalf("GetReport(include_empty): %v", err)
	}
	if len(result.StockReport) != 2 {
		t.Errorf("include_empty report should keep all products, got %d rows", len(result.StockReport))
	}
}

func TestGetReportDirectional(t *testing.T) {
	svc, ledgerRepo, _ := newReportFixture()
	now := time.Now()
	ledgerRepo.entries = []models.LedgerEntry{
		{ID: 1, ProductID: 1, Direction: models.DirectionIn, Quantity: 10, EntryDate: now, Category: models.CategoryIncoming},
		{ID: 2, ProductID: 1, Direction: models.DirectionOut, Quantity: 4, EntryDate: now, Category: models.CategoryOutgoing},
	}

	result, err := svc.GetReport(models.ReportRequestParams{ReportType: models.ReportTypeIncoming})
	if err != nil {
		t.Fatalf("GetReport(incoming): %v", err)
	}
	if len(result.IncomingReport) != 1 || result.IncomingReport[0].Direction != models.DirectionIn {
		t.Errorf("IncomingReport = %+v, want the single incoming entry", result.IncomingReport)
	}
	if result.OutgoingReport != nil {
		t.Error("incoming report should not populate the outgoing slice")
	}

	result, err = svc.GetReport(models.ReportRequestParams{ReportType: models.ReportTypeOutgoing})
	if err != nil {
		t.Fatalf("GetReport(outgoing): %v", err)
	}
	if len(result.OutgoingReport) != 1 || result.OutgoingReport[0].Direction != models.DirectionOut {
		t.Errorf("OutgoingReport = %+v, want the single outgoing entry", result.OutgoingReport)
	}
}

func TestGetReportUnknownType(t *testing.T) {
	svc, _, _ := newReportFixture()
	if _, err := svc.GetReport(models.ReportRequestParams{ReportType: "velocity"}); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation for unknown report type", err)
	}
}

func TestGetDashboard(t *testing.T) {
	svc, ledgerRepo, productRepo := newReportFixture()
	now := time.Now()
	stale := now.AddDate(0, -8, 0)

	productRepo.products = []models.Product{
		{ID: 1, Code: "SKU-1", Category: "electronics"},
		{ID: 2, Code: "SKU-2", Category: "electronics"},
		{ID: 3, Code: "SKU-3", Category: "apparel"},
	}
	ledgerRepo.entries = []models.LedgerEntry{
		{ID: 1, ProductID: 1, Direction: models.DirectionIn, Quantity: 15, EntryDate: now},
		{ID: 2, ProductID: 1, Direction: models.DirectionOut, Quantity: 40, EntryDate: now},
	}
	ledgerRepo.flows = []models.MonthlyFlow{{Month: "2026-08", TotalIn: 15, TotalOut: 40}}
	ledgerRepo.aggregates = []models.ProductAggregate{
		// avg lot 5, ratio 8: fast moving.
		{ProductID: 1, Code: "SKU-1", MinStock: 0, InTotal: 15, OutTotal: 40, InEntryCount: 3, InWindow: 15, OutWindow: 40, LastOutDate: &now},
		// stale shipment with stock on hand: dead, and at min stock.
		{ProductID: 2, Code: "SKU-2", MinStock: 10, InTotal: 10, OutTotal: 5, InEntryCount: 2, InWindow: 10, OutWindow: 5, LastOutDate: &stale},
	}

	summary, err := svc.GetDashboard(6)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}

	if summary.TotalInventory != 1 {
		t.Errorf("TotalInventory = %d, want 1 distinct moved product", summary.TotalInventory)
	}
	if summary.TotalIn != 15 || summary.TotalOut != 40 {
		t.Errorf("totals = %d/%d, want 15/40", summary.TotalIn, summary.TotalOut)
	}
	if len(summary.MonthlyData) != 1 || summary.MonthlyData[0].Month != "2026-08" {
		t.Errorf("MonthlyData = %+v", summary.MonthlyData)
	}
	if len(summary.CategoryData) != 2 {
		t.Errorf("CategoryData = %+v, want 2 categories", summary.CategoryData)
	}
	if len(summary.FastMoving) != 1 || summary.FastMoving[0].ProductID != 1 {
		t.Errorf("FastMoving = %+v, want product 1", summary.FastMoving)
	}
	if len(summary.DeadStock) != 1 || summary.DeadStock[0].ProductID != 2 {
		t.Errorf("DeadStock = %+v, want product 2", summary.DeadStock)
	}
	// Product 1 is oversold below its min stock of 0 and product 2 sits
	// at 5 on hand against min stock 10.
	if summary.ReorderItems != 2 {
		t.Errorf("ReorderItems = %d, want 2", summary.ReorderItems)
	}
}

func TestGetClassification(t *testing.T) {
	svc, ledgerRepo, _ := newReportFixture()
	now := time.Now()
	ledgerRepo.aggregates = []models.ProductAggregate{
		{ProductID: 1, InTotal: 15, OutTotal: 40, InEntryCount: 3, LastOutDate: &now},
	}

	classification, err := svc.GetClassification(0)
	if err != nil {
		t.Fatalf("GetClassification: %v", err)
	}
	if len(classification.FastMoving) != 1 {
		t.Errorf("FastMoving = %+v, want the ratio-8 product", classification.FastMoving)
	}
}
