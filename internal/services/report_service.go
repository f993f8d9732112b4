package services

import (
	"fmt"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

const reportDateLayout = "2006-01-02"

// DashboardTopN is how many rows each movement tier keeps on the dashboard.
const DashboardTopN = 10

// --- ReportService Interface ---
type ReportService interface {
	GetReport(params models.ReportRequestParams) (*models.ReportResult, error)
	GetDashboard(periodMonths int) (*models.DashboardSummary, error)
	GetClassification(topN int) (*models.StockClassification, error)
}

type reportService struct {
	ledgerRepo  repositories.LedgerRepository
	productRepo repositories.ProductRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(ledgerRepo repositories.LedgerRepository, productRepo repositories.ProductRepository) ReportService {
	return &reportService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

// parseReportDates parses the optional YYYY-MM-DD bounds. The end bound is
// extended to the end of its day so date-only filters stay inclusive against
// timestamped entries.
func parseReportDates(params models.ReportRequestParams) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if params.StartDate != "" {
		parsed, err := time.Parse(reportDateLayout, params.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrValidation)
		}
		start = &parsed
	}
	if params.EndDate != "" {
		parsed, err := time.Parse(reportDateLayout, params.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrValidation)
		}
		endOfDay := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &endOfDay
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
	}
	return start, end, nil
}

// GetReport projects stock snapshots or raw entry listings for the requested
// window. Stock rows are ordered by product name; entry listings come back
// newest first.
func (s *reportService) GetReport(params models.ReportRequestParams) (*models.ReportResult, error) {
	start, end, err := parseReportDates(params)
	if err != nil {
		return nil, err
	}

	result := &models.ReportResult{ReportType: params.ReportType}
	switch params.ReportType {
	case models.ReportTypeStock:
		windowStart, windowEnd := ResolveWindow(start, end)
		aggregates, err := s.ledgerRepo.ProductAggregates(nil, windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to build stock report: %w", err)
		}
		rows := []models.StockSnapshot{}
		for _, agg := range aggregates {
			if !params.IncludeEmpty && agg.InTotal == 0 && agg.OutTotal == 0 {
				continue
			}
			rows = append(rows, SnapshotFromAggregate(agg))
		}
		result.StockReport = rows

	case models.ReportTypeIncoming, models.ReportTypeOutgoing:
		direction := models.DirectionIn
		if params.ReportType == models.ReportTypeOutgoing {
			direction = models.DirectionOut
		}
		entries, _, err := s.ledgerRepo.GetEntries(repositories.EntryFilter{
			Direction: &direction,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build %s report: %w", params.ReportType, err)
		}
		if params.ReportType == models.ReportTypeIncoming {
			result.IncomingReport = entries
		} else {
			result.OutgoingReport = entries
		}

	default:
		return nil, fmt.Errorf("%w: report type must be stock, incoming, or outgoing", ErrValidation)
	}
	return result, nil
}

// GetClassification runs the turnover classifier over all-time aggregates.
func (s *reportService) GetClassification(topN int) (*models.StockClassification, error) {
	windowStart, windowEnd := ResolveWindow(nil, nil)
	aggregates, err := s.ledgerRepo.ProductAggregates(nil, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate for classification: %w", err)
	}

	rows := make([]models.TurnoverRow, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, TurnoverRowFromAggregate(agg))
	}
	classification := ClassifyStock(rows, time.Now(), topN)
	return &classification, nil
}

// GetDashboard assembles the aggregated totals, the monthly in/out series for
// the period, category counts, and the top-10 movement tiers.
func (s *reportService) GetDashboard(periodMonths int) (*models.DashboardSummary, error) {
	if periodMonths <= 0 {
		periodMonths = 6
	}

	summary := &models.DashboardSummary{}

	distinctProducts, totalIn, totalOut, err := s.ledgerRepo.LedgerTotals()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger totals: %w", err)
	}
	summary.TotalInventory = distinctProducts
	summary.TotalIn = totalIn
	summary.TotalOut = totalOut

	since := time.Now().AddDate(0, -periodMonths, 0)
	flows, err := s.ledgerRepo.MonthlyFlows(since)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly flows: %w", err)
	}
	summary.MonthlyData = flows

	categories, err := s.productRepo.CategoryCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to get category counts: %w", err)
	}
	summary.CategoryData = categories

	windowStart, windowEnd := ResolveWindow(nil, nil)
	aggregates, err := s.ledgerRepo.ProductAggregates(nil, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate for dashboard: %w", err)
	}

	rows := make([]models.TurnoverRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := TurnoverRowFromAggregate(agg)
		rows = append(rows, row)
		if row.CurrentStock <= agg.MinStock && (agg.InTotal > 0 || agg.OutTotal > 0) {
			summary.ReorderItems++
		}
	}

	classification := ClassifyStock(rows, time.Now(), DashboardTopN)
	summary.FastMoving = classification.FastMoving
	summary.SlowMoving = classification.SlowMoving
	summary.DeadStock = classification.DeadStock
	return summary, nil
}
