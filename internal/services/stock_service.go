package services

import (
	"fmt"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// aggregateWindowEnd is the far-future window end used when the caller did
// not bound the report period. Combined with the zero time as the start it
// makes the before-window sums collapse to zero so the window covers all
// history.
var aggregateWindowEnd = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// ResolveWindow maps optional report bounds onto the concrete window the
// ledger repository aggregates over.
func ResolveWindow(startDate, endDate *time.Time) (time.Time, time.Time) {
	start := time.Time{}
	end := aggregateWindowEnd
	if startDate != nil {
		start = *startDate
	}
	if endDate != nil {
		end = *endDate
	}
	return start, end
}

// SnapshotFromAggregate derives the windowed stock snapshot from a
// materialized aggregate row. The identity
// calculated_stock = stock_at_start + total_incoming - total_outgoing
// holds by construction; without a window stock_at_start is 0 and the
// calculated stock equals the true current stock.
func SnapshotFromAggregate(agg models.ProductAggregate) models.StockSnapshot {
	stockAtStart := agg.InBefore - agg.OutBefore
	return models.StockSnapshot{
		ProductID:       agg.ProductID,
		Code:            agg.Code,
		Name:            agg.Name,
		Category:        agg.Category,
		Brand:           agg.Brand,
		Unit:            agg.Unit,
		MinStock:        agg.MinStock,
		Price:           agg.Price,
		StockAtStart:    stockAtStart,
		TotalIncoming:   agg.InWindow,
		TotalOutgoing:   agg.OutWindow,
		CalculatedStock: stockAtStart + agg.InWindow - agg.OutWindow,
	}
}

// StockService computes per-product stock snapshots for an optional date
// window. Read-only over the ledger.
type StockService interface {
	GetStockAggregates(productID *int64, startDate, endDate *time.Time) ([]models.StockSnapshot, error)
}

type stockService struct {
	ledgerRepo repositories.LedgerRepository
}

// NewStockService creates a new instance of StockService.
func NewStockService(ledgerRepo repositories.LedgerRepository) StockService {
	return &stockService{ledgerRepo: ledgerRepo}
}

// GetStockAggregates returns one snapshot per product (or a single product's
// snapshot when productID is set). Products without ledger entries yield
// all-zero aggregates.
func (s *stockService) GetStockAggregates(productID *int64, startDate, endDate *time.Time) ([]models.StockSnapshot, error) {
	start, end := ResolveWindow(startDate, endDate)
	aggregates, err := s.ledgerRepo.ProductAggregates(productID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stock: %w", err)
	}

	snapshots := make([]models.StockSnapshot, 0, len(aggregates))
	for _, agg := range aggregates {
		snapshots = append(snapshots, SnapshotFromAggregate(agg))
	}
	return snapshots, nil
}
