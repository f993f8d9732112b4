package services

import (
	"sort"
	"time"

	"inventory_backend/internal/models"
)

// Turnover classification thresholds. The ratio is total outgoing quantity
// divided by the average incoming lot size; products at or above the fast
// threshold restock frequently, products below the slow threshold barely move.
const (
	FastMovingThreshold = 2.0
	SlowMovingThreshold = 0.5

	// DeadStockMonths is how long a product may go without an outgoing
	// entry before positive on-hand stock counts as dead.
	DeadStockMonths = 6
)

// AvgInQuantity returns the average quantity per incoming entry over all
// time, or 0 when the product never received stock.
func AvgInQuantity(inTotal, inEntryCount int) float64 {
	if inEntryCount <= 0 {
		return 0
	}
	return float64(inTotal) / float64(inEntryCount)
}

// TurnoverRatio divides total outgoing quantity by the average incoming lot
// size. Division by zero is defined as ratio 0.
func TurnoverRatio(totalOut int, avgInQuantity float64) float64 {
	if avgInQuantity <= 0 {
		return 0
	}
	return float64(totalOut) / avgInQuantity
}

// TurnoverRowFromAggregate derives the classifier input row from a
// materialized per-product aggregate, on an all-time basis.
func TurnoverRowFromAggregate(agg models.ProductAggregate) models.TurnoverRow {
	avgIn := AvgInQuantity(agg.InTotal, agg.InEntryCount)
	return models.TurnoverRow{
		ProductID:     agg.ProductID,
		Code:          agg.Code,
		Name:          agg.Name,
		Category:      agg.Category,
		Unit:          agg.Unit,
		TotalIn:       agg.InTotal,
		TotalOut:      agg.OutTotal,
		CurrentStock:  agg.InTotal - agg.OutTotal,
		AvgInQuantity: avgIn,
		TurnoverRatio: TurnoverRatio(agg.OutTotal, avgIn),
		LastOutDate:   agg.LastOutDate,
	}
}

func isDeadStock(row models.TurnoverRow, cutoff time.Time) bool {
	if row.CurrentStock <= 0 {
		return false
	}
	if row.TurnoverRatio < SlowMovingThreshold {
		return true
	}
	return row.LastOutDate == nil || row.LastOutDate.Before(cutoff)
}

// ClassifyStock buckets products into fast-moving, slow-moving, and dead
// tiers. Fast is sorted by ratio descending, slow by ratio ascending, dead by
// last outgoing date ascending with never-shipped products first. Each list
// is truncated to topN entries; topN <= 0 means unbounded.
//
// The dead tier uses one canonical rule: positive stock combined with either
// a ratio below the slow threshold or no outgoing entry since the cutoff.
// A slow-moving product that also went stale appears in both lists.
func ClassifyStock(rows []models.TurnoverRow, now time.Time, topN int) models.StockClassification {
	cutoff := now.AddDate(0, -DeadStockMonths, 0)

	classification := models.StockClassification{
		FastMoving: []models.TurnoverRow{},
		SlowMoving: []models.TurnoverRow{},
		DeadStock:  []models.TurnoverRow{},
	}

	for _, row := range rows {
		if row.TurnoverRatio >= FastMovingThreshold {
			classification.FastMoving = append(classification.FastMoving, row)
		} else if row.TurnoverRatio >= SlowMovingThreshold {
			classification.SlowMoving = append(classification.SlowMoving, row)
		}
		if isDeadStock(row, cutoff) {
			classification.DeadStock = append(classification.DeadStock, row)
		}
	}

	sort.Slice(classification.FastMoving, func(i, j int) bool {
		return classification.FastMoving[i].TurnoverRatio > classification.FastMoving[j].TurnoverRatio
	})
	sort.Slice(classification.SlowMoving, func(i, j int) bool {
		return classification.SlowMoving[i].TurnoverRatio < classification.SlowMoving[j].TurnoverRatio
	})
	sort.Slice(classification.DeadStock, func(i, j int) bool {
		a, b := classification.DeadStock[i].LastOutDate, classification.DeadStock[j].LastOutDate
		if a == nil {
			return b != nil // never-shipped first
		}
		if b == nil {
			return false
		}
		return a.Before(*b)
	})

	classification.FastMoving = truncateRows(classification.FastMoving, topN)
	classification.SlowMoving = truncateRows(classification.SlowMoving, topN)
	classification.DeadStock = truncateRows(classification.DeadStock, topN)
	return classification
}

func truncateRows(rows []models.TurnoverRow, topN int) []models.TurnoverRow {
	if topN > 0 && len(rows) > topN {
		return rows[:topN]
	}
	return rows
}
