package services

import (
	"math"
	"testing"
	"time"

	"inventory_backend/internal/models"
)

func TestAvgInQuantity(t *testing.T) {
	if got := AvgInQuantity(40, 15); math.Abs(got-40.0/15.0) > 1e-9 {
		t.Errorf("AvgInQuantity(40, 15) = %v, want %v", got, 40.0/15.0)
	}
	if got := AvgInQuantity(0, 0); got != 0 {
		t.Errorf("AvgInQuantity(0, 0) = %v, want 0", got)
	}
	if got := AvgInQuantity(10, 0); got != 0 {
		t.Errorf("AvgInQuantity(10, 0) = %v, want 0", got)
	}
}

func TestTurnoverRatio(t *testing.T) {
	if got := TurnoverRatio(40, 20); got != 2.0 {
		t.Errorf("TurnoverRatio(40, 20) = %v, want 2.0", got)
	}
	if got := TurnoverRatio(40, 0); got != 0 {
		t.Errorf("TurnoverRatio(40, 0) = %v, want 0", got)
	}
	if got := TurnoverRatio(0, 5); got != 0 {
		t.Errorf("TurnoverRatio(0, 5) = %v, want 0", got)
	}
}

func TestTurnoverRowFromAggregate(t *testing.T) {
	// 3 incoming entries totalling 15 units, 40 shipped: avg lot 5,
	// ratio 40/5 = 8.
	agg := models.ProductAggregate{
		ProductID:    1,
		Code:         "SKU-1",
		InTotal:      15,
		OutTotal:     40,
		InEntryCount: 3,
	}
	row := TurnoverRowFromAggregate(agg)

	if row.AvgInQuantity != 5 {
		t.Errorf("AvgInQuantity = %v, want 5", row.AvgInQuantity)
	}
	if row.TurnoverRatio != 8 {
		t.Errorf("TurnoverRatio = %v, want 8", row.TurnoverRatio)
	}
	if row.CurrentStock != -25 {
		t.Errorf("CurrentStock = %v, want -25", row.CurrentStock)
	}
}

func TestTurnoverRowFromAggregateNoEntries(t *testing.T) {
	row := TurnoverRowFromAggregate(models.ProductAggregate{ProductID: 2})
	if row.TurnoverRatio != 0 || row.AvgInQuantity != 0 || row.CurrentStock != 0 {
		t.Errorf("zero-entry product should yield all-zero metrics, got %+v", row)
	}
}

func TestClassifyStockTiers(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, -1, 0)
	stale := now.AddDate(0, -8, 0)

	rows := []models.TurnoverRow{
		{ProductID: 1, TurnoverRatio: 2.67, CurrentStock: 10, LastOutDate: &recent},
		{ProductID: 2, TurnoverRatio: 1.0, CurrentStock: 10, LastOutDate: &recent},
		{ProductID: 3, TurnoverRatio: 0.2, CurrentStock: 5, LastOutDate: &recent},
		{ProductID: 4, TurnoverRatio: 1.5, CurrentStock: 5, LastOutDate: &stale},
		{ProductID: 5, TurnoverRatio: 0, CurrentStock: 0},
	}

	c := ClassifyStock(rows, now, 0)

	if len(c.FastMoving) != 1 || c.FastMoving[0].ProductID != 1 {
		t.Errorf("FastMoving = %+v, want product 1 only", c.FastMoving)
	}
	if len(c.SlowMoving) != 2 {
		t.Fatalf("SlowMoving has %d rows, want 2", len(c.SlowMoving))
	}
	if c.SlowMoving[0].ProductID != 2 || c.SlowMoving[1].ProductID != 4 {
		t.Errorf("SlowMoving order = [%d, %d], want [2, 4]", c.SlowMoving[0].ProductID, c.SlowMoving[1].ProductID)
	}

	// Product 3 is dead by ratio, product 4 by staleness. Product 5 has
	// no stock so it is excluded despite never shipping.
	if len(c.DeadStock) != 2 {
		t.Fatalf("DeadStock has %d rows, want 2", len(c.DeadStock))
	}
	if c.DeadStock[0].ProductID != 4 {
		t.Errorf("DeadStock[0] = product %d, want 4 (oldest shipment first)", c.DeadStock[0].ProductID)
	}
	if c.DeadStock[1].ProductID != 3 {
		t.Errorf("DeadStock[1] = product %d, want 3", c.DeadStock[1].ProductID)
	}
}

func TestClassifyStockNeverShippedFirst(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(-1, 0, 0)

	rows := []models.TurnoverRow{
		{ProductID: 1, TurnoverRatio: 0.1, CurrentStock: 3, LastOutDate: &old},
		{ProductID: 2, TurnoverRatio: 0, CurrentStock: 7},
	}

	c := ClassifyStock(rows, now, 0)
	if len(c.DeadStock) != 2 {
		t.Fatalf("DeadStock has %d rows, want 2", len(c.DeadStock))
	}
	if c.DeadStock[0].ProductID != 2 {
		t.Errorf("never-shipped product should sort first, got product %d", c.DeadStock[0].ProductID)
	}
}

func TestClassifyStockFastSortedDescending(t *testing.T) {
	now := time.Now()
	rows := []models.TurnoverRow{
		{ProductID: 1, TurnoverRatio: 2.1, CurrentStock: 1},
		{ProductID: 2, TurnoverRatio: 5.0, CurrentStock: 1},
		{ProductID: 3, TurnoverRatio: 3.2, CurrentStock: 1},
	}

	c := ClassifyStock(rows, now, 0)
	if len(c.FastMoving) != 3 {
		t.Fatalf("FastMoving has %d rows, want 3", len(c.FastMoving))
	}
	for i := 1; i < len(c.FastMoving); i++ {
		if c.FastMoving[i].TurnoverRatio > c.FastMoving[i-1].TurnoverRatio {
			t.Errorf("FastMoving not sorted descending at index %d", i)
		}
	}
}

func TestClassifyStockTopN(t *testing.T) {
	now := time.Now()
	rows := make([]models.TurnoverRow, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, models.TurnoverRow{
			ProductID:     int64(i + 1),
			TurnoverRatio: 2.0 + float64(i),
			CurrentStock:  1,
		})
	}

	c := ClassifyStock(rows, now, 10)
	if len(c.FastMoving) != 10 {
		t.Errorf("FastMoving has %d rows, want 10", len(c.FastMoving))
	}
	if c.FastMoving[0].ProductID != 15 {
		t.Errorf("FastMoving[0] = product %d, want 15 (highest ratio)", c.FastMoving[0].ProductID)
	}
}
