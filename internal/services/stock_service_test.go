package services

import (
	"testing"
	"time"

	"inventory_backend/internal/models"
)

func TestResolveWindow(t *testing.T) {
	start, end := ResolveWindow(nil, nil)
	if !start.IsZero() {
		t.Errorf("unbounded window start = %v, want zero time", start)
	}
	if end.Year() != 9999 {
		t.Errorf("unbounded window end = %v, want far future", end)
	}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	start, end = ResolveWindow(&from, &to)
	if !start.Equal(from) || !end.Equal(to) {
		t.Errorf("bounded window = [%v, %v], want [%v, %v]", start, end, from, to)
	}
}

func TestSnapshotFromAggregate(t *testing.T) {
	agg := models.ProductAggregate{
		ProductID: 1,
		Code:      "SKU-1",
		InBefore:  20,
		OutBefore: 5,
		InWindow:  30,
		OutWindow: 10,
	}

	snap := SnapshotFromAggregate(agg)
	if snap.StockAtStart != 15 {
		t.Errorf("StockAtStart = %d, want 15", snap.StockAtStart)
	}
	if snap.CalculatedStock != 35 {
		t.Errorf("CalculatedStock = %d, want 35", snap.CalculatedStock)
	}
	if snap.CalculatedStock != snap.StockAtStart+snap.TotalIncoming-snap.TotalOutgoing {
		t.Error("calculated stock does not satisfy the ledger identity")
	}
}

func TestSnapshotFromAggregateNoEntries(t *testing.T) {
	snap := SnapshotFromAggregate(models.ProductAggregate{ProductID: 2, Code: "SKU-2"})
	if snap.StockAtStart != 0 || snap.TotalIncoming != 0 || snap.TotalOutgoing != 0 || snap.CalculatedStock != 0 {
		t.Errorf("zero-entry product should yield an all-zero snapshot, got %+v", snap)
	}
}

func TestGetStockAggregates(t *testing.T) {
	repo := &fakeLedgerRepo{
		aggregates: []models.ProductAggregate{
			{ProductID: 1, Code: "SKU-1", InWindow: 10, OutWindow: 4, InTotal: 10, OutTotal: 4},
			{ProductID: 2, Code: "SKU-2", InBefore: 8, InWindow: 2, InTotal: 10},
		},
	}
	svc := NewStockService(repo)

	snapshots, err := svc.GetStockAggregates(nil, nil, nil)
	if err != nil {
		t.Fatalf("GetStockAggregates: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if snapshots[0].CalculatedStock != 6 {
		t.Errorf("snapshots[0].CalculatedStock = %d, want 6", snapshots[0].CalculatedStock)
	}
	if snapshots[1].StockAtStart != 8 || snapshots[1].CalculatedStock != 10 {
		t.Errorf("snapshots[1] = %+v, want stock_at_start 8 and calculated 10", snapshots[1])
	}

	productID := int64(2)
	snapshots, err = svc.GetStockAggregates(&productID, nil, nil)
	if err != nil {
		t.Fatalf("GetStockAggregates(product 2): %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].ProductID != 2 {
		t.Errorf("single-product lookup = %+v, want product 2 only", snapshots)
	}
}
