package services

import (
	"errors"
	"testing"
	"time"

	"inventory_backend/internal/models"
)

func TestMatchOrderFound(t *testing.T) {
	order := models.Order{ID: 1, ProductCode: "SKU-1", Quantity: 5, ResiNumber: "RESI-001"}
	incoming := []models.LedgerEntry{
		{ID: 10, Quantity: 5, Product: &models.Product{Code: "SKU-1"}},
	}

	v := MatchOrder(order, incoming)
	if v.Status != models.OrderMatchFound {
		t.Fatalf("Status = %q, want %q", v.Status, models.OrderMatchFound)
	}
	if v.ClosestMatch == nil || v.ClosestMatch.ID != 10 {
		t.Errorf("ClosestMatch = %+v, want entry 10", v.ClosestMatch)
	}
}

func TestMatchOrderMismatch(t *testing.T) {
	order := models.Order{ID: 1, ProductCode: "SKU-1", Quantity: 5, ResiNumber: "RESI-001"}
	incoming := []models.LedgerEntry{
		{ID: 10, Quantity: 3, Product: &models.Product{Code: "SKU-1"}},
		{ID: 11, Quantity: 5, Product: &models.Product{Code: "SKU-9"}},
	}

	v := MatchOrder(order, incoming)
	if v.Status != models.OrderMatchMismatch {
		t.Fatalf("Status = %q, want %q", v.Status, models.OrderMatchMismatch)
	}
	if v.ClosestMatch == nil {
		t.Fatal("mismatch should carry the closest entry")
	}
	if len(v.FieldMismatches) != 1 {
		t.Errorf("FieldMismatches = %+v, want exactly one differing field", v.FieldMismatches)
	}
}

func TestMatchOrderMissing(t *testing.T) {
	order := models.Order{ID: 1, ProductCode: "SKU-1", Quantity: 5, ResiNumber: "RESI-001"}

	v := MatchOrder(order, nil)
	if v.Status != models.OrderMatchMissing {
		t.Fatalf("Status = %q, want %q", v.Status, models.OrderMatchMissing)
	}
	if v.ClosestMatch != nil {
		t.Errorf("missing order should have no closest match, got %+v", v.ClosestMatch)
	}
}

func TestVerifyOrders(t *testing.T) {
	orderRepo := &fakeOrderRepo{orders: []models.Order{
		{ID: 1, ProductCode: "SKU-1", Quantity: 5, ResiNumber: "RESI-001"},
		{ID: 2, ProductCode: "SKU-2", Quantity: 3, ResiNumber: "RESI-002"},
		{ID: 3, ProductCode: "SKU-3", Quantity: 9, ResiNumber: "RESI-404"},
	}}
	ledgerRepo := &fakeLedgerRepo{entries: []models.LedgerEntry{
		{ID: 10, Direction: models.DirectionIn, Category: models.CategoryIncoming, Quantity: 5,
			ResiNumber: strPtr("RESI-001"), Product: &models.Product{Code: "SKU-1"}, EntryDate: time.Now()},
		{ID: 11, Direction: models.DirectionIn, Category: models.CategoryIncoming, Quantity: 7,
			ResiNumber: strPtr("RESI-002"), Product: &models.Product{Code: "SKU-2"}, EntryDate: time.Now()},
	}}
	svc := NewOrderService(orderRepo, ledgerRepo, nil)

	verifications, err := svc.VerifyOrders()
	if err != nil {
		t.Fatalf("VerifyOrders: %v", err)
	}
	if len(verifications) != 3 {
		t.Fatalf("got %d verifications, want 3", len(verifications))
	}

	byOrder := map[int64]models.OrderVerification{}
	for _, v := range verifications {
		byOrder[v.Order.ID] = v
	}

	if byOrder[1].Status != models.OrderMatchFound {
		t.Errorf("order 1 status = %q, want found", byOrder[1].Status)
	}
	if byOrder[2].Status != models.OrderMatchMismatch {
		t.Errorf("order 2 status = %q, want mismatch", byOrder[2].Status)
	}
	if !byOrder[2].FieldMismatches["quantity"] {
		t.Errorf("order 2 mismatches = %+v, want quantity flagged", byOrder[2].FieldMismatches)
	}
	if byOrder[3].Status != models.OrderMatchMissing {
		t.Errorf("order 3 status = %q, want missing", byOrder[3].Status)
	}
}

func TestBuildOrderValidation(t *testing.T) {
	svc := &orderService{}

	cases := []struct {
		name string
		req  OrderRequest
	}{
		{"empty product code", OrderRequest{ProductCode: " ", Quantity: 1, ResiNumber: "RESI-001"}},
		{"empty resi", OrderRequest{ProductCode: "SKU-1", Quantity: 1, ResiNumber: ""}},
		{"zero quantity", OrderRequest{ProductCode: "SKU-1", Quantity: 0, ResiNumber: "RESI-001"}},
		{"bad date", OrderRequest{ProductCode: "SKU-1", Quantity: 1, ResiNumber: "RESI-001", OrderDate: "yesterday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.buildOrder(tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("buildOrder(%s): err = %v, want ErrValidation", tc.name, err)
			}
		})
	}
}
