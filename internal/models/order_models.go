package models

import "time"

// Order is a shipment order as entered from the marketplace order list. It is
// matched against incoming ledger entries by resi number for verification.
type Order struct {
	ID          int64     `json:"id" db:"id"`
	OrderDate   time.Time `json:"order_date" db:"order_date"`
	ProductCode string    `json:"product_code" db:"product_code" binding:"required"`
	ProductName string    `json:"product_name" db:"product_name"`
	Category    string    `json:"category" db:"category"`
	Brand       string    `json:"brand" db:"brand"`
	Quantity    int       `json:"quantity" db:"quantity" binding:"required"`
	Price       float64   `json:"price" db:"price"`
	ResiNumber  string    `json:"resi_number" db:"resi_number" binding:"required"`
	CreatedBy   *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Order verification statuses.
const (
	OrderMatchFound    = "found"    // incoming entry matches on every compared field
	OrderMatchMismatch = "mismatch" // resi number exists but some fields differ
	OrderMatchMissing  = "missing"  // no incoming entry carries the resi number
)

// OrderVerification is the result of matching one order against the incoming
// ledger. FieldMismatches flags which compared fields differ from the closest
// matching entry.
type OrderVerification struct {
	Order           Order           `json:"order"`
	Status          string          `json:"status"`
	ClosestMatch    *LedgerEntry    `json:"closest_match,omitempty"`
	FieldMismatches map[string]bool `json:"field_mismatches,omitempty"`
}
