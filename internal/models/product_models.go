package models

import "time"

// Product represents an item held in the warehouse catalog.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code" binding:"required"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Category    string    `json:"category" db:"category"`
	Brand       string    `json:"brand" db:"brand"`
	Unit        string    `json:"unit" db:"unit"`
	MinStock    int       `json:"min_stock" db:"min_stock"`
	Price       float64   `json:"price" db:"price"`
	BarcodeID   *string   `json:"barcode_id,omitempty" db:"barcode_id"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// CurrentStock is derived from ledger entries, never stored.
	CurrentStock *int `json:"current_stock,omitempty"`
}

// Ledger entry directions.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Resi-number categories. Incoming and outgoing tracking numbers live in
// separate namespaces: the same number may appear once in each.
const (
	CategoryIncoming = "incoming"
	CategoryOutgoing = "outgoing"
)

// LedgerEntry is one inventory movement: goods received into or issued out
// of the warehouse. Entries are append-only except for manager-privileged
// edit and delete.
type LedgerEntry struct {
	ID         int64     `json:"id" db:"id"`
	ProductID  int64     `json:"product_id" db:"product_id" binding:"required"`
	Direction  string    `json:"direction" db:"direction" binding:"required"` // in | out
	Quantity   int       `json:"quantity" db:"quantity" binding:"required"`
	EntryDate  time.Time `json:"entry_date" db:"entry_date"`
	Partner    *string   `json:"partner,omitempty" db:"partner"` // supplier for "in", recipient/platform for "out"
	ResiNumber *string   `json:"resi_number,omitempty" db:"resi_number"`
	Category   string    `json:"category" db:"category"` // incoming | outgoing
	CreatedBy  *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	Product *Product `json:"product,omitempty"` // joined product fields
}
