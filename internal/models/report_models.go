package models

import "time"

// ProductAggregate is the materialized aggregate row the ledger repository
// produces for one product. All derived metrics (stock snapshots, turnover
// ratios, dead-stock detection) are computed from this row by plain functions
// so they can be unit tested without a database.
type ProductAggregate struct {
	ProductID int64   `json:"product_id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Unit      string  `json:"unit"`
	MinStock  int     `json:"min_stock"`
	Price     float64 `json:"price"`

	// Sums of quantities strictly before the window start.
	InBefore  int `json:"-"`
	OutBefore int `json:"-"`

	// Sums of quantities inside the [start, end] window (inclusive).
	// Equal to the all-time sums when no window was requested.
	InWindow  int `json:"-"`
	OutWindow int `json:"-"`

	// All-time sums and the number of incoming entries, used for the
	// average incoming lot size.
	InTotal      int `json:"-"`
	OutTotal     int `json:"-"`
	InEntryCount int `json:"-"`

	// Date of the most recent outgoing entry, nil if the product never
	// shipped.
	LastOutDate *time.Time `json:"last_out_date,omitempty"`
}

// StockSnapshot is the per-product result of the stock aggregator for a
// requested date window.
type StockSnapshot struct {
	ProductID       int64   `json:"product_id"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Brand           string  `json:"brand"`
	Unit            string  `json:"unit"`
	MinStock        int     `json:"min_stock"`
	Price           float64 `json:"price"`
	StockAtStart    int     `json:"stock_at_start"`
	TotalIncoming   int     `json:"total_incoming"`
	TotalOutgoing   int     `json:"total_outgoing"`
	CalculatedStock int     `json:"calculated_stock"`
}

// TurnoverRow carries the per-product figures the classifier works over.
type TurnoverRow struct {
	ProductID     int64      `json:"product_id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Unit          string     `json:"unit"`
	TotalIn       int        `json:"total_in"`
	TotalOut      int        `json:"total_out"`
	CurrentStock  int        `json:"current_stock"`
	AvgInQuantity float64    `json:"avg_in_quantity"`
	TurnoverRatio float64    `json:"turnover_ratio"`
	LastOutDate   *time.Time `json:"last_out_date,omitempty"`
}

// StockClassification buckets products into movement tiers.
type StockClassification struct {
	FastMoving []TurnoverRow `json:"fast_moving"`
	SlowMoving []TurnoverRow `json:"slow_moving"`
	DeadStock  []TurnoverRow `json:"dead_stock"`
}

// ResiCheckResult is the duplicate-resi guard response. Duplicates holds the
// full conflicting entries so callers can show which records collide.
type ResiCheckResult struct {
	IsDuplicate bool          `json:"is_duplicate"`
	Duplicates  []LedgerEntry `json:"duplicates"`
}

// MonthlyFlow is one month of in/out totals for the dashboard series.
type MonthlyFlow struct {
	Month    string `json:"month"` // YYYY-MM
	TotalIn  int    `json:"total_in"`
	TotalOut int    `json:"total_out"`
}

// CategoryCount is the number of catalog products per category.
type CategoryCount struct {
	Category   string `json:"category"`
	TotalItems int    `json:"total_items"`
}

// DashboardSummary holds the aggregated figures for the dashboard.
type DashboardSummary struct {
	TotalInventory int             `json:"total_inventory"` // distinct products with movements
	TotalIn        int             `json:"total_in"`
	TotalOut       int             `json:"total_out"`
	ReorderItems   int             `json:"reorder_items"` // current stock at or below min_stock
	MonthlyData    []MonthlyFlow   `json:"monthly_data"`
	CategoryData   []CategoryCount `json:"category_data"`
	FastMoving     []TurnoverRow   `json:"fast_moving"`
	SlowMoving     []TurnoverRow   `json:"slow_moving"`
	DeadStock      []TurnoverRow   `json:"dead_stock"`
}

// Report types.
const (
	ReportTypeStock    = "stock"
	ReportTypeIncoming = "incoming"
	ReportTypeOutgoing = "outgoing"
)

// ReportRequestParams holds common query parameters for reports.
type ReportRequestParams struct {
	ReportType   string `form:"type"`
	StartDate    string `form:"start_date"` // YYYY-MM-DD
	EndDate      string `form:"end_date"`   // YYYY-MM-DD
	IncludeEmpty bool   `form:"include_empty"`
}

// ReportResult is the report projector output. Exactly one of the slices is
// populated depending on the requested type.
type ReportResult struct {
	ReportType     string          `json:"report_type"`
	StockReport    []StockSnapshot `json:"stock_report,omitempty"`
	IncomingReport []LedgerEntry   `json:"incoming_report,omitempty"`
	OutgoingReport []LedgerEntry   `json:"outgoing_report,omitempty"`
}
