package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory_backend/internal/models"

	"github.com/lib/pq"
)

// EntryFilter narrows ledger entry listings.
type EntryFilter struct {
	ProductID *int64
	Direction *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// LedgerRepository defines the interface for ledger-entry database operations.
// Aggregation queries return materialized rows; the derived-metric arithmetic
// lives in the service layer.
type LedgerRepository interface {
	CreateEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error)
	GetEntries(filter EntryFilter) ([]models.LedgerEntry, int, error)
	GetEntryByID(entryID int64) (*models.LedgerEntry, error)
	UpdateEntry(executor SQLExecutor, entry *models.LedgerEntry) error
	DeleteEntry(executor SQLExecutor, entryID int64) error
	CountEntriesForProduct(productID int64) (int, error)
	CurrentStock(executor SQLExecutor, productID int64, excludeEntryID *int64) (int, error)
	FindEntriesByResi(resiNumber, category string, excludeEntryID *int64) ([]models.LedgerEntry, error)
	FindIncomingByResiNumbers(resiNumbers []string) ([]models.LedgerEntry, error)
	ProductAggregates(productID *int64, windowStart, windowEnd time.Time) ([]models.ProductAggregate, error)
	MonthlyFlows(since time.Time) ([]models.MonthlyFlow, error)
	LedgerTotals() (distinctProducts, totalIn, totalOut int, err error)
}

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error) {
	query := `INSERT INTO ledger_entries
	          (product_id, direction, quantity, entry_date, partner, resi_number, category, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	if entry.EntryDate.IsZero() {
		entry.EntryDate = currentTime
	}

	err := executor.QueryRow(query,
		entry.ProductID, entry.Direction, entry.Quantity, entry.EntryDate,
		entry.Partner, entry.ResiNumber, entry.Category, entry.CreatedBy,
		currentTime, currentTime,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating ledger entry: %v", ErrDatabaseError, err)
	}
	entry.CreatedAt = currentTime
	entry.UpdatedAt = currentTime
	return entry.ID, nil
}

const entrySelectColumns = `le.id, le.product_id, le.direction, le.quantity, le.entry_date,
	    le.partner, le.resi_number, le.category, le.created_by, le.created_at, le.updated_at,
	    p.code, p.name, p.category, p.brand, p.unit`

func scanEntryWithProduct(rows *sql.Rows, extraDest ...interface{}) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var product models.Product

	dest := []interface{}{
		&entry.ID, &entry.ProductID, &entry.Direction, &entry.Quantity, &entry.EntryDate,
		&entry.Partner, &entry.ResiNumber, &entry.Category, &entry.CreatedBy,
		&entry.CreatedAt, &entry.UpdatedAt,
		&product.Code, &product.Name, &product.Category, &product.Brand, &product.Unit,
	}
	dest = append(dest, extraDest...)
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	product.ID = entry.ProductID
	entry.Product = &product
	return &entry, nil
}

// GetEntries lists ledger entries joined with product fields, newest first
// (entry date, then creation time as tie-break).
func (r *ledgerRepository) GetEntries(filter EntryFilter) ([]models.LedgerEntry, int, error) {
	entries := []models.LedgerEntry{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + entrySelectColumns + `,
	    COUNT(*) OVER() AS total_count
	  FROM ledger_entries le
	  JOIN products p ON le.product_id = p.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("le.product_id = $%d", argCount))
		args = append(args, *filter.ProductID)
		argCount++
	}
	if filter.Direction != nil && *filter.Direction != "" {
		conditions = append(conditions, fmt.Sprintf("le.direction = $%d", argCount))
		args = append(args, *filter.Direction)
		argCount++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("le.entry_date >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("le.entry_date <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY le.entry_date DESC, le.created_at DESC")
	if filter.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting ledger entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntryWithProduct(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning ledger entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating ledger entries: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}

func (r *ledgerRepository) GetEntryByID(entryID int64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var product models.Product
	query := `SELECT ` + entrySelectColumns + `
	          FROM ledger_entries le
	          JOIN products p ON le.product_id = p.id
	          WHERE le.id = $1`

	err := r.db.QueryRow(query, entryID).Scan(
		&entry.ID, &entry.ProductID, &entry.Direction, &entry.Quantity, &entry.EntryDate,
		&entry.Partner, &entry.ResiNumber, &entry.Category, &entry.CreatedBy,
		&entry.CreatedAt, &entry.UpdatedAt,
		&product.Code, &product.Name, &product.Category, &product.Brand, &product.Unit,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding ledger entry %d: %v", ErrDatabaseError, entryID, err)
	}
	product.ID = entry.ProductID
	entry.Product = &product
	return &entry, nil
}

func (r *ledgerRepository) UpdateEntry(executor SQLExecutor, entry *models.LedgerEntry) error {
	query := `UPDATE ledger_entries SET product_id = $1, direction = $2, quantity = $3,
	          entry_date = $4, partner = $5, resi_number = $6, category = $7, updated_at = $8
	          WHERE id = $9`
	entry.UpdatedAt = time.Now()

	result, err := executor.Exec(query,
		entry.ProductID, entry.Direction, entry.Quantity, entry.EntryDate,
		entry.Partner, entry.ResiNumber, entry.Category, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating ledger entry %d: %v", ErrDatabaseError, entry.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) DeleteEntry(executor SQLExecutor, entryID int64) error {
	result, err := executor.Exec(`DELETE FROM ledger_entries WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("%w: deleting ledger entry %d: %v", ErrDatabaseError, entryID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) CountEntriesForProduct(productID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting entries for product %d: %v", ErrDatabaseError, productID, err)
	}
	return count, nil
}

// CurrentStock returns the signed cumulative quantity for a product,
// optionally excluding one entry (for edit-in-place stock re-validation).
// Callers run it on the same transaction as the subsequent insert/update.
func (r *ledgerRepository) CurrentStock(executor SQLExecutor, productID int64, excludeEntryID *int64) (int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COALESCE(
	    SUM(CASE WHEN direction = 'in' THEN quantity ELSE 0 END) -
	    SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END), 0)
	  FROM ledger_entries WHERE product_id = $1`)

	args := []interface{}{productID}
	if excludeEntryID != nil {
		queryBuilder.WriteString(" AND id != $2")
		args = append(args, *excludeEntryID)
	}

	var stock int
	if err := executor.QueryRow(queryBuilder.String(), args...).Scan(&stock); err != nil {
		return 0, fmt.Errorf("%w: computing current stock for product %d: %v", ErrDatabaseError, productID, err)
	}
	return stock, nil
}

// FindEntriesByResi returns all entries of the given category carrying the
// resi number, optionally excluding one entry id.
func (r *ledgerRepository) FindEntriesByResi(resiNumber, category string, excludeEntryID *int64) ([]models.LedgerEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + entrySelectColumns + `
	  FROM ledger_entries le
	  JOIN products p ON le.product_id = p.id
	  WHERE le.resi_number = $1 AND le.category = $2`)

	args := []interface{}{resiNumber, category}
	if excludeEntryID != nil {
		queryBuilder.WriteString(" AND le.id != $3")
		args = append(args, *excludeEntryID)
	}
	queryBuilder.WriteString(" ORDER BY le.entry_date DESC, le.created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: finding entries by resi number: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntryWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning resi match: %v", ErrDatabaseError, err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating resi matches: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// FindIncomingByResiNumbers fetches all incoming entries whose resi number is
// in the given set. Used by order verification.
func (r *ledgerRepository) FindIncomingByResiNumbers(resiNumbers []string) ([]models.LedgerEntry, error) {
	if len(resiNumbers) == 0 {
		return []models.LedgerEntry{}, nil
	}

	query := `SELECT ` + entrySelectColumns + `
	  FROM ledger_entries le
	  JOIN products p ON le.product_id = p.id
	  WHERE le.direction = 'in' AND le.resi_number = ANY($1)
	  ORDER BY le.entry_date DESC, le.created_at DESC`

	rows, err := r.db.Query(query, pq.Array(resiNumbers))
	if err != nil {
		return nil, fmt.Errorf("%w: finding incoming entries by resi set: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntryWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning incoming entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating incoming entries: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// ProductAggregates materializes one aggregate row per product for the given
// window. Callers with no window pass the zero time and a far-future end so
// the before-window sums collapse to zero and the window covers all history.
// Products without entries are included with all-zero sums (LEFT JOIN).
func (r *ledgerRepository) ProductAggregates(productID *int64, windowStart, windowEnd time.Time) ([]models.ProductAggregate, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    p.id, p.code, p.name, p.category, p.brand, p.unit, p.min_stock, p.price,
	    COALESCE(SUM(CASE WHEN le.direction = 'in'  AND le.entry_date < $1 THEN le.quantity ELSE 0 END), 0) AS in_before,
	    COALESCE(SUM(CASE WHEN le.direction = 'out' AND le.entry_date < $1 THEN le.quantity ELSE 0 END), 0) AS out_before,
	    COALESCE(SUM(CASE WHEN le.direction = 'in'  AND le.entry_date >= $1 AND le.entry_date <= $2 THEN le.quantity ELSE 0 END), 0) AS in_window,
	    COALESCE(SUM(CASE WHEN le.direction = 'out' AND le.entry_date >= $1 AND le.entry_date <= $2 THEN le.quantity ELSE 0 END), 0) AS out_window,
	    COALESCE(SUM(CASE WHEN le.direction = 'in'  THEN le.quantity ELSE 0 END), 0) AS in_total,
	    COALESCE(SUM(CASE WHEN le.direction = 'out' THEN le.quantity ELSE 0 END), 0) AS out_total,
	    COUNT(CASE WHEN le.direction = 'in' THEN 1 END) AS in_entry_count,
	    MAX(CASE WHEN le.direction = 'out' THEN le.entry_date END) AS last_out_date
	  FROM products p
	  LEFT JOIN ledger_entries le ON p.id = le.product_id`)

	args := []interface{}{windowStart, windowEnd}
	if productID != nil {
		queryBuilder.WriteString(" WHERE p.id = $3")
		args = append(args, *productID)
	}
	queryBuilder.WriteString(` GROUP BY p.id, p.code, p.name, p.category, p.brand, p.unit, p.min_stock, p.price
	  ORDER BY p.name`)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating ledger per product: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	aggregates := []models.ProductAggregate{}
	for rows.Next() {
		var agg models.ProductAggregate
		var lastOut sql.NullTime
		if err := rows.Scan(
			&agg.ProductID, &agg.Code, &agg.Name, &agg.Category, &agg.Brand, &agg.Unit,
			&agg.MinStock, &agg.Price,
			&agg.InBefore, &agg.OutBefore, &agg.InWindow, &agg.OutWindow,
			&agg.InTotal, &agg.OutTotal, &agg.InEntryCount, &lastOut,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning product aggregate: %v", ErrDatabaseError, err)
		}
		if lastOut.Valid {
			t := lastOut.Time
			agg.LastOutDate = &t
		}
		aggregates = append(aggregates, agg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product aggregates: %v", ErrDatabaseError, err)
	}
	return aggregates, nil
}

// MonthlyFlows returns in/out totals grouped by month since the given date.
func (r *ledgerRepository) MonthlyFlows(since time.Time) ([]models.MonthlyFlow, error) {
	query := `SELECT
	    TO_CHAR(entry_date, 'YYYY-MM') AS month,
	    COALESCE(SUM(CASE WHEN direction = 'in'  THEN quantity ELSE 0 END), 0) AS total_in,
	    COALESCE(SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END), 0) AS total_out
	  FROM ledger_entries
	  WHERE entry_date >= $1
	  GROUP BY TO_CHAR(entry_date, 'YYYY-MM')
	  ORDER BY month`

	rows, err := r.db.Query(query, since)
	if err != nil {
		return nil, fmt.Errorf("%w: getting monthly flows: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	flows := []models.MonthlyFlow{}
	for rows.Next() {
		var flow models.MonthlyFlow
		if err := rows.Scan(&flow.Month, &flow.TotalIn, &flow.TotalOut); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly flow: %v", ErrDatabaseError, err)
		}
		flows = append(flows, flow)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly flows: %v", ErrDatabaseError, err)
	}
	return flows, nil
}

// LedgerTotals returns the distinct moved-product count and all-time in/out
// quantity totals.
func (r *ledgerRepository) LedgerTotals() (int, int, int, error) {
	var distinctProducts, totalIn, totalOut int
	query := `SELECT
	    COUNT(DISTINCT product_id),
	    COALESCE(SUM(CASE WHEN direction = 'in'  THEN quantity ELSE 0 END), 0),
	    COALESCE(SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END), 0)
	  FROM ledger_entries`

	if err := r.db.QueryRow(query).Scan(&distinctProducts, &totalIn, &totalOut); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: getting ledger totals: %v", ErrDatabaseError, err)
	}
	return distinctProducts, totalIn, totalOut, nil
}
