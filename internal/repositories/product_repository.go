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

// ProductRepository defines the interface for product catalog database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProducts(category *string, search *string, page, pageSize int) ([]models.Product, int, error)
	GetAllProducts() ([]models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProductByCode(code string) (*models.Product, error)
	GetProductByBarcodeID(barcodeID string) (*models.Product, error)
	CountProductsByCode(code string, excludeID *int64) (int, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, productID int64) error
	CategoryCounts() ([]models.CategoryCount, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (code, name, category, brand, unit, min_stock, price, barcode_id, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()

	err := executor.QueryRow(query,
		product.Code, product.Name, product.Category, product.Brand, product.Unit,
		product.MinStock, product.Price, product.BarcodeID, product.Description,
		currentTime, currentTime,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	product.CreatedAt = currentTime
	product.UpdatedAt = currentTime
	return product.ID, nil
}

// GetProducts returns a page of products annotated with the current stock
// derived from the ledger, newest first.
func (r *productRepository) GetProducts(category *string, search *string, page, pageSize int) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    p.id, p.code, p.name, p.category, p.brand, p.unit, p.min_stock, p.price,
	    p.barcode_id, p.description, p.created_at, p.updated_at,
	    COALESCE(s.current_stock, 0) AS current_stock,
	    COUNT(*) OVER() AS total_count
	  FROM products p
	  LEFT JOIN (
	    SELECT product_id,
	           SUM(CASE WHEN direction = 'in' THEN quantity ELSE 0 END) -
	           SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END) AS current_stock
	    FROM ledger_entries
	    GROUP BY product_id
	  ) s ON p.id = s.product_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if category != nil && *category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", argCount))
		args = append(args, *category)
		argCount++
	}
	if search != nil && *search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.code ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*search+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY p.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		var currentStock int
		if err := rows.Scan(
			&product.ID, &product.Code, &product.Name, &product.Category, &product.Brand,
			&product.Unit, &product.MinStock, &product.Price, &product.BarcodeID,
			&product.Description, &product.CreatedAt, &product.UpdatedAt,
			&currentStock, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		product.CurrentStock = &currentStock
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

// GetAllProducts returns the whole catalog ordered by name, without stock
// annotation. Used for select lists and report projection.
func (r *productRepository) GetAllProducts() ([]models.Product, error) {
	query := `SELECT id, code, name, category, brand, unit, min_stock, price, barcode_id, description, created_at, updated_at
	          FROM products ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting all products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID, &product.Code, &product.Name, &product.Category, &product.Brand,
			&product.Unit, &product.MinStock, &product.Price, &product.BarcodeID,
			&product.Description, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) scanOne(row *sql.Row, context string) (*models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ID, &product.Code, &product.Name, &product.Category, &product.Brand,
		&product.Unit, &product.MinStock, &product.Price, &product.BarcodeID,
		&product.Description, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseError, context, err)
	}
	return &product, nil
}

const productColumns = `id, code, name, category, brand, unit, min_stock, price, barcode_id, description, created_at, updated_at`

func (r *productRepository) GetProductByID(productID int64) (*models.Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	return r.scanOne(row, fmt.Sprintf("finding product by ID %d", productID))
}

func (r *productRepository) GetProductByCode(code string) (*models.Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE code = $1`, code)
	return r.scanOne(row, "finding product by code "+code)
}

func (r *productRepository) GetProductByBarcodeID(barcodeID string) (*models.Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE barcode_id = $1`, barcodeID)
	return r.scanOne(row, "finding product by barcode "+barcodeID)
}

// CountProductsByCode reports how many products carry the given code,
// optionally excluding one id (for edit-in-place uniqueness checks).
func (r *productRepository) CountProductsByCode(code string, excludeID *int64) (int, error) {
	var count int
	var err error
	if excludeID != nil {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE code = $1 AND id != $2`, code, *excludeID).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE code = $1`, code).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: counting products by code: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET code = $1, name = $2, category = $3, brand = $4, unit = $5,
	          min_stock = $6, price = $7, barcode_id = $8, description = $9, updated_at = $10
	          WHERE id = $11`
	product.UpdatedAt = time.Now()

	result, err := executor.Exec(query,
		product.Code, product.Name, product.Category, product.Brand, product.Unit,
		product.MinStock, product.Price, product.BarcodeID, product.Description,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, productID int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("%w: deleting product %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryCounts returns the number of catalog products per category.
func (r *productRepository) CategoryCounts() ([]models.CategoryCount, error) {
	rows, err := r.db.Query(`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("%w: counting products per category: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	counts := []models.CategoryCount{}
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.TotalItems); err != nil {
			return nil, fmt.Errorf("%w: scanning category count: %v", ErrDatabaseError, err)
		}
		counts = append(counts, cc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category counts: %v", ErrDatabaseError, err)
	}
	return counts, nil
}
