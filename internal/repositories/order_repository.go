package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory_backend/internal/models"
)

// OrderRepository defines the interface for shipment-order database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrders(search *string, page, pageSize int) ([]models.Order, int, error)
	GetAllOrders() ([]models.Order, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	UpdateOrder(executor SQLExecutor, order *models.Order) error
	DeleteOrder(executor SQLExecutor, orderID int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_date, product_code, product_name, category, brand, quantity, price, resi_number, created_by, created_at, updated_at`

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (order_date, product_code, product_name, category, brand, quantity, price, resi_number, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()
	if order.OrderDate.IsZero() {
		order.OrderDate = currentTime
	}

	err := executor.QueryRow(query,
		order.OrderDate, order.ProductCode, order.ProductName, order.Category, order.Brand,
		order.Quantity, order.Price, order.ResiNumber, order.CreatedBy,
		currentTime, currentTime,
	).Scan(&order.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	order.CreatedAt = currentTime
	order.UpdatedAt = currentTime
	return order.ID, nil
}

func scanOrder(scanner interface{ Scan(...interface{}) error }, extraDest ...interface{}) (*models.Order, error) {
	var order models.Order
	dest := []interface{}{
		&order.ID, &order.OrderDate, &order.ProductCode, &order.ProductName,
		&order.Category, &order.Brand, &order.Quantity, &order.Price,
		&order.ResiNumber, &order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetOrders(search *string, page, pageSize int) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count FROM orders`)

	var args []interface{}
	argCount := 1
	if search != nil && *search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE (resi_number ILIKE $%d OR product_code ILIKE $%d OR product_name ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+*search+"%")
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY order_date DESC, created_at DESC")
	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
		if page <= 0 {
			page = 1
		}
		args = append(args, pageSize, (page-1)*pageSize)
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		order, err := scanOrder(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetAllOrders() ([]models.Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: getting all orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding order %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) UpdateOrder(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders SET order_date = $1, product_code = $2, product_name = $3, category = $4,
	          brand = $5, quantity = $6, price = $7, resi_number = $8, updated_at = $9
	          WHERE id = $10`
	order.UpdatedAt = time.Now()

	result, err := executor.Exec(query,
		order.OrderDate, order.ProductCode, order.ProductName, order.Category, order.Brand,
		order.Quantity, order.Price, order.ResiNumber, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order %d: %v", ErrDatabaseError, order.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) error {
	result, err := executor.Exec(`DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
