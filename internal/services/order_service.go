package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// --- Custom Service Errors for Orders ---
var (
	ErrOrderNotFound = errors.New("order not found")
)

// --- Order DTOs ---
type OrderRequest struct {
	OrderDate   string  `json:"order_date"` // YYYY-MM-DD, defaults to today
	ProductCode string  `json:"product_code" binding:"required"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Quantity    int     `json:"quantity" binding:"required"`
	Price       float64 `json:"price"`
	ResiNumber  string  `json:"resi_number" binding:"required"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(req OrderRequest, createdBy *int64) (*models.Order, error)
	GetOrders(search *string, page, pageSize int) ([]models.Order, int, error)
	UpdateOrder(orderID int64, req OrderRequest) (*models.Order, error)
	DeleteOrder(orderID int64) error
	VerifyOrders() ([]models.OrderVerification, error)
}

type orderService struct {
	orderRepo  repositories.OrderRepository
	ledgerRepo repositories.LedgerRepository
	db         *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, ledgerRepo repositories.LedgerRepository, db *sql.DB) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		db:         db,
	}
}

func (s *orderService) buildOrder(req OrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.ProductCode) == "" {
		return nil, fmt.Errorf("%w: product_code cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.ResiNumber) == "" {
		return nil, fmt.Errorf("%w: resi_number cannot be empty", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		parsed, err := time.Parse(entryDateLayout, req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: order_date must be YYYY-MM-DD", ErrValidation)
		}
		orderDate = parsed
	}

	return &models.Order{
		OrderDate:   orderDate,
		ProductCode: strings.TrimSpace(req.ProductCode),
		ProductName: req.ProductName,
		Category:    req.Category,
		Brand:       req.Brand,
		Quantity:    req.Quantity,
		Price:       req.Price,
		ResiNumber:  strings.TrimSpace(req.ResiNumber),
	}, nil
}

func (s *orderService) CreateOrder(req OrderRequest, createdBy *int64) (*models.Order, error) {
	order, err := s.buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.CreatedBy = createdBy

	if _, err := s.orderRepo.CreateOrder(s.db, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrders(search *string, page, pageSize int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	orders, total, err := s.orderRepo.GetOrders(search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) UpdateOrder(orderID int64, req OrderRequest) (*models.Order, error) {
	existing, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order, err := s.buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.ID = orderID
	order.CreatedBy = existing.CreatedBy

	if err := s.orderRepo.UpdateOrder(s.db, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return order, nil
}

func (s *orderService) DeleteOrder(orderID int64) error {
	if err := s.orderRepo.DeleteOrder(s.db, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// MatchOrder compares one order against the incoming entries carrying its
// resi number. An exact hit on product code and quantity is "found"; a resi
// hit with differing fields is "mismatch" with the first entry reported as
// the closest match; no resi hit at all is "missing".
func MatchOrder(order models.Order, incoming []models.LedgerEntry) models.OrderVerification {
	verification := models.OrderVerification{Order: order, Status: models.OrderMatchMissing}
	if len(incoming) == 0 {
		return verification
	}

	var closest *models.LedgerEntry
	bestMismatches := 3
	for i := range incoming {
		entry := incoming[i]
		mismatches := map[string]bool{}
		if entry.Product == nil || entry.Product.Code != order.ProductCode {
			mismatches["product_code"] = true
		}
		if entry.Quantity != order.Quantity {
			mismatches["quantity"] = true
		}
		if len(mismatches) == 0 {
			return models.OrderVerification{
				Order:        order,
				Status:       models.OrderMatchFound,
				ClosestMatch: &incoming[i],
			}
		}
		if len(mismatches) < bestMismatches {
			bestMismatches = len(mismatches)
			closest = &incoming[i]
			verification.FieldMismatches = mismatches
		}
	}

	verification.Status = models.OrderMatchMismatch
	verification.ClosestMatch = closest
	return verification
}

// VerifyOrders matches every order against the incoming ledger by resi
// number.
func (s *orderService) VerifyOrders() ([]models.OrderVerification, error) {
	orders, err := s.orderRepo.GetAllOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	resiNumbers := make([]string, 0, len(orders))
	seen := map[string]bool{}
	for _, order := range orders {
		if !seen[order.ResiNumber] {
			seen[order.ResiNumber] = true
			resiNumbers = append(resiNumbers, order.ResiNumber)
		}
	}

	incoming, err := s.ledgerRepo.FindIncomingByResiNumbers(resiNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load incoming entries: %w", err)
	}

	byResi := map[string][]models.LedgerEntry{}
	for _, entry := range incoming {
		if entry.ResiNumber != nil {
			byResi[*entry.ResiNumber] = append(byResi[*entry.ResiNumber], entry)
		}
	}

	verifications := make([]models.OrderVerification, 0, len(orders))
	for _, order := range orders {
		verifications = append(verifications, MatchOrder(order, byResi[order.ResiNumber]))
	}
	return verifications, nil
}
