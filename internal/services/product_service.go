package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// --- Custom Service Errors for Products ---
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductCodeExists = errors.New("product code already exists")
	ErrProductHasEntries = errors.New("product has ledger entries and cannot be deleted")
)

// --- Product DTOs ---
type ProductRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Unit        string  `json:"unit"`
	MinStock    int     `json:"min_stock"`
	Price       float64 `json:"price"`
	BarcodeID   *string `json:"barcode_id"`
	Description *string `json:"description"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req ProductRequest) (*models.Product, error)
	GetProducts(category, search *string, page, pageSize int) ([]models.Product, int, error)
	GetAllProducts() ([]models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProductByCode(code string) (*models.Product, error)
	GetProductByBarcodeID(barcodeID string) (*models.Product, error)
	UpdateProduct(productID int64, req ProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
}

type productService struct {
	productRepo repositories.ProductRepository
	ledgerRepo  repositories.LedgerRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repositories.ProductRepository, ledgerRepo repositories.LedgerRepository, db *sql.DB) ProductService {
	return &productService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		db:          db,
	}
}

func (s *productService) validate(req ProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: product code cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if req.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock cannot be negative", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return &models.Product{
		Code:        strings.TrimSpace(req.Code),
		Name:        req.Name,
		Category:    req.Category,
		Brand:       req.Brand,
		Unit:        req.Unit,
		MinStock:    req.MinStock,
		Price:       req.Price,
		BarcodeID:   req.BarcodeID,
		Description: req.Description,
	}, nil
}

func (s *productService) CreateProduct(req ProductRequest) (*models.Product, error) {
	product, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	count, err := s.productRepo.CountProductsByCode(product.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductCodeExists, product.Code)
	}

	if _, err := s.productRepo.CreateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrProductCodeExists, product.Code)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProducts(category, search *string, page, pageSize int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	products, total, err := s.productRepo.GetProducts(category, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *productService) GetAllProducts() ([]models.Product, error) {
	products, err := s.productRepo.GetAllProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProductByCode(code string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by code: %w", err)
	}
	return product, nil
}

func (s *productService) GetProductByBarcodeID(barcodeID string) (*models.Product, error) {
	product, err := s.productRepo.GetProductByBarcodeID(barcodeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by barcode: %w", err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(productID int64, req ProductRequest) (*models.Product, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, err
	}

	product, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	product.ID = productID

	count, err := s.productRepo.CountProductsByCode(product.Code, &productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductCodeExists, product.Code)
	}

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrProductCodeExists, product.Code)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(productID)
}

// DeleteProduct removes a catalog product. Products referenced by ledger
// entries are kept for reporting history and cannot be deleted.
func (s *productService) DeleteProduct(productID int64) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}

	entryCount, err := s.ledgerRepo.CountEntriesForProduct(productID)
	if err != nil {
		return fmt.Errorf("failed to count ledger entries: %w", err)
	}
	if entryCount > 0 {
		return fmt.Errorf("%w: %d entries", ErrProductHasEntries, entryCount)
	}

	if err := s.productRepo.DeleteProduct(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
