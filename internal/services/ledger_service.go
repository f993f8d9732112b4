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

// --- Custom Service Errors for the Ledger ---
var (
	ErrValidation    = errors.New("validation error")
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// InsufficientStockError rejects an outgoing entry that would drive the
// product's cumulative stock negative. Available carries the quantity the
// caller can still issue.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}

// DuplicateResiError rejects a write whose resi number already exists in the
// same category. Duplicates holds the conflicting entries.
type DuplicateResiError struct {
	ResiNumber string
	Duplicates []models.LedgerEntry
}

func (e *DuplicateResiError) Error() string {
	return fmt.Sprintf("resi number %q already used by %d existing entries", e.ResiNumber, len(e.Duplicates))
}

// --- DTOs ---

const entryDateLayout = "2006-01-02"

// LedgerEntryRequest is the payload for creating or updating a ledger entry.
type LedgerEntryRequest struct {
	ProductID  int64   `json:"product_id" binding:"required"`
	Direction  string  `json:"direction" binding:"required"` // in | out
	Quantity   int     `json:"quantity" binding:"required"`
	EntryDate  string  `json:"entry_date"` // YYYY-MM-DD, defaults to today
	Partner    *string `json:"partner"`
	ResiNumber *string `json:"resi_number"`
}

// --- LedgerService Interface ---
type LedgerService interface {
	CreateEntry(req LedgerEntryRequest, createdBy *int64) (*models.LedgerEntry, error)
	GetEntries(filter repositories.EntryFilter) ([]models.LedgerEntry, int, error)
	GetEntryByID(entryID int64) (*models.LedgerEntry, error)
	UpdateEntry(entryID int64, req LedgerEntryRequest) (*models.LedgerEntry, error)
	DeleteEntry(entryID int64) error
	CheckResiDuplicate(resiNumber, category string, excludeEntryID *int64) (*models.ResiCheckResult, error)
}

type ledgerService struct {
	ledgerRepo  repositories.LedgerRepository
	productRepo repositories.ProductRepository
	db          *sql.DB
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(ledgerRepo repositories.LedgerRepository, productRepo repositories.ProductRepository, db *sql.DB) LedgerService {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// categoryForDirection maps an entry direction onto its resi-number
// namespace.
func categoryForDirection(direction string) string {
	if direction == models.DirectionOut {
		return models.CategoryOutgoing
	}
	return models.CategoryIncoming
}

func (s *ledgerService) buildEntry(req LedgerEntryRequest) (*models.LedgerEntry, error) {
	if req.Direction != models.DirectionIn && req.Direction != models.DirectionOut {
		return nil, fmt.Errorf("%w: direction must be %q or %q", ErrValidation, models.DirectionIn, models.DirectionOut)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	entryDate := time.Now()
	if req.EntryDate != "" {
		parsed, err := time.Parse(entryDateLayout, req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: entry_date must be YYYY-MM-DD", ErrValidation)
		}
		entryDate = parsed
	}

	var resi *string
	if req.ResiNumber != nil {
		trimmed := strings.TrimSpace(*req.ResiNumber)
		if trimmed != "" {
			resi = &trimmed
		}
	}

	return &models.LedgerEntry{
		ProductID:  req.ProductID,
		Direction:  req.Direction,
		Quantity:   req.Quantity,
		EntryDate:  entryDate,
		Partner:    req.Partner,
		ResiNumber: resi,
		Category:   categoryForDirection(req.Direction),
	}, nil
}

// guardResi rejects the write when the resi number is already taken in the
// entry's category. Empty resi numbers pass; required-field validation is an
// API-boundary concern.
func (s *ledgerService) guardResi(entry *models.LedgerEntry, excludeEntryID *int64) error {
	if entry.ResiNumber == nil {
		return nil
	}
	result, err := s.CheckResiDuplicate(*entry.ResiNumber, entry.Category, excludeEntryID)
	if err != nil {
		return err
	}
	if result.IsDuplicate {
		return &DuplicateResiError{ResiNumber: *entry.ResiNumber, Duplicates: result.Duplicates}
	}
	return nil
}

// ensureStock rejects an outgoing movement that would overdraw the product.
// Runs on the same executor as the write that follows it.
func (s *ledgerService) ensureStock(executor repositories.SQLExecutor, entry *models.LedgerEntry, excludeEntryID *int64) error {
	if entry.Direction != models.DirectionOut {
		return nil
	}
	stock, err := s.ledgerRepo.CurrentStock(executor, entry.ProductID, excludeEntryID)
	if err != nil {
		return fmt.Errorf("failed to read current stock: %w", err)
	}
	if stock < entry.Quantity {
		return &InsufficientStockError{ProductID: entry.ProductID, Available: stock, Requested: entry.Quantity}
	}
	return nil
}

// CreateEntry validates and persists a movement. For outgoing entries the
// stock check and the insert run on one transaction; there is no
// serialization against concurrent writers beyond that.
func (s *ledgerService) CreateEntry(req LedgerEntryRequest, createdBy *int64) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}
	entry.CreatedBy = createdBy

	if _, err := s.productRepo.GetProductByID(entry.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to validate product: %w", err)
	}

	if err := s.guardResi(entry, nil); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureStock(tx, entry, nil); err != nil {
		return nil, err
	}

	if _, err := s.ledgerRepo.CreateEntry(tx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}

	return s.ledgerRepo.GetEntryByID(entry.ID)
}

func (s *ledgerService) GetEntries(filter repositories.EntryFilter) ([]models.LedgerEntry, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	entries, total, err := s.ledgerRepo.GetEntries(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, total, nil
}

func (s *ledgerService) GetEntryByID(entryID int64) (*models.LedgerEntry, error) {
	entry, err := s.ledgerRepo.GetEntryByID(entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry re-validates an edited movement. The entry itself is excluded
// from both the stock re-check and the resi guard so a record never conflicts
// with itself.
func (s *ledgerService) UpdateEntry(entryID int64, req LedgerEntryRequest) (*models.LedgerEntry, error) {
	existing, err := s.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	entry.CreatedBy = existing.CreatedBy

	if entry.ProductID != existing.ProductID {
		if _, err := s.productRepo.GetProductByID(entry.ProductID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to validate product: %w", err)
		}
	}

	if err := s.guardResi(entry, &entryID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureStock(tx, entry, &entryID); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.UpdateEntry(tx, entry); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry update: %w", err)
	}

	return s.ledgerRepo.GetEntryByID(entryID)
}

func (s *ledgerService) DeleteEntry(entryID int64) error {
	err := s.ledgerRepo.DeleteEntry(s.db, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	return nil
}

// CheckResiDuplicate reports whether a resi number is already taken in a
// category, returning every conflicting entry. Whitespace-only numbers
// short-circuit to a non-duplicate result. The check is read-only and
// idempotent; debouncing rapid calls is the caller's concern.
func (s *ledgerService) CheckResiDuplicate(resiNumber, category string, excludeEntryID *int64) (*models.ResiCheckResult, error) {
	trimmed := strings.TrimSpace(resiNumber)
	if trimmed == "" {
		return &models.ResiCheckResult{IsDuplicate: false, Duplicates: []models.LedgerEntry{}}, nil
	}
	if category != models.CategoryIncoming && category != models.CategoryOutgoing {
		return nil, fmt.Errorf("%w: category must be %q or %q", ErrValidation, models.CategoryIncoming, models.CategoryOutgoing)
	}

	duplicates, err := s.ledgerRepo.FindEntriesByResi(trimmed, category, excludeEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resi number: %w", err)
	}
	return &models.ResiCheckResult{
		IsDuplicate: len(duplicates) > 0,
		Duplicates:  duplicates,
	}, nil
}
