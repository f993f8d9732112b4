package services

import (
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// fakeLedgerRepo is an in-memory LedgerRepository for service tests.
type fakeLedgerRepo struct {
	entries    []models.LedgerEntry
	aggregates []models.ProductAggregate
	flows      []models.MonthlyFlow
	nextID     int64
}

func (f *fakeLedgerRepo) CreateEntry(_ repositories.SQLExecutor, entry *models.LedgerEntry) (int64, error) {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return entry.ID, nil
}

func (f *fakeLedgerRepo) GetEntries(filter repositories.EntryFilter) ([]models.LedgerEntry, int, error) {
	matched := []models.LedgerEntry{}
	for _, e := range f.entries {
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.Direction != nil && e.Direction != *filter.Direction {
			continue
		}
		if filter.StartDate != nil && e.EntryDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.EntryDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, len(matched), nil
}

func (f *fakeLedgerRepo) GetEntryByID(entryID int64) (*models.LedgerEntry, error) {
	for _, e := range f.entries {
		if e.ID == entryID {
			entry := e
			return &entry, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeLedgerRepo) UpdateEntry(_ repositories.SQLExecutor, entry *models.LedgerEntry) error {
	for i, e := range f.entries {
		if e.ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeLedgerRepo) DeleteEntry(_ repositories.SQLExecutor, entryID int64) error {
	for i, e := range f.entries {
		if e.ID == entryID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeLedgerRepo) CountEntriesForProduct(productID int64) (int, error) {
	count := 0
	for _, e := range f.entries {
		if e.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedgerRepo) CurrentStock(_ repositories.SQLExecutor, productID int64, excludeEntryID *int64) (int, error) {
	stock := 0
	for _, e := range f.entries {
		if e.ProductID != productID {
			continue
		}
		if excludeEntryID != nil && e.ID == *excludeEntryID {
			continue
		}
		if e.Direction == models.DirectionIn {
			stock += e.Quantity
		} else {
			stock -= e.Quantity
		}
	}
	return stock, nil
}

func (f *fakeLedgerRepo) FindEntriesByResi(resiNumber, category string, excludeEntryID *int64) ([]models.LedgerEntry, error) {
	matched := []models.LedgerEntry{}
	for _, e := range f.entries {
		if e.ResiNumber == nil || *e.ResiNumber != resiNumber || e.Category != category {
			continue
		}
		if excludeEntryID != nil && e.ID == *excludeEntryID {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

func (f *fakeLedgerRepo) FindIncomingByResiNumbers(resiNumbers []string) ([]models.LedgerEntry, error) {
	wanted := map[string]bool{}
	for _, r := range resiNumbers {
		wanted[r] = true
	}
	matched := []models.LedgerEntry{}
	for _, e := range f.entries {
		if e.Category == models.CategoryIncoming && e.ResiNumber != nil && wanted[*e.ResiNumber] {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (f *fakeLedgerRepo) ProductAggregates(productID *int64, _, _ time.Time) ([]models.ProductAggregate, error) {
	if productID == nil {
		return f.aggregates, nil
	}
	matched := []models.ProductAggregate{}
	for _, a := range f.aggregates {
		if a.ProductID == *productID {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (f *fakeLedgerRepo) MonthlyFlows(_ time.Time) ([]models.MonthlyFlow, error) {
	return f.flows, nil
}

func (f *fakeLedgerRepo) LedgerTotals() (int, int, int, error) {
	products := map[int64]bool{}
	totalIn, totalOut := 0, 0
	for _, e := range f.entries {
		products[e.ProductID] = true
		if e.Direction == models.DirectionIn {
			totalIn += e.Quantity
		} else {
			totalOut += e.Quantity
		}
	}
	return len(products), totalIn, totalOut, nil
}

// fakeProductRepo is an in-memory ProductRepository for service tests.
type fakeProductRepo struct {
	products []models.Product
	nextID   int64
}

func (f *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	f.nextID++
	product.ID = f.nextID
	f.products = append(f.products, *product)
	return product.ID, nil
}

func (f *fakeProductRepo) GetProducts(_ *string, _ *string, _, _ int) ([]models.Product, int, error) {
	return f.products, len(f.products), nil
}

func (f *fakeProductRepo) GetAllProducts() ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeProductRepo) GetProductByID(productID int64) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == productID {
			product := p
			return &product, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) GetProductByCode(code string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) GetProductByBarcodeID(barcodeID string) (*models.Product, error) {
	for _, p := range f.products {
		if p.BarcodeID != nil && *p.BarcodeID == barcodeID {
			product := p
			return &product, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) CountProductsByCode(code string, excludeID *int64) (int, error) {
	count := 0
	for _, p := range f.products {
		if p.Code != code {
			continue
		}
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	for i, p := range f.products {
		if p.ID == product.ID {
			f.products[i] = *product
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeProductRepo) DeleteProduct(_ repositories.SQLExecutor, productID int64) error {
	for i, p := range f.products {
		if p.ID == productID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeProductRepo) CategoryCounts() ([]models.CategoryCount, error) {
	counts := map[string]int{}
	order := []string{}
	for _, p := range f.products {
		if _, seen := counts[p.Category]; !seen {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}
	result := []models.CategoryCount{}
	for _, category := range order {
		result = append(result, models.CategoryCount{Category: category, TotalItems: counts[category]})
	}
	return result, nil
}

// fakeOrderRepo is an in-memory OrderRepository for service tests.
type fakeOrderRepo struct {
	orders []models.Order
	nextID int64
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.nextID++
	order.ID = f.nextID
	f.orders = append(f.orders, *order)
	return order.ID, nil
}

func (f *fakeOrderRepo) GetOrders(_ *string, _, _ int) ([]models.Order, int, error) {
	return f.orders, len(f.orders), nil
}

func (f *fakeOrderRepo) GetAllOrders() ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) UpdateOrder(_ repositories.SQLExecutor, order *models.Order) error {
	for i, o := range f.orders {
		if o.ID == order.ID {
			f.orders[i] = *order
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeOrderRepo) DeleteOrder(_ repositories.SQLExecutor, orderID int64) error {
	for i, o := range f.orders {
		if o.ID == orderID {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
