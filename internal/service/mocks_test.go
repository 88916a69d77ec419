package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"milka-pos/internal/domain"
	"milka-pos/internal/repository"
)

var errDatabaseDown = errors.New("connection refused")

// Mock repositories for testing
type mockProductRepository struct {
	products  []*domain.Product
	createErr error
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	product.ID = int64(len(m.products) + 1)
	product.CreatedAt = time.Now()
	m.products = append(m.products, product)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	for _, product := range m.products {
		if product.ID == id {
			return product, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(m.products))
	for i := len(m.products) - 1; i >= 0; i-- {
		out = append(out, m.products[i])
	}
	return out, nil
}

type mockSaleRepository struct {
	mu      sync.Mutex
	stock   map[int64]int
	sales   []*domain.Sale
	lines   []*domain.ReportLine
	from    time.Time
	to      time.Time
	listErr error
}

func newMockSaleRepository(stock map[int64]int) *mockSaleRepository {
	return &mockSaleRepository{stock: stock}
}

func (m *mockSaleRepository) Record(ctx context.Context, sale *domain.Sale) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	available, ok := m.stock[sale.ProductID]
	if !ok {
		return 0, repository.ErrProductNotFound
	}
	if available < sale.Quantity {
		return 0, repository.ErrInsufficientStock
	}

	m.stock[sale.ProductID] = available - sale.Quantity
	sale.ID = int64(len(m.sales) + 1)
	sale.SoldAt = time.Now()
	m.sales = append(m.sales, sale)
	return m.stock[sale.ProductID], nil
}

func (m *mockSaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sales, nil
}

func (m *mockSaleRepository) DailySummary(ctx context.Context, from, to time.Time) ([]*domain.ReportLine, error) {
	m.from, m.to = from, to
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.lines, nil
}

type mockPaymentRepository struct {
	payments  []*domain.Payment
	createErr error
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	payment.ID = int64(len(m.payments) + 1)
	payment.RequestedAt = time.Now()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockPaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	return m.payments, nil
}

type mockImageStore struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{saved: make(map[string][]byte)}
}

func (m *mockImageStore) Validate(filename string, size int64) error {
	return nil
}

func (m *mockImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "uploads/20261014_101500_abcd1234_" + filename
	m.saved[path] = content
	return path, nil
}

func (m *mockImageStore) Remove(relPath string) error {
	m.removed = append(m.removed, relPath)
	delete(m.saved, relPath)
	return nil
}

func (m *mockImageStore) MaxBytes() int64 {
	return 16 << 20
}
