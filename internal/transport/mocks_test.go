package transport

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"milka-pos/internal/config"
	"milka-pos/internal/domain"
	"milka-pos/internal/repository"
	"milka-pos/internal/service"
	"milka-pos/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// memoryStore backs the mock repositories so products and sales share stock
type memoryStore struct {
	mu         sync.Mutex
	products   []*domain.Product
	sales      []*domain.Sale
	payments   []*domain.Payment
	paymentErr error
}

type memoryProductRepository struct{ *memoryStore }

func (m memoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	product.ID = int64(len(m.products) + 1)
	product.CreatedAt = time.Now()
	m.products = append(m.products, product)
	return nil
}

func (m memoryProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, product := range m.products {
		if product.ID == id {
			return product, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m memoryProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Product{}
	for i := len(m.products) - 1; i >= 0; i-- {
		out = append(out, m.products[i])
	}
	return out, nil
}

type memorySaleRepository struct{ *memoryStore }

func (m memorySaleRepository) Record(ctx context.Context, sale *domain.Sale) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, product := range m.products {
		if product.ID != sale.ProductID {
			continue
		}
		if product.Quantity < sale.Quantity {
			return 0, repository.ErrInsufficientStock
		}
		product.Quantity -= sale.Quantity
		sale.ID = int64(len(m.sales) + 1)
		sale.SoldAt = time.Now()
		m.sales = append(m.sales, sale)
		return product.Quantity, nil
	}
	return 0, repository.ErrProductNotFound
}

func (m memorySaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Sale{}
	for i := len(m.sales) - 1; i >= 0; i-- {
		out = append(out, m.sales[i])
	}
	return out, nil
}

func (m memorySaleRepository) DailySummary(ctx context.Context, from, to time.Time) ([]*domain.ReportLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byProduct := map[int64]*domain.ReportLine{}
	lines := []*domain.ReportLine{}
	for _, sale := range m.sales {
		if sale.SoldAt.Before(from) || !sale.SoldAt.Before(to) {
			continue
		}
		line, ok := byProduct[sale.ProductID]
		if !ok {
			line = &domain.ReportLine{ProductID: sale.ProductID, ProductName: sale.ProductName}
			byProduct[sale.ProductID] = line
			lines = append(lines, line)
		}
		line.TotalQuantitySold += sale.Quantity
		line.TotalSalesAmount += sale.Total
		line.NumberOfSales++
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].TotalSalesAmount > lines[j].TotalSalesAmount })
	return lines, nil
}

type memoryPaymentRepository struct{ *memoryStore }

func (m memoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paymentErr != nil {
		return m.paymentErr
	}
	payment.ID = int64(len(m.payments) + 1)
	payment.RequestedAt = time.Now()
	m.payments = append(m.payments, payment)
	return nil
}

func (m memoryPaymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Payment{}
	for i := len(m.payments) - 1; i >= 0; i-- {
		out = append(out, m.payments[i])
	}
	return out, nil
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// newTestRouter wires real services and handlers over the in-memory store
func newTestRouter(t *testing.T, maxImageBytes int64) (http.Handler, *memoryStore, string) {
	t.Helper()

	logger := zap.NewNop()
	store := &memoryStore{}

	uploadDir := t.TempDir()
	images, err := storage.NewLocalImageStore(uploadDir, maxImageBytes)
	if err != nil {
		t.Fatalf("Failed to create image store: %v", err)
	}

	shop := config.ShopConfig{Name: "Milka Shop Juja", MerchantPrefix: "MILKA", Currency: "KES"}

	productService := service.NewProductService(memoryProductRepository{store}, images, logger)
	saleService := service.NewSaleService(memorySaleRepository{store}, logger)
	reportService := service.NewReportService(memorySaleRepository{store})
	paymentService := service.NewPaymentService(memoryPaymentRepository{store}, shop, logger)

	r := chi.NewRouter()
	NewProductHandler(productService, images, logger).RegisterRoutes(r)
	NewSaleHandler(saleService, logger).RegisterRoutes(r, passthrough)
	NewReportHandler(reportService, logger).RegisterRoutes(r)
	NewPaymentHandler(paymentService, logger).RegisterRoutes(r, passthrough)

	return r, store, uploadDir
}
