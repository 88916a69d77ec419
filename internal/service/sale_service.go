package service

import (
	"context"
	"fmt"

	"milka-pos/internal/domain"
	"milka-pos/internal/repository"

	"go.uber.org/zap"
)

// RecordSaleInput holds an already validated sale. Total is the caller's
// figure and is stored as sent.
type RecordSaleInput struct {
	ProductID   int64
	ProductName string
	Quantity    int
	PriceEach   float64
	Total       float64
	SoldBy      string
}

// SaleReceipt is the outcome of a recorded sale
type SaleReceipt struct {
	Sale              *domain.Sale
	RemainingQuantity int
}

// SaleService defines the interface for sale business logic
type SaleService interface {
	Record(ctx context.Context, input RecordSaleInput) (*SaleReceipt, error)
	List(ctx context.Context) ([]*domain.Sale, error)
}

type saleService struct {
	saleRepo repository.SaleRepository
	logger   *zap.Logger
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(saleRepo repository.SaleRepository, logger *zap.Logger) SaleService {
	return &saleService{
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// Record decrements stock and stores the sale atomically. It fails with
// repository.ErrProductNotFound or repository.ErrInsufficientStock without
// changing anything.
func (s *saleService) Record(ctx context.Context, input RecordSaleInput) (*SaleReceipt, error) {
	sale := &domain.Sale{
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		PriceEach:   input.PriceEach,
		Total:       input.Total,
		SoldBy:      input.SoldBy,
	}

	remaining, err := s.saleRepo.Record(ctx, sale)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Int("remaining_quantity", remaining),
		zap.String("sold_by", sale.SoldBy),
	)

	return &SaleReceipt{Sale: sale, RemainingQuantity: remaining}, nil
}

func (s *saleService) List(ctx context.Context) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
