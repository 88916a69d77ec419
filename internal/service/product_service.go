package service

import (
	"context"
	"fmt"
	"io"

	"milka-pos/internal/domain"
	"milka-pos/internal/repository"
	"milka-pos/internal/storage"

	"go.uber.org/zap"
)

// ImageUpload is an image file attached to a new product
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// CreateProductInput holds already validated product attributes
type CreateProductInput struct {
	Name      string
	Brand     string
	Category  string
	Quantity  int
	PriceEach float64
	Image     *ImageUpload
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	images      storage.ImageStore
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, images storage.ImageStore, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		logger:      logger,
	}
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create stores the image, then the product. price_total is fixed here from
// the price as stored, in cents, and never recomputed. The image is removed
// again when the insert fails.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	priceEach := domain.RoundCents(input.PriceEach)
	product := &domain.Product{
		Name:       input.Name,
		Brand:      input.Brand,
		Category:   input.Category,
		Quantity:   input.Quantity,
		PriceEach:  priceEach,
		PriceTotal: domain.RoundCents(float64(input.Quantity) * priceEach),
	}

	if input.Image != nil {
		path, err := s.images.Save(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to save product image: %w", err)
		}
		product.Image = &path
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if product.Image != nil {
			if rmErr := s.images.Remove(*product.Image); rmErr != nil {
				s.logger.Warn("Failed to remove orphaned product image",
					zap.String("image", *product.Image),
					zap.Error(rmErr),
				)
			}
		}
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)

	return product, nil
}
