package transport

import (
	"errors"
	"net/http"
	"strings"

	"milka-pos/internal/middleware"
	"milka-pos/internal/repository"
	"milka-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecordSaleRequest represents the record-sale request payload
type RecordSaleRequest struct {
	ProductID   *int64   `json:"product_id" validate:"required,gt=0"`
	ProductName string   `json:"product_name" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required,gt=0,lte=2147483647"`
	PriceEach   *float64 `json:"price_each" validate:"required,money=9999999999.99"`
	Total       *float64 `json:"total" validate:"required,money=999999999999.99"`
	SoldBy      string   `json:"sold_by" validate:"required"`
}

// RecordSaleResponse represents the record-sale response
type RecordSaleResponse struct {
	Message           string  `json:"message"`
	SaleID            int64   `json:"sale_id"`
	TotalAmount       float64 `json:"total_amount"`
	RemainingQuantity int     `json:"remaining_quantity"`
}

// SaleHandler handles HTTP requests for sale operations
type SaleHandler struct {
	saleService service.SaleService
	logger      *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// RegisterRoutes registers all sale routes; rateLimit guards the write
func (h *SaleHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.Get("/sales", h.ListSales)
	r.With(rateLimit).Post("/sales", h.RecordSale)
}

// ListSales returns every sale, most recent first
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.List(r.Context())
	if err != nil {
		middleware.RespondWithInternalError(w, h.logger, "failed to list sales", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// RecordSale records a sale and decrements stock
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	req.ProductName = strings.TrimSpace(req.ProductName)
	req.SoldBy = strings.TrimSpace(req.SoldBy)

	if !validate(w, h.logger, req) {
		return
	}

	receipt, err := h.saleService.Record(r.Context(), service.RecordSaleInput{
		ProductID:   *req.ProductID,
		ProductName: req.ProductName,
		Quantity:    *req.Quantity,
		PriceEach:   *req.PriceEach,
		Total:       *req.Total,
		SoldBy:      req.SoldBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
		default:
			middleware.RespondWithInternalError(w, h.logger, "failed to record sale", err)
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RecordSaleResponse{
		Message:           "Sale recorded successfully",
		SaleID:            receipt.Sale.ID,
		TotalAmount:       receipt.Sale.Total,
		RemainingQuantity: receipt.RemainingQuantity,
	})
}
