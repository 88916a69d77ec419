package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"milka-pos/internal/config"
	"milka-pos/internal/domain"
	"milka-pos/internal/repository"

	"go.uber.org/zap"
)

const (
	stkResponseCode        = "0"
	stkResponseDescription = "Success. Request accepted for processing"
	checkoutRequestPrefix  = "ws_CO_"
	stkTimestampLayout     = "20060102150405"
	paymentAuditNote       = "M-Pesa STK Push initiated"
)

var (
	ErrInvalidPrompt = errors.New("customer phone and a positive amount are required")
)

// PromptInput holds an already validated payment prompt
type PromptInput struct {
	CustomerPhone string
	Amount        float64
	ProductID     *int64
	RequestedBy   string
}

// SideEffect records the outcome of a write that must not fail the request
type SideEffect struct {
	Name string
	Err  error
}

// Failed reports whether the side effect did not complete
func (e SideEffect) Failed() bool {
	return e.Err != nil
}

// PromptResult carries the STK push response and what happened to its audit row
type PromptResult struct {
	Response domain.STKPushResponse
	Payment  *domain.Payment
	Audit    SideEffect
}

// PaymentService defines the interface for the simulated M-Pesa flow
type PaymentService interface {
	Prompt(ctx context.Context, input PromptInput) (*PromptResult, error)
	List(ctx context.Context) ([]*domain.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	shop        config.ShopConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(paymentRepo repository.PaymentRepository, shop config.ShopConfig, logger *zap.Logger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		shop:        shop,
		logger:      logger,
		now:         time.Now,
	}
}

// Prompt simulates an STK push. The payment audit row is written on a best
// effort basis: its failure is logged and reported in the result only.
func (s *paymentService) Prompt(ctx context.Context, input PromptInput) (*PromptResult, error) {
	if strings.TrimSpace(input.CustomerPhone) == "" || !(input.Amount > 0) {
		return nil, ErrInvalidPrompt
	}

	requestedBy := input.RequestedBy
	if requestedBy == "" {
		requestedBy = domain.DefaultRequester
	}

	timestamp := s.now().Format(stkTimestampLayout)
	response := domain.STKPushResponse{
		ResponseCode:        stkResponseCode,
		ResponseDescription: stkResponseDescription,
		MerchantRequestID:   s.shop.MerchantPrefix + timestamp,
		CheckoutRequestID:   checkoutRequestPrefix + timestamp,
		CustomerMessage: fmt.Sprintf(
			"Confirm payment of %s %s to %s. Enter your M-Pesa PIN to complete the transaction.",
			s.shop.Currency,
			strconv.FormatFloat(input.Amount, 'f', -1, 64),
			s.shop.Name,
		),
	}

	payment := &domain.Payment{
		CustomerPhone:     input.CustomerPhone,
		Amount:            input.Amount,
		ProductID:         input.ProductID,
		Note:              paymentAuditNote,
		Status:            domain.PaymentStatusPending,
		RequestedBy:       requestedBy,
		MerchantRequestID: response.MerchantRequestID,
		CheckoutRequestID: response.CheckoutRequestID,
	}

	result := &PromptResult{
		Response: response,
		Payment:  payment,
		Audit:    SideEffect{Name: "payment_audit"},
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		result.Audit.Err = err
		s.logger.Warn("Payment audit write failed",
			zap.String("checkout_request_id", response.CheckoutRequestID),
			zap.Float64("amount", input.Amount),
			zap.Error(err),
		)
		return result, nil
	}

	s.logger.Info("STK push simulated",
		zap.Int64("payment_id", payment.ID),
		zap.String("checkout_request_id", response.CheckoutRequestID),
		zap.String("requested_by", requestedBy),
	)

	return result, nil
}

func (s *paymentService) List(ctx context.Context) ([]*domain.Payment, error) {
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
