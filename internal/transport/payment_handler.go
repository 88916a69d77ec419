package transport

import (
	"errors"
	"net/http"
	"strings"

	"milka-pos/internal/middleware"
	"milka-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PaymentPromptRequest represents the STK push request payload.
// phone_number is accepted in place of customer_phone.
type PaymentPromptRequest struct {
	CustomerPhone string   `json:"customer_phone" validate:"required,msisdn"`
	PhoneNumber   string   `json:"phone_number" validate:"-"`
	Amount        *float64 `json:"amount" validate:"required,gt=0,money=999999999999.99"`
	ProductID     *int64   `json:"product_id" validate:"omitempty,gt=0"`
	RequestedBy   string   `json:"requested_by"`
}

// PaymentHandler handles HTTP requests for the simulated M-Pesa flow
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers all payment routes; rateLimit guards the prompt
func (h *PaymentHandler) RegisterRoutes(r chi.Router, rateLimit func(http.Handler) http.Handler) {
	r.With(rateLimit).Post("/mpesa/prompt", h.Prompt)
	r.Get("/payments", h.ListPayments)
}

// Prompt simulates an STK push to the customer's phone
func (h *PaymentHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	var req PaymentPromptRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	if req.CustomerPhone == "" {
		req.CustomerPhone = req.PhoneNumber
	}
	req.CustomerPhone = middleware.NormalizePhone(req.CustomerPhone)
	req.RequestedBy = strings.TrimSpace(req.RequestedBy)

	if !validate(w, h.logger, req) {
		return
	}

	result, err := h.paymentService.Prompt(r.Context(), service.PromptInput{
		CustomerPhone: req.CustomerPhone,
		Amount:        *req.Amount,
		ProductID:     req.ProductID,
		RequestedBy:   req.RequestedBy,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrompt) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RespondWithInternalError(w, h.logger, "failed to send payment prompt", err)
		return
	}

	if result.Audit.Failed() {
		h.logger.Debug("Payment prompt answered without audit row", zap.String("side_effect", result.Audit.Name))
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Response)
}

// ListPayments returns the payment audit trail, most recent first
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentService.List(r.Context())
	if err != nil {
		middleware.RespondWithInternalError(w, h.logger, "failed to list payments", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
	})
}
