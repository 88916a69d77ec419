package domain

import "time"

const (
	PaymentStatusPending = "pending"

	// DefaultRequester is recorded when a prompt does not say who sent it
	DefaultRequester = "system"
)

// Payment is the audit row written for every simulated STK push
type Payment struct {
	ID                int64     `json:"id" db:"id"`
	CustomerPhone     string    `json:"customer_phone" db:"customer_phone"`
	Amount            float64   `json:"amount" db:"amount"`
	ProductID         *int64    `json:"product_id" db:"product_id"`
	Note              string    `json:"note" db:"note"`
	Status            string    `json:"status" db:"status"`
	RequestedBy       string    `json:"requested_by" db:"requested_by"`
	RequestedAt       time.Time `json:"requested_at" db:"requested_at"`
	MerchantRequestID string    `json:"merchant_request_id" db:"merchant_request_id"`
	CheckoutRequestID string    `json:"checkout_request_id" db:"checkout_request_id"`
}

// STKPushResponse mirrors the payload returned by the M-Pesa Express API
type STKPushResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	CustomerMessage     string `json:"CustomerMessage"`
}
