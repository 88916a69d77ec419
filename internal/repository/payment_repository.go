package repository

import (
	"context"
	"database/sql"
	"fmt"

	"milka-pos/internal/domain"
)

// PaymentRepository defines the interface for payment audit rows
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context) ([]*domain.Payment, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a payment request and fills in the generated id and time
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (customer_phone, amount, product_id, note, status, requested_by,
		                      merchant_request_id, checkout_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, requested_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		payment.CustomerPhone,
		payment.Amount,
		payment.ProductID,
		payment.Note,
		payment.Status,
		payment.RequestedBy,
		payment.MerchantRequestID,
		payment.CheckoutRequestID,
	).Scan(&payment.ID, &payment.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// List retrieves every payment request, most recent first
func (r *paymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT id, customer_phone, amount, product_id, note, status, requested_by, requested_at,
		       merchant_request_id, checkout_request_id
		FROM payments
		ORDER BY requested_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		payment := &domain.Payment{}
		var (
			productID  sql.NullInt64
			note       sql.NullString
			merchantID sql.NullString
			checkoutID sql.NullString
		)

		err := rows.Scan(
			&payment.ID,
			&payment.CustomerPhone,
			&payment.Amount,
			&productID,
			&note,
			&payment.Status,
			&payment.RequestedBy,
			&payment.RequestedAt,
			&merchantID,
			&checkoutID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		if productID.Valid {
			payment.ProductID = &productID.Int64
		}
		payment.Note = note.String
		payment.MerchantRequestID = merchantID.String
		payment.CheckoutRequestID = checkoutID.String

		payments = append(payments, payment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}
