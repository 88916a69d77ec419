package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"milka-pos/internal/database"
	"milka-pos/internal/domain"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	Record(ctx context.Context, sale *domain.Sale) (remaining int, err error)
	List(ctx context.Context) ([]*domain.Sale, error)
	DailySummary(ctx context.Context, from, to time.Time) ([]*domain.ReportLine, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Record decrements stock and inserts the sale as one transaction. The
// decrement is conditional so concurrent sales cannot oversell.
func (r *saleRepository) Record(ctx context.Context, sale *domain.Sale) (int, error) {
	decrementQuery := `
		UPDATE products
		SET quantity = quantity - $1
		WHERE id = $2 AND quantity >= $1
		RETURNING quantity
	`

	insertQuery := `
		INSERT INTO sales (product_id, product_name, quantity, price_each, total, sold_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, sold_at
	`

	var remaining int

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, decrementQuery, sale.Quantity, sale.ProductID).Scan(&remaining)
		if errors.Is(err, sql.ErrNoRows) {
			return stockFailure(ctx, tx, sale.ProductID)
		}
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		err = tx.QueryRowContext(
			ctx,
			insertQuery,
			sale.ProductID,
			sale.ProductName,
			sale.Quantity,
			sale.PriceEach,
			sale.Total,
			sale.SoldBy,
		).Scan(&sale.ID, &sale.SoldAt)
		if err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to record sale: %w", err)
	}

	return remaining, nil
}

// stockFailure explains why the guarded decrement matched no row
func stockFailure(ctx context.Context, tx database.DBTX, productID int64) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}

	if !exists {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

// List retrieves every sale, most recent first
func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT id, product_id, product_name, quantity, price_each, total, sold_by, sold_at
		FROM sales
		ORDER BY sold_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale := &domain.Sale{}
		err := rows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.ProductName,
			&sale.Quantity,
			&sale.PriceEach,
			&sale.Total,
			&sale.SoldBy,
			&sale.SoldAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}

// DailySummary groups the sales in [from, to) by product, best sellers first
func (r *saleRepository) DailySummary(ctx context.Context, from, to time.Time) ([]*domain.ReportLine, error) {
	query := `
		SELECT
			product_id,
			product_name,
			SUM(quantity) AS total_quantity_sold,
			SUM(total) AS total_sales_amount,
			COUNT(*) AS number_of_sales
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		GROUP BY product_id, product_name
		ORDER BY total_sales_amount DESC, product_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}
	defer rows.Close()

	lines := []*domain.ReportLine{}
	for rows.Next() {
		line := &domain.ReportLine{}
		err := rows.Scan(
			&line.ProductID,
			&line.ProductName,
			&line.TotalQuantitySold,
			&line.TotalSalesAmount,
			&line.NumberOfSales,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report lines: %w", err)
	}

	return lines, nil
}
