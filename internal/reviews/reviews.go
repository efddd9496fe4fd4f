// Package reviews lets customers review delivered retail orders.
package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/orders"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("review not found")
	ErrNotEligible  = errors.New("order is not eligible for review")
	ErrInvalidInput = errors.New("invalid input")
)

type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewReview struct {
	OrderID string `json:"order_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// Create records a review. Only the buyer of a delivered retail order may
// review it, once.
func (c *Conf) Create(ctx context.Context, customerID string, nr NewReview) (Review, error) {
	if nr.Rating < 1 || nr.Rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	var buyerID, productID, status, orderType string
	err := c.db.QueryRowContext(ctx,
		`SELECT buyer_id, product_id, status, order_type FROM orders WHERE id = $1`,
		nr.OrderID,
	).Scan(&buyerID, &productID, &status, &orderType)
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, fmt.Errorf("%w: order %s", ErrNotFound, nr.OrderID)
	}
	if err != nil {
		return Review{}, fmt.Errorf("querying order: %w", err)
	}
	if buyerID != customerID {
		return Review{}, fmt.Errorf("%w: not the buyer", ErrNotEligible)
	}
	if orders.OrderType(orderType) != orders.TypeRetail || orders.RetailStatus(status) != orders.RetailDelivered {
		return Review{}, fmt.Errorf("%w: order must be a delivered retail order", ErrNotEligible)
	}

	r := Review{
		ID:         uuid.NewString(),
		OrderID:    nr.OrderID,
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     nr.Rating,
		Comment:    nr.Comment,
	}
	err = c.db.QueryRowContext(ctx,
		`INSERT INTO reviews (id, order_id, product_id, customer_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 RETURNING created_at`,
		r.ID, r.OrderID, r.ProductID, r.CustomerID, r.Rating, r.Comment,
	).Scan(&r.CreatedAt)
	if err != nil {
		return Review{}, fmt.Errorf("inserting review: %w", err)
	}
	return r, nil
}

// ListForProduct returns a product's reviews, newest first.
func (c *Conf) ListForProduct(ctx context.Context, productID string) ([]Review, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, customer_id, rating, comment, created_at
		 FROM reviews
		 WHERE product_id = $1
		 ORDER BY created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.OrderID, &r.ProductID, &r.CustomerID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return out, nil
}
