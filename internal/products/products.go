package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/catalog"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

const productColumns = `id, seller_id, name, description, price, stock, category,
	is_local_specialty, created_at, updated_at`

// InsertProduct creates a listing owned by the given seller.
func (c *Conf) InsertProduct(ctx context.Context, sellerID string, np NewProduct) (Product, error) {
	if np.Price <= 0 {
		return Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if np.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}

	p := Product{
		ID:               uuid.NewString(),
		SellerID:         sellerID,
		Name:             strings.TrimSpace(np.Name),
		Description:      np.Description,
		Price:            np.Price,
		Stock:            np.Stock,
		Category:         np.Category,
		IsLocalSpecialty: np.IsLocalSpecialty,
	}
	if p.Name == "" {
		return Product{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	err := c.db.QueryRowContext(ctx,
		`INSERT INTO products (id, seller_id, name, description, price, stock, category, is_local_specialty, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		p.ID, p.SellerID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.IsLocalSpecialty,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("inserting product: %w", err)
	}
	return p, nil
}

// GetProductByID fetches one listing.
func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, productID)
	}
	if err != nil {
		return Product{}, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// UpdateProductInDB edits the seller's own listing.
func (c *Conf) UpdateProductInDB(ctx context.Context, productID, sellerID string, up UpdateProduct) (Product, error) {
	current, err := c.GetProductByID(ctx, productID)
	if err != nil {
		return Product{}, err
	}
	if current.SellerID != sellerID {
		return Product{}, fmt.Errorf("%w: product belongs to a different seller", ErrInvalidInput)
	}

	if up.Name != nil {
		current.Name = strings.TrimSpace(*up.Name)
	}
	if up.Description != nil {
		current.Description = *up.Description
	}
	if up.Price != nil {
		current.Price = *up.Price
	}
	if up.Stock != nil {
		current.Stock = *up.Stock
	}
	if up.Category != nil {
		current.Category = *up.Category
	}
	if up.IsLocalSpecialty != nil {
		current.IsLocalSpecialty = *up.IsLocalSpecialty
	}
	if current.Price <= 0 {
		return Product{}, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if current.Stock < 0 {
		return Product{}, fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}

	err = c.db.QueryRowContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, stock = $4, category = $5,
			 is_local_specialty = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		current.Name, current.Description, current.Price, current.Stock,
		current.Category, current.IsLocalSpecialty, productID,
	).Scan(&current.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("updating product: %w", err)
	}
	return current, nil
}

// DeleteProductFromDB removes the seller's own listing.
func (c *Conf) DeleteProductFromDB(ctx context.Context, productID, sellerID string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND seller_id = $2`, productID, sellerID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, productID)
	}
	return nil
}

// ListProductsFromDB returns the seller's own listings with optional name and
// category filters and pagination.
func (c *Conf) ListProductsFromDB(ctx context.Context, sellerID, nameFilter, categoryFilter string, limit, offset int) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE seller_id = $1`
	args := []any{sellerID}
	if nameFilter != "" {
		args = append(args, "%"+strings.ToLower(nameFilter)+"%")
		query += fmt.Sprintf(" AND lower(name) LIKE $%d", len(args))
	}
	if categoryFilter != "" {
		args = append(args, categoryFilter)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return out, nil
}

// ListCatalogListings returns every in-stock listing annotated with its
// seller's display name and geolocation, ready for the aggregation engine.
// Role filters which sellers are visible: customers browse retailers,
// retailers browse wholesalers.
func (c *Conf) ListCatalogListings(ctx context.Context, sellerRole string) ([]catalog.Listing, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT p.id, p.seller_id, p.name, p.description, p.price, p.stock, p.category,
			p.is_local_specialty, pr.full_name, pr.business_name, pr.location_lat, pr.location_lng
		 FROM products p
		 JOIN profiles pr ON pr.id = p.seller_id
		 WHERE p.stock > 0 AND pr.role = $1
		 ORDER BY p.created_at DESC`,
		sellerRole,
	)
	if err != nil {
		return nil, fmt.Errorf("querying catalog listings: %w", err)
	}
	defer rows.Close()

	var out []catalog.Listing
	for rows.Next() {
		var l catalog.Listing
		var business sql.NullString
		var lat, lng sql.NullFloat64
		err := rows.Scan(&l.ProductID, &l.SellerID, &l.Name, &l.Description, &l.Price,
			&l.Stock, &l.Category, &l.IsLocalSpecialty, &l.SellerName, &business, &lat, &lng)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		l.SellerBusinessName = business.String
		if lat.Valid && lng.Valid {
			l.SellerLocation = &catalog.Location{Lat: lat.Float64, Lng: lng.Float64}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}
	return out, nil
}

// GetProductStockAndPrice returns the current stock and price for a product.
func (c *Conf) GetProductStockAndPrice(ctx context.Context, productID string) (int, float64, error) {
	var stock int
	var price float64
	err := c.db.QueryRowContext(ctx,
		`SELECT stock, price FROM products WHERE id = $1`, productID,
	).Scan(&stock, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: %s", ErrNotFound, productID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("querying stock: %w", err)
	}
	return stock, price, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.IsLocalSpecialty, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
