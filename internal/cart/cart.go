package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNoActiveCart      = errors.New("no active cart")
	ErrInsufficientStock = errors.New("insufficient stock")
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

// AddToCart adds a product to the user's active cart, creating the cart when
// none exists. The requested total quantity is checked against current stock
// inside the same transaction.
func (c *Conf) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		var cartID int
		queryActiveCart := `
			SELECT id
			FROM cart
			WHERE user_id = $1 AND status = 'active'
			FOR UPDATE
		`
		err := tx.QueryRowContext(ctx, queryActiveCart, userID).Scan(&cartID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to query active cart: %w", err)
			}
			queryCreateCart := `
				INSERT INTO cart (user_id, status, created_at, updated_at)
				VALUES ($1, 'active', NOW(), NOW())
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, queryCreateCart, userID).Scan(&cartID); err != nil {
				return fmt.Errorf("failed to create new cart: %w", err)
			}
		}

		var stock int
		err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product %s not found", productID)
		}
		if err != nil {
			return fmt.Errorf("failed to query product stock: %w", err)
		}

		var cartItemID, existingQuantity int
		queryCartItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		err = tx.QueryRowContext(ctx, queryCartItem, cartID, productID).Scan(&cartItemID, &existingQuantity)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to query cart items: %w", err)
			}
			if quantity > stock {
				return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, stock)
			}
			queryAddCartItem := `
				INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
			`
			if _, err := tx.ExecContext(ctx, queryAddCartItem, cartID, productID, quantity); err != nil {
				return fmt.Errorf("failed to add product to cart: %w", err)
			}
			return nil
		}

		newQuantity := existingQuantity + quantity
		if newQuantity > stock {
			return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, newQuantity, stock)
		}
		queryUpdateCartItem := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdateCartItem, newQuantity, cartItemID); err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		return nil
	})
}

// GetActiveCartItems returns the lines of the user's active cart.
func (c *Conf) GetActiveCartItems(ctx context.Context, userID string) (*CartResponse, error) {
	var items []CartItem

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartID(ctx, tx, userID)
		if err != nil {
			return err
		}

		queryItems := `
			SELECT ci.product_id, ci.quantity
			FROM cart_items ci
			WHERE ci.cart_id = $1
		`
		rows, err := tx.QueryContext(ctx, queryItems, cartID)
		if err != nil {
			return fmt.Errorf("failed to query cart items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item CartItem
			if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
				return fmt.Errorf("failed to scan cart item: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return &CartResponse{Items: items}, nil
}

// GetDetailedCartItems joins the active cart with current product data for
// checkout.
func (c *Conf) GetDetailedCartItems(ctx context.Context, userID string) ([]DetailedCartItem, error) {
	var items []DetailedCartItem

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartID(ctx, tx, userID)
		if err != nil {
			return err
		}

		query := `
			SELECT ci.product_id, p.name, ci.quantity, p.price, p.stock
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.cart_id = $1
		`
		rows, err := tx.QueryContext(ctx, query, cartID)
		if err != nil {
			return fmt.Errorf("failed to query cart items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item DetailedCartItem
			if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.Stock); err != nil {
				return fmt.Errorf("failed to scan cart item: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CloseActiveCart marks the user's active cart as checked out. Called after
// a successful checkout so a new cart starts empty.
func (c *Conf) CloseActiveCart(ctx context.Context, userID string) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE cart SET status = 'checked_out', updated_at = NOW()
		 WHERE user_id = $1 AND status = 'active'`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to close cart: %w", err)
	}
	return nil
}

func activeCartID(ctx context.Context, tx *sql.Tx, userID string) (int, error) {
	var cartID int
	query := `
		SELECT c.id
		FROM cart c
		WHERE c.user_id = $1 AND c.status = 'active'
		LIMIT 1
		FOR UPDATE
	`
	err := tx.QueryRowContext(ctx, query, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: user %s", ErrNoActiveCart, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query active cart: %w", err)
	}
	return cartID, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
