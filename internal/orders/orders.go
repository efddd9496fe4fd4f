package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

const orderColumns = `id, order_type, buyer_id, seller_id, product_id, product_name,
	quantity, total_price, status, payment_method, is_paid, payment_id,
	delivery_address, delivery_lat, delivery_lng, scheduled_delivery,
	created_at, updated_at`

// CreateStockOrder records a retailer's pending stock request against a
// wholesaler's product. Price is captured at request time.
func (c *Conf) CreateStockOrder(ctx context.Context, buyerID string, req NewStockOrder) (Order, error) {
	if req.Quantity <= 0 {
		return Order{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var order Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		var price float64
		var sellerID string
		err := tx.QueryRowContext(ctx,
			`SELECT name, price, seller_id FROM products WHERE id = $1`,
			req.ProductID,
		).Scan(&name, &price, &sellerID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: product %s", ErrNotFound, req.ProductID)
		}
		if err != nil {
			return fmt.Errorf("querying product: %w", err)
		}
		if sellerID != req.SellerID {
			return fmt.Errorf("%w: product does not belong to the requested wholesaler", ErrInvalidInput)
		}

		order = Order{
			ID:              uuid.NewString(),
			Type:            TypeStock,
			BuyerID:         buyerID,
			SellerID:        req.SellerID,
			ProductID:       req.ProductID,
			ProductName:     name,
			Quantity:        req.Quantity,
			TotalPrice:      price * float64(req.Quantity),
			Status:          string(StockPending),
			DeliveryAddress: "Retailer Store",
		}
		return insertOrder(ctx, tx, &order)
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// CheckoutRetail creates one placed retail order per cart line and decrements
// each product's stock, all inside a single transaction. A failure on any
// line rolls back the whole checkout; no order without stock deduction can
// be observed.
func (c *Conf) CheckoutRetail(ctx context.Context, buyerID string, req Checkout) (CheckoutResult, error) {
	if len(req.Items) == 0 {
		return CheckoutResult{}, fmt.Errorf("%w: checkout has no items", ErrInvalidInput)
	}
	if err := req.NormalizeDelivery(); err != nil {
		return CheckoutResult{}, err
	}
	if req.PaymentMethod == PaymentOnline && req.PaymentID == "" {
		return CheckoutResult{}, fmt.Errorf("%w: online payment not confirmed by the gateway", ErrPaymentDeclined)
	}
	if req.ScheduledDelivery != nil && req.ScheduledDelivery.Before(time.Now()) {
		return CheckoutResult{}, fmt.Errorf("%w: scheduled delivery must not be in the past", ErrInvalidInput)
	}

	var result CheckoutResult
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
			}

			var name string
			var price float64
			var sellerID string
			err := tx.QueryRowContext(ctx,
				`SELECT name, price, seller_id FROM products WHERE id = $1 FOR UPDATE`,
				item.ProductID,
			).Scan(&name, &price, &sellerID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
			}
			if err != nil {
				return fmt.Errorf("querying product: %w", err)
			}

			var remaining int
			err = tx.QueryRowContext(ctx,
				`UPDATE products SET stock = stock - $1, updated_at = NOW()
				 WHERE id = $2 AND stock >= $1
				 RETURNING stock`,
				item.Quantity, item.ProductID,
			).Scan(&remaining)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, name)
			}
			if err != nil {
				return fmt.Errorf("decrementing stock: %w", err)
			}
			if remaining == 0 {
				result.Depleted = append(result.Depleted, DepletedProduct{
					ProductID: item.ProductID,
					SellerID:  sellerID,
					Name:      name,
				})
			}

			order := Order{
				ID:                uuid.NewString(),
				Type:              TypeRetail,
				BuyerID:           buyerID,
				SellerID:          sellerID,
				ProductID:         item.ProductID,
				ProductName:       name,
				Quantity:          item.Quantity,
				TotalPrice:        price * float64(item.Quantity),
				Status:            string(RetailPlaced),
				PaymentMethod:     req.PaymentMethod,
				IsPaid:            req.PaymentMethod == PaymentOnline,
				PaymentID:         req.PaymentID,
				DeliveryAddress:   req.DeliveryAddress,
				DeliveryLat:       req.DeliveryLat,
				DeliveryLng:       req.DeliveryLng,
				ScheduledDelivery: req.ScheduledDelivery,
			}
			if err := insertOrder(ctx, tx, &order); err != nil {
				return err
			}
			result.Orders = append(result.Orders, order)
		}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	return result, nil
}

// Approve applies the wholesaler's approval decision on a pending stock
// order. The product row is locked for the decision, so two concurrent
// approvals can never both succeed on the last units. When stock is
// insufficient the order is rejected outright and stock untouched.
func (c *Conf) Approve(ctx context.Context, orderID, actorID string) (TransitionResult, error) {
	var result TransitionResult
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeStock)
		if err != nil {
			return err
		}
		if order.SellerID != actorID {
			return fmt.Errorf("%w: only the wholesaler may approve", ErrNotPermitted)
		}
		if StockStatus(order.Status) != StockPending {
			return fmt.Errorf("%w: cannot approve from %q", ErrInvalidTransition, order.Status)
		}

		var stock int
		err = tx.QueryRowContext(ctx,
			`SELECT stock FROM products WHERE id = $1 FOR UPDATE`,
			order.ProductID,
		).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: product %s", ErrNotFound, order.ProductID)
		}
		if err != nil {
			return fmt.Errorf("querying product stock: %w", err)
		}

		if DecideApproval(stock, order.Quantity) == StockRejected {
			// Fast reject, no stock change.
			return setStatus(ctx, tx, &order, string(StockRejected), &result)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`,
			order.Quantity, order.ProductID,
		)
		if err != nil {
			return fmt.Errorf("decrementing stock: %w", err)
		}

		if err := setStatus(ctx, tx, &order, string(StockApproved), &result); err != nil {
			return err
		}
		result.StockRemaining = stock - order.Quantity
		result.StockDepleted = result.StockRemaining == 0
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return result, nil
}

// ConfirmPayment moves an approved stock order to order_confirmed once a
// payment method is selected. Online payment requires the gateway to have
// reported success first; until then the order stays approved.
func (c *Conf) ConfirmPayment(ctx context.Context, orderID, buyerID, method, paymentID string) (Order, error) {
	switch method {
	case PaymentOnline, PaymentCOD, PaymentPayAtStore:
	default:
		return Order{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}
	if method == PaymentOnline && paymentID == "" {
		return Order{}, fmt.Errorf("%w: gateway confirmation missing", ErrPaymentDeclined)
	}

	var updated Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeStock)
		if err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return fmt.Errorf("%w: only the ordering retailer may confirm payment", ErrNotPermitted)
		}
		if !StockStatus(order.Status).CanTransition(StockOrderConfirmed) {
			return fmt.Errorf("%w: cannot confirm payment from %q", ErrInvalidTransition, order.Status)
		}

		order.PaymentMethod = method
		order.IsPaid = method == PaymentOnline
		order.PaymentID = paymentID
		_, err = tx.ExecContext(ctx,
			`UPDATE orders
			 SET status = $1, payment_method = $2, is_paid = $3, payment_id = NULLIF($4, ''), updated_at = NOW()
			 WHERE id = $5`,
			string(StockOrderConfirmed), method, order.IsPaid, paymentID, order.ID,
		)
		if err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		order.Status = string(StockOrderConfirmed)
		updated = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// MarkShipped moves a confirmed stock order to shipped.
func (c *Conf) MarkShipped(ctx context.Context, orderID, actorID string) (Order, error) {
	return c.transitionStock(ctx, orderID, actorID, sellerActor, StockShipped)
}

// MarkDelivered moves a shipped stock order to delivered.
func (c *Conf) MarkDelivered(ctx context.Context, orderID, actorID string) (Order, error) {
	return c.transitionStock(ctx, orderID, actorID, sellerActor, StockDelivered)
}

// CancelStock cancels a pending stock order. Either party may cancel.
func (c *Conf) CancelStock(ctx context.Context, orderID, actorID string) (Order, error) {
	return c.transitionStock(ctx, orderID, actorID, eitherActor, StockCancelled)
}

type actorRole int

const (
	sellerActor actorRole = iota
	buyerActor
	eitherActor
)

func (c *Conf) transitionStock(ctx context.Context, orderID, actorID string, role actorRole, to StockStatus) (Order, error) {
	var updated Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeStock)
		if err != nil {
			return err
		}
		if err := checkActor(order, actorID, role); err != nil {
			return err
		}
		if !StockStatus(order.Status).CanTransition(to) {
			return fmt.Errorf("%w: cannot move from %q to %q", ErrInvalidTransition, order.Status, to)
		}
		var result TransitionResult
		if err := setStatus(ctx, tx, &order, string(to), &result); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// ReceiveIntoInventory credits a delivered stock order into the retailer's
// own inventory and marks the order received. An existing product with the
// same name gains the ordered quantity at its current price; a new product is
// created at the wholesale unit price plus markup. The status guard makes a
// second invocation fail without double-crediting.
func (c *Conf) ReceiveIntoInventory(ctx context.Context, orderID, buyerID string) (Order, error) {
	var updated Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeStock)
		if err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return fmt.Errorf("%w: only the ordering retailer may receive stock", ErrNotPermitted)
		}
		if !StockStatus(order.Status).CanTransition(StockReceivedInInventory) {
			return fmt.Errorf("%w: cannot receive from %q", ErrInvalidTransition, order.Status)
		}

		var productID string
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM products
			 WHERE seller_id = $1 AND lower(name) = lower($2)
			 LIMIT 1
			 FOR UPDATE`,
			buyerID, order.ProductName,
		).Scan(&productID)
		switch {
		case err == nil:
			_, err = tx.ExecContext(ctx,
				`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`,
				order.Quantity, productID,
			)
			if err != nil {
				return fmt.Errorf("crediting existing product: %w", err)
			}
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx,
				`INSERT INTO products (id, seller_id, name, description, price, stock, category, is_local_specialty, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW(), NOW())`,
				uuid.NewString(), buyerID, order.ProductName, order.ProductName,
				order.UnitPrice()*StockMarkup, order.Quantity, "Wholesale Received",
			)
			if err != nil {
				return fmt.Errorf("creating inventory product: %w", err)
			}
		default:
			return fmt.Errorf("querying retailer inventory: %w", err)
		}

		var result TransitionResult
		if err := setStatus(ctx, tx, &order, string(StockReceivedInInventory), &result); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// AdvanceRetail moves a retail order one step along the fulfillment chain.
// Only the seller advances retail orders.
func (c *Conf) AdvanceRetail(ctx context.Context, orderID, sellerID string) (Order, error) {
	var updated Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeRetail)
		if err != nil {
			return err
		}
		if order.SellerID != sellerID {
			return fmt.Errorf("%w: only the seller may advance a retail order", ErrNotPermitted)
		}
		next, ok := RetailStatus(order.Status).Next()
		if !ok {
			return fmt.Errorf("%w: no transition from %q", ErrInvalidTransition, order.Status)
		}
		var result TransitionResult
		if err := setStatus(ctx, tx, &order, string(next), &result); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// CancelRetail cancels a placed retail order. Either party may cancel before
// fulfillment starts.
func (c *Conf) CancelRetail(ctx context.Context, orderID, actorID string) (Order, error) {
	var updated Order
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		order, err := lockOrder(ctx, tx, orderID, TypeRetail)
		if err != nil {
			return err
		}
		if err := checkActor(order, actorID, eitherActor); err != nil {
			return err
		}
		if !RetailStatus(order.Status).CanTransition(RetailCancelled) {
			return fmt.Errorf("%w: cannot cancel from %q", ErrInvalidTransition, order.Status)
		}
		var result TransitionResult
		if err := setStatus(ctx, tx, &order, string(RetailCancelled), &result); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// ClearCompletedStock bulk-deletes the wholesaler's terminal stock orders.
// Destructive and irreversible; deliberately not a status transition.
func (c *Conf) ClearCompletedStock(ctx context.Context, sellerID string) (int64, error) {
	return c.clearCompleted(ctx, sellerID, TypeStock, ClearableStockStatuses())
}

// ClearCompletedRetail bulk-deletes the seller's terminal retail orders.
func (c *Conf) ClearCompletedRetail(ctx context.Context, sellerID string) (int64, error) {
	return c.clearCompleted(ctx, sellerID, TypeRetail, ClearableRetailStatuses())
}

func (c *Conf) clearCompleted(ctx context.Context, sellerID string, t OrderType, statuses []string) (int64, error) {
	clause, args := statusPlaceholders(3, statuses)
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM orders
		 WHERE seller_id = $1 AND order_type = $2
		   AND status IN (`+clause+`)`,
		append([]any{sellerID, string(t)}, args...)...,
	)
	if err != nil {
		return 0, fmt.Errorf("clearing completed %s orders: %w", t, err)
	}
	return res.RowsAffected()
}

// statusPlaceholders renders a status list as numbered placeholders starting
// at the given index, with the matching argument slice.
func statusPlaceholders(start int, statuses []string) (string, []any) {
	parts := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		parts[i] = fmt.Sprintf("$%d", start+i)
		args[i] = s
	}
	return strings.Join(parts, ", "), args
}

// GetOrderByID fetches one order.
func (c *Conf) GetOrderByID(ctx context.Context, orderID string) (Order, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return Order{}, fmt.Errorf("querying order: %w", err)
	}
	return order, nil
}

// ListForBuyer returns the user's orders of the given type, newest first.
func (c *Conf) ListForBuyer(ctx context.Context, buyerID string, t OrderType) ([]Order, error) {
	return c.list(ctx, `buyer_id`, buyerID, t)
}

// ListForSeller returns the orders the user must fulfill, newest first.
func (c *Conf) ListForSeller(ctx context.Context, sellerID string, t OrderType) ([]Order, error) {
	return c.list(ctx, `seller_id`, sellerID, t)
}

func (c *Conf) list(ctx context.Context, column, userID string, t OrderType) ([]Order, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE `+column+` = $1 AND order_type = $2
		 ORDER BY created_at DESC`,
		userID, string(t),
	)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return out, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, o *Order) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (id, order_type, buyer_id, seller_id, product_id, product_name,
			quantity, total_price, status, payment_method, is_paid, payment_id,
			delivery_address, delivery_lat, delivery_lng, scheduled_delivery, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, NULLIF($12, ''),
			$13, $14, $15, $16, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		o.ID, string(o.Type), o.BuyerID, o.SellerID, o.ProductID, o.ProductName,
		o.Quantity, o.TotalPrice, o.Status, o.PaymentMethod, o.IsPaid, o.PaymentID,
		o.DeliveryAddress, o.DeliveryLat, o.DeliveryLng, o.ScheduledDelivery,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func lockOrder(ctx context.Context, tx *sql.Tx, orderID string, t OrderType) (Order, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE id = $1 AND order_type = $2
		 FOR UPDATE`,
		orderID, string(t),
	)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	if err != nil {
		return Order{}, fmt.Errorf("locking order: %w", err)
	}
	return order, nil
}

func setStatus(ctx context.Context, tx *sql.Tx, order *Order, status string, result *TransitionResult) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	order.Status = status
	result.Order = *order
	return nil
}

func checkActor(order Order, actorID string, role actorRole) error {
	switch role {
	case sellerActor:
		if order.SellerID != actorID {
			return fmt.Errorf("%w: seller action", ErrNotPermitted)
		}
	case buyerActor:
		if order.BuyerID != actorID {
			return fmt.Errorf("%w: buyer action", ErrNotPermitted)
		}
	case eitherActor:
		if order.SellerID != actorID && order.BuyerID != actorID {
			return fmt.Errorf("%w: not a party to this order", ErrNotPermitted)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	var orderType string
	var paymentMethod, paymentID sql.NullString
	var lat, lng sql.NullFloat64
	var scheduled sql.NullTime
	err := row.Scan(
		&o.ID, &orderType, &o.BuyerID, &o.SellerID, &o.ProductID, &o.ProductName,
		&o.Quantity, &o.TotalPrice, &o.Status, &paymentMethod, &o.IsPaid, &paymentID,
		&o.DeliveryAddress, &lat, &lng, &scheduled, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	o.Type = OrderType(orderType)
	o.PaymentMethod = paymentMethod.String
	o.PaymentID = paymentID.String
	if lat.Valid {
		o.DeliveryLat = &lat.Float64
	}
	if lng.Valid {
		o.DeliveryLng = &lng.Float64
	}
	if scheduled.Valid {
		t := scheduled.Time
		o.ScheduledDelivery = &t
	}
	return o, nil
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
