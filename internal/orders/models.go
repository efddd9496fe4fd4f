package orders

import (
	"fmt"
	"strings"
	"time"
)

// OrderType separates the two lifecycle vocabularies sharing the orders table.
type OrderType string

const (
	TypeRetail OrderType = "retail"
	TypeStock  OrderType = "stock"
)

// Payment methods selectable at confirmation time.
const (
	PaymentOnline     = "online"
	PaymentCOD        = "cod"
	PaymentPayAtStore = "pay_at_store"
)

// SelfPickupAddress is the sentinel delivery address for in-store pickup.
const SelfPickupAddress = "Self Pickup"

// StockMarkup is applied to the wholesale unit price when a received stock
// order creates a new product in the retailer's inventory.
const StockMarkup = 1.3

// Order represents an order row. Status holds one of the two vocabularies
// depending on Type.
type Order struct {
	ID                string     `json:"id"`
	Type              OrderType  `json:"order_type"`
	BuyerID           string     `json:"buyer_id"`
	SellerID          string     `json:"seller_id"`
	ProductID         string     `json:"product_id"`
	ProductName       string     `json:"product_name"`
	Quantity          int        `json:"quantity"`
	TotalPrice        float64    `json:"total_price"`
	Status            string     `json:"status"`
	PaymentMethod     string     `json:"payment_method,omitempty"`
	IsPaid            bool       `json:"is_paid"`
	PaymentID         string     `json:"payment_id,omitempty"`
	DeliveryAddress   string     `json:"delivery_address"`
	DeliveryLat       *float64   `json:"delivery_lat,omitempty"`
	DeliveryLng       *float64   `json:"delivery_lng,omitempty"`
	ScheduledDelivery *time.Time `json:"scheduled_delivery,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UnitPrice derives the per-unit price recorded at creation time.
func (o Order) UnitPrice() float64 {
	if o.Quantity == 0 {
		return 0
	}
	return o.TotalPrice / float64(o.Quantity)
}

// NewStockOrder is the payload for a retailer requesting stock from a
// wholesaler.
type NewStockOrder struct {
	SellerID  string `json:"seller_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// NewRetailOrder is one line of a customer checkout.
type NewRetailOrder struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// Checkout is the payload for a customer placing retail orders from the cart.
type Checkout struct {
	Items             []NewRetailOrder `json:"items" validate:"required,min=1,dive"`
	PaymentMethod     string           `json:"payment_method" validate:"required,oneof=online cod pay_at_store"`
	PaymentID         string           `json:"payment_id"`
	DeliveryAddress   string           `json:"delivery_address"`
	DeliveryLat       *float64         `json:"delivery_lat"`
	DeliveryLng       *float64         `json:"delivery_lng"`
	ScheduledDelivery *time.Time       `json:"scheduled_delivery"`
}

// NormalizeDelivery resolves the delivery destination for the chosen payment
// method. Pay-at-store orders are collected in person, so the address is
// forced to the self-pickup sentinel and any coordinates are dropped. Every
// other method ships, so an address is required.
func (c *Checkout) NormalizeDelivery() error {
	if c.PaymentMethod == PaymentPayAtStore {
		c.DeliveryAddress = SelfPickupAddress
		c.DeliveryLat = nil
		c.DeliveryLng = nil
		return nil
	}
	if strings.TrimSpace(c.DeliveryAddress) == "" {
		return fmt.Errorf("%w: delivery address is required", ErrInvalidInput)
	}
	return nil
}

// TransitionResult reports the outcome of a status transition together with
// the stock side effects the caller must notify about.
type TransitionResult struct {
	Order          Order
	StockRemaining int
	StockDepleted  bool
}

// DepletedProduct identifies a product whose stock hit zero during an
// operation, so the seller can be alerted.
type DepletedProduct struct {
	ProductID string
	SellerID  string
	Name      string
}

// CheckoutResult is the committed outcome of a retail checkout.
type CheckoutResult struct {
	Orders   []Order
	Depleted []DepletedProduct
}
