package kafka

import "time"

const (
	TopicOrderStatusChanged = `orders.status-changed`
	TopicStockDepleted      = `products.stock-depleted`
)

// OrderStatusChangedEvent is produced on every order status transition.
type OrderStatusChangedEvent struct {
	OrderId   string    `json:"order_id"`
	OrderType string    `json:"order_type"`
	BuyerId   string    `json:"buyer_id"`
	SellerId  string    `json:"seller_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// StockDepletedEvent is produced when a product's stock reaches zero.
type StockDepletedEvent struct {
	ProductId string    `json:"product_id"`
	SellerId  string    `json:"seller_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
