package notifications

import "time"

// Notification types.
const (
	TypeOrderStatus = "order_status"
	TypeStockAlert  = "stock_alert"
	TypeGeneral     = "general"
)

// Notification is an append-only message owned by its recipient. It is never
// deleted; the only mutation is marking it read.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   string    `json:"order_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
