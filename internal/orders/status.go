package orders

import "fmt"

// RetailStatus is the lifecycle vocabulary of a customer-to-retailer order.
// Only the seller advances it; the customer may view but not transition.
type RetailStatus string

const (
	RetailPlaced         RetailStatus = "placed"
	RetailProcessed      RetailStatus = "processed"
	RetailOutForDelivery RetailStatus = "out_for_delivery"
	RetailDelivered      RetailStatus = "delivered"
	RetailCancelled      RetailStatus = "cancelled"
)

// retailNext is the linear seller-driven chain. Terminal statuses have no
// successor.
var retailNext = map[RetailStatus]RetailStatus{
	RetailPlaced:         RetailProcessed,
	RetailProcessed:      RetailOutForDelivery,
	RetailOutForDelivery: RetailDelivered,
}

// Next returns the successor in the fulfillment chain, if any.
func (s RetailStatus) Next() (RetailStatus, bool) {
	next, ok := retailNext[s]
	return next, ok
}

// Terminal reports whether no further transition is defined from s.
func (s RetailStatus) Terminal() bool {
	return s == RetailDelivered || s == RetailCancelled
}

// CanTransition reports whether moving from s to the given status is legal.
func (s RetailStatus) CanTransition(to RetailStatus) bool {
	if to == RetailCancelled {
		return s == RetailPlaced
	}
	next, ok := s.Next()
	return ok && next == to
}

func ParseRetailStatus(raw string) (RetailStatus, error) {
	switch s := RetailStatus(raw); s {
	case RetailPlaced, RetailProcessed, RetailOutForDelivery, RetailDelivered, RetailCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown retail status %q", ErrInvalidInput, raw)
}

// retailStatusMessages is the fixed per-status notification text sent to the
// buyer whenever a retail order changes status.
var retailStatusMessages = map[RetailStatus]string{
	RetailPlaced:         "Your order has been placed successfully!",
	RetailProcessed:      "Your order is being prepared.",
	RetailOutForDelivery: "Your order is out for delivery!",
	RetailDelivered:      "Your order has been delivered. Enjoy!",
	RetailCancelled:      "Your order has been cancelled.",
}

// BuyerMessage returns the notification text for the status.
func (s RetailStatus) BuyerMessage() string {
	return retailStatusMessages[s]
}

// StockStatus is the lifecycle vocabulary of a retailer-to-wholesaler stock
// order.
type StockStatus string

const (
	StockPending             StockStatus = "pending"
	StockApproved            StockStatus = "approved"
	StockOrderConfirmed      StockStatus = "order_confirmed"
	StockShipped             StockStatus = "shipped"
	StockDelivered           StockStatus = "delivered"
	StockReceivedInInventory StockStatus = "received_in_inventory"
	StockRejected            StockStatus = "rejected"
	StockCancelled           StockStatus = "cancelled"
)

// stockTransitions is the complete transition table. Statuses absent from the
// map are terminal.
var stockTransitions = map[StockStatus][]StockStatus{
	StockPending:        {StockApproved, StockRejected, StockCancelled},
	StockApproved:       {StockOrderConfirmed},
	StockOrderConfirmed: {StockShipped},
	StockShipped:        {StockDelivered},
	StockDelivered:      {StockReceivedInInventory},
}

// CanTransition reports whether moving from s to the given status is legal.
func (s StockStatus) CanTransition(to StockStatus) bool {
	for _, allowed := range stockTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s StockStatus) Terminal() bool {
	return len(stockTransitions[s]) == 0
}

func ParseStockStatus(raw string) (StockStatus, error) {
	switch s := StockStatus(raw); s {
	case StockPending, StockApproved, StockOrderConfirmed, StockShipped,
		StockDelivered, StockReceivedInInventory, StockRejected, StockCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown stock status %q", ErrInvalidInput, raw)
}

// DecideApproval is the single-decision approval check: the order is approved
// when the snapshot stock covers the quantity, otherwise rejected outright.
func DecideApproval(stock, quantity int) StockStatus {
	if stock >= quantity {
		return StockApproved
	}
	return StockRejected
}

// Status sets removed by the "clear completed" bulk delete. Deletion is a
// distinct destructive operation, not a transition.
var (
	clearableStockStatuses  = []StockStatus{StockDelivered, StockCancelled, StockRejected}
	clearableRetailStatuses = []RetailStatus{RetailDelivered, RetailCancelled}
)

// ClearableStockStatuses returns the wholesaler clear-completed set as the
// strings stored in the orders table. The bulk delete builds its predicate
// from this, so the set above is the single source of truth.
func ClearableStockStatuses() []string {
	out := make([]string, len(clearableStockStatuses))
	for i, s := range clearableStockStatuses {
		out[i] = string(s)
	}
	return out
}

// ClearableRetailStatuses returns the retailer clear-completed set as stored
// strings.
func ClearableRetailStatuses() []string {
	out := make([]string, len(clearableRetailStatuses))
	for i, s := range clearableRetailStatuses {
		out[i] = string(s)
	}
	return out
}

// ClearableStock reports whether a stock order in the wholesaler view is
// removed by "clear completed".
func ClearableStock(s StockStatus) bool {
	for _, c := range clearableStockStatuses {
		if c == s {
			return true
		}
	}
	return false
}

// ClearableRetail reports whether a retail order in the seller's
// customer-order view is removed by "clear completed".
func ClearableRetail(s RetailStatus) bool {
	for _, c := range clearableRetailStatuses {
		if c == s {
			return true
		}
	}
	return false
}
