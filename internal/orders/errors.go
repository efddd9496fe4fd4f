package orders

import "errors"

var (
	// ErrNotFound is returned when the referenced order or product does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidInput indicates malformed input to an operation. Nothing is
	// committed when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates the requested status change is not legal
	// from the order's current status. The record is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotPermitted indicates the acting user is not the party allowed to
	// perform the transition.
	ErrNotPermitted = errors.New("operation not permitted for this user")

	// ErrInsufficientStock is returned by approval when the seller's stock
	// cannot cover the ordered quantity. The order is rejected, stock is
	// untouched.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPaymentDeclined indicates the gateway reported failure or the user
	// cancelled. The order remains in its pre-payment state.
	ErrPaymentDeclined = errors.New("payment declined")
)
