package cart

// CartItem is one line of the user's active cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// DetailedCartItem carries the product data checkout needs alongside the
// requested quantity.
type DetailedCartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// CartResponse is the API shape of a cart read.
type CartResponse struct {
	Items []CartItem `json:"items"`
}
