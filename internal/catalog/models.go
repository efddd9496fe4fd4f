package catalog

// Location is a point on Earth in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is one seller's row for one product, annotated with the seller's
// display data and optional geolocation.
type Listing struct {
	ProductID          string    `json:"product_id"`
	SellerID           string    `json:"seller_id"`
	SellerName         string    `json:"seller_name"`
	SellerBusinessName string    `json:"seller_business_name,omitempty"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Price              float64   `json:"price"`
	Stock              int       `json:"stock"`
	IsLocalSpecialty   bool      `json:"is_local_specialty"`
	SellerLocation     *Location `json:"seller_location,omitempty"`
}

// SellerOption is one seller's offer inside a grouped product. Distance is
// nil when either the buyer's or the seller's location is unknown.
type SellerOption struct {
	ProductID  string   `json:"product_id"`
	SellerID   string   `json:"seller_id"`
	SellerName string   `json:"seller_name"`
	Price      float64  `json:"price"`
	Stock      int      `json:"stock"`
	Distance   *float64 `json:"distance_km,omitempty"`
	IsLocal    bool     `json:"is_local"`
}

// GroupedProduct aggregates identically named listings across sellers. It is
// derived on every catalog read and never persisted.
type GroupedProduct struct {
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Description   string         `json:"description"`
	MinPrice      float64        `json:"min_price"`
	MaxPrice      float64        `json:"max_price"`
	TotalStock    int            `json:"total_stock"`
	SellerCount   int            `json:"seller_count"`
	IsLocal       bool           `json:"is_local"`
	Sellers       []SellerOption `json:"sellers"`
	NearestSeller *SellerOption  `json:"nearest_seller,omitempty"`
}
