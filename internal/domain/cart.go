package domain

import "time"

// Cart is the session-scoped cart: stringified product id -> line snapshot.
type Cart map[string]CartLine

// CartLine is the serialized form of one cart entry. Price holds the exact
// decimal text captured from the catalog at add-time; it is never re-fetched
// when the product's catalog price changes later.
type CartLine struct {
	Name     string    `json:"name"`
	Price    string    `json:"price"`
	Quantity int       `json:"quantity"`
	ImageURL string    `json:"image_url"`
	AddedAt  time.Time `json:"added_at"`
}

// CartView is the derived read model for display. It is recomputed on every
// read and never stored.
type CartView struct {
	Items      []CartViewItem
	TotalPrice float64
}

type CartViewItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	ImageURL  string
	Subtotal  float64
}
