package domain

// CartItem is one cart line, unique per (ProductID, Size). Price and Name
// are snapshotted at insert time so later catalog changes never reprice
// lines already in the cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
}

// CartSummary holds the totals derived from the cart and shipping config.
type CartSummary struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	GrandTotal   int64 `json:"grand_total"`
}

// StockKey is the composite key used by the stock-override ledger.
func StockKey(productID, size string) string {
	return productID + "_" + size
}
