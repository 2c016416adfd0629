package domain

import (
	"strconv"
	"strings"
	"time"
)

type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// OrderItem is a copy of a cart line taken at checkout time.
type OrderItem struct {
	ProductID string
	Name      string
	Size      string
	Quantity  int
	Price     int64
}

// Order is built once at checkout and never mutated afterwards.
type Order struct {
	ID           string
	Customer     CustomerInfo
	Subtotal     int64
	ShippingCost int64
	GrandTotal   int64
	Items        []OrderItem
	CreatedAt    time.Time
}

// NewOrderID derives the order identifier from the checkout timestamp:
// "PAWS-" followed by the uppercased base-36 millisecond clock.
func NewOrderID(t time.Time) string {
	return "PAWS-" + strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}
