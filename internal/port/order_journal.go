package port

import (
	"context"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// OrderJournal records confirmed orders locally for bookkeeping. A
// journal failure never affects the cart or the stock ledger; the remote
// API already accepted the order.
type OrderJournal interface {
	Record(ctx context.Context, order domain.Order) error
}
