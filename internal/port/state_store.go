package port

import (
	"context"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// StateStore is the on-device persistence for the cart/stock ledger.
// Cart and override writes are two separate calls with no transactional
// guarantee across the pair.
type StateStore interface {
	// LoadCart returns the persisted cart, or an empty slice if none
	LoadCart(ctx context.Context) ([]domain.CartItem, error)

	SaveCart(ctx context.Context, items []domain.CartItem) error

	// LoadStockOverrides returns the ledger keyed by domain.StockKey
	LoadStockOverrides(ctx context.Context) (map[string]int, error)

	SaveStockOverrides(ctx context.Context, overrides map[string]int) error

	// SaveSummary persists the last-computed totals for the UI; the core
	// never reads them back as checkout inputs
	SaveSummary(ctx context.Context, summary domain.CartSummary) error
}
