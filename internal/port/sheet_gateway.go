package port

import (
	"context"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// SheetGateway is the remote spreadsheet web-app API: one GET for the
// whole catalog, one POST per order. Neither call is ever retried.
type SheetGateway interface {
	// FetchCatalog loads config, products and banners in a single request
	FetchCatalog(ctx context.Context) (*domain.Catalog, error)

	// SubmitOrder posts the order payload; a nil error means the server
	// confirmed the order was recorded
	SubmitOrder(ctx context.Context, order domain.Order) error
}
