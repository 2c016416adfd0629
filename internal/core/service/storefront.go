package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
	"github.com/pawslabs/paws-storefront/internal/port"
)

var (
	ErrCatalogNotLoaded  = errors.New("catalog not loaded")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIndexOutOfRange   = errors.New("cart index out of range")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrCheckoutInFlight  = errors.New("checkout already in progress")
)

// Digits only, 8 to 15 characters.
var phoneRe = regexp.MustCompile(`^\d{8,15}$`)

const (
	defaultSubmitTimeout = 10 * time.Second
	defaultJournalBuffer = 64
)

// Options tune the storefront; zero values fall back to defaults.
type Options struct {
	SubmitTimeout time.Duration
	JournalBuffer int
	Now           func() time.Time
}

// Storefront owns the session state: the catalog fetched at boot, the
// cart, and the stock-override ledger. Persistence and the remote API
// are injected ports so the ledger logic runs against fakes in tests.
type Storefront struct {
	mu         sync.Mutex
	catalog    *domain.Catalog
	cart       []domain.CartItem
	overrides  map[string]int
	submitting bool

	gateway port.SheetGateway
	store   port.StateStore
	logger  *zap.Logger

	now           func() time.Time
	submitTimeout time.Duration
	journal       chan domain.Order
}

func NewStorefront(gateway port.SheetGateway, store port.StateStore, logger *zap.Logger, opts Options) *Storefront {
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	if opts.JournalBuffer <= 0 {
		opts.JournalBuffer = defaultJournalBuffer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storefront{
		overrides:     make(map[string]int),
		gateway:       gateway,
		store:         store,
		logger:        logger,
		now:           opts.Now,
		submitTimeout: opts.SubmitTimeout,
		journal:       make(chan domain.Order, opts.JournalBuffer),
	}
}

// LoadCatalog performs the one boot-time fetch and restores the persisted
// cart and stock overrides. A fetch error is fatal to the session: the
// caller gets it back and no retry is attempted. Store read errors are
// not fatal; the session starts from empty state.
func (s *Storefront) LoadCatalog(ctx context.Context) error {
	catalog, err := s.gateway.FetchCatalog(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	overrides, err := s.store.LoadStockOverrides(ctx)
	if err != nil {
		s.logger.Warn("failed to load stock overrides, starting empty", zap.Error(err))
		overrides = make(map[string]int)
	}
	if overrides == nil {
		overrides = make(map[string]int)
	}

	cart, err := s.store.LoadCart(ctx)
	if err != nil {
		s.logger.Warn("failed to load cart, starting empty", zap.Error(err))
		cart = nil
	}

	// Drop cart lines whose product no longer exists in the catalog.
	kept := cart[:0]
	for _, item := range cart {
		if _, ok := catalog.Product(item.ProductID); ok {
			kept = append(kept, item)
		} else {
			s.logger.Warn("dropping cart line for unknown product",
				zap.String("product_id", item.ProductID), zap.String("size", item.Size))
		}
	}

	s.mu.Lock()
	s.catalog = catalog
	s.overrides = overrides
	s.cart = kept
	s.mu.Unlock()

	s.logger.Info("catalog loaded",
		zap.Int("products", len(catalog.Products)),
		zap.Int("banners", len(catalog.Banners)),
		zap.Int("cart_items", len(kept)),
		zap.Int("stock_overrides", len(overrides)))
	return nil
}

// Catalog returns the session catalog, or false before LoadCatalog has
// succeeded. The catalog is immutable for the session.
func (s *Storefront) Catalog() (*domain.Catalog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return nil, false
	}
	return s.catalog, true
}

// ResolveStock returns the override value for (productID, size) if one
// exists, else the product's initial stock for that size, else 0 for
// unknown products or sizes. Never negative.
func (s *Storefront) ResolveStock(productID, size string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveStockLocked(productID, size)
}

func (s *Storefront) resolveStockLocked(productID, size string) int {
	if s.catalog == nil {
		return 0
	}
	product, ok := s.catalog.Product(productID)
	if !ok {
		return 0
	}
	stock, ok := product.Sizes[size]
	if !ok {
		return 0
	}
	if override, ok := s.overrides[domain.StockKey(productID, size)]; ok {
		stock = override
	}
	if stock < 0 {
		return 0
	}
	return stock
}

// AddToCart adds quantity units of (productID, size) to the cart. The
// operation is all-or-nothing: if the merged line quantity would exceed
// the currently resolvable stock, nothing changes and the error reports
// how many units could still be added.
func (s *Storefront) AddToCart(ctx context.Context, productID, size string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return ErrCatalogNotLoaded
	}
	product, ok := s.catalog.Product(productID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	stock := s.resolveStockLocked(productID, size)
	if stock < quantity {
		return fmt.Errorf("%w: only %d available", ErrInsufficientStock, stock)
	}

	idx := -1
	for i := range s.cart {
		if s.cart[i].ProductID == productID && s.cart[i].Size == size {
			idx = i
			break
		}
	}

	if idx >= 0 {
		merged := s.cart[idx].Quantity + quantity
		if merged > stock {
			return fmt.Errorf("%w: only %d more can be added", ErrInsufficientStock, stock-s.cart[idx].Quantity)
		}
		s.cart[idx].Quantity = merged
	} else {
		s.cart = append(s.cart, domain.CartItem{
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
			Price:     product.Price,
			Name:      product.Name,
		})
	}

	if err := s.store.SaveCart(ctx, s.cart); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
	s.logger.Info("added to cart",
		zap.String("product_id", productID),
		zap.String("size", size),
		zap.Int("quantity", quantity))
	return nil
}

// RemoveFromCart removes the line at index. Out-of-range indexes are a
// reported no-op. Removal never restores stock: stock is only consumed
// at successful checkout, never at add time.
func (s *Storefront) RemoveFromCart(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	removed := s.cart[index]
	s.cart = append(s.cart[:index], s.cart[index+1:]...)

	if err := s.store.SaveCart(ctx, s.cart); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
	s.logger.Info("removed from cart",
		zap.String("product_id", removed.ProductID),
		zap.String("size", removed.Size))
	return nil
}

// Items returns a copy of the cart lines.
func (s *Storefront) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.cart))
	copy(items, s.cart)
	return items
}

// ItemCount returns the total unit count across all cart lines.
func (s *Storefront) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.cart {
		total += item.Quantity
	}
	return total
}

// Summary recomputes the totals from the live cart and persists them for
// the UI. The persisted copy is write-only from the core's perspective:
// checkout recomputes instead of reading it back.
func (s *Storefront) Summary(ctx context.Context) domain.CartSummary {
	s.mu.Lock()
	summary := s.summaryLocked()
	s.mu.Unlock()

	if err := s.store.SaveSummary(ctx, summary); err != nil {
		s.logger.Warn("failed to persist cart summary", zap.Error(err))
	}
	return summary
}

func (s *Storefront) summaryLocked() domain.CartSummary {
	if s.catalog == nil || len(s.cart) == 0 {
		return domain.CartSummary{}
	}

	var subtotal int64
	for _, item := range s.cart {
		subtotal += int64(item.Quantity) * item.Price
	}

	shipping := s.catalog.Config.ShippingFlat
	if subtotal >= s.catalog.Config.FreeShippingThreshold {
		shipping = 0
	}

	return domain.CartSummary{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		GrandTotal:   subtotal + shipping,
	}
}

// Checkout validates the customer info, submits the order exactly once,
// and on server confirmation commits the ledger: overrides decremented
// (floored at zero), cart cleared, both persisted. On any failure the
// cart and ledger are untouched. The returned string is the WhatsApp
// share URL for the confirmed order; opening it is the caller's concern
// and never rolls back the commit.
//
// Only one checkout may be in flight at a time; a concurrent call gets
// ErrCheckoutInFlight. The busy flag is released on every exit path.
func (s *Storefront) Checkout(ctx context.Context, customer domain.CustomerInfo) (domain.Order, string, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return domain.Order{}, "", ErrCheckoutInFlight
	}
	if s.catalog == nil {
		s.mu.Unlock()
		return domain.Order{}, "", ErrCatalogNotLoaded
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return domain.Order{}, "", ErrEmptyCart
	}
	if !phoneRe.MatchString(customer.Phone) {
		s.mu.Unlock()
		return domain.Order{}, "", ErrInvalidPhone
	}

	s.submitting = true

	// Snapshot under the lock: totals are recomputed from the live cart,
	// never read back from the persisted summary.
	summary := s.summaryLocked()
	items := make([]domain.OrderItem, len(s.cart))
	for i, line := range s.cart {
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}
	config := s.catalog.Config
	now := s.now()
	order := domain.Order{
		ID:           domain.NewOrderID(now),
		Customer:     customer,
		Subtotal:     summary.Subtotal,
		ShippingCost: summary.ShippingCost,
		GrandTotal:   summary.GrandTotal,
		Items:        items,
		CreatedAt:    now,
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	attemptID := uuid.NewString()
	log := s.logger.With(
		zap.String("attempt_id", attemptID),
		zap.String("order_id", order.ID))
	log.Info("submitting order",
		zap.Int("items", len(order.Items)),
		zap.Int64("grand_total", order.GrandTotal))

	submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := s.gateway.SubmitOrder(submitCtx, order); err != nil {
		log.Error("order submission failed", zap.Error(err))
		return domain.Order{}, "", fmt.Errorf("submit order: %w", err)
	}

	s.mu.Lock()
	for _, item := range order.Items {
		remaining := s.resolveStockLocked(item.ProductID, item.Size) - item.Quantity
		if remaining < 0 {
			remaining = 0
		}
		s.overrides[domain.StockKey(item.ProductID, item.Size)] = remaining
	}
	s.cart = nil
	if err := s.store.SaveStockOverrides(ctx, s.overrides); err != nil {
		log.Warn("failed to persist stock overrides", zap.Error(err))
	}
	if err := s.store.SaveCart(ctx, s.cart); err != nil {
		log.Warn("failed to persist cart", zap.Error(err))
	}
	s.mu.Unlock()

	select {
	case s.journal <- order:
	default:
		log.Warn("journal queue full, order not journaled")
	}

	log.Info("order confirmed")
	return order, WhatsAppOrderLink(config.WhatsAppNumber, order), nil
}

// JournalQueue exposes confirmed orders for asynchronous local
// journaling.
func (s *Storefront) JournalQueue() <-chan domain.Order {
	return s.journal
}

// Close closes the journal queue. Call after the HTTP surface has
// stopped accepting checkouts.
func (s *Storefront) Close() {
	close(s.journal)
}
