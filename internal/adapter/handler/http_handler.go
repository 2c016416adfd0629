package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pawslabs/paws-storefront/internal/adapter/sheets"
	"github.com/pawslabs/paws-storefront/internal/core/domain"
	"github.com/pawslabs/paws-storefront/internal/core/service"
)

// HTTPHandler is the widget's API surface: catalog, cart, checkout and
// banner state served as JSON for the frontend to render.
type HTTPHandler struct {
	storefront *service.Storefront
	carousel   *service.Carousel
	logger     *zap.Logger
}

func NewHTTPHandler(storefront *service.Storefront, carousel *service.Carousel, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{storefront: storefront, carousel: carousel, logger: logger}
}

// Register mounts all routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/catalog", h.Catalog)
	mux.HandleFunc("/api/cart", h.Cart)
	mux.HandleFunc("/api/cart/items", h.AddItem)
	mux.HandleFunc("/api/cart/remove", h.RemoveItem)
	mux.HandleFunc("/api/checkout", h.Checkout)
	mux.HandleFunc("/api/banners", h.Banners)
	mux.HandleFunc("/api/banners/select", h.SelectBanner)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type removeItemRequest struct {
	Index int `json:"index"`
}

type checkoutRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type checkoutResponse struct {
	Success      bool   `json:"success"`
	OrderID      string `json:"order_id"`
	Subtotal     int64  `json:"subtotal"`
	ShippingCost int64  `json:"shipping_cost"`
	GrandTotal   int64  `json:"grand_total"`
	WhatsAppURL  string `json:"whatsapp_url"`
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	catalog, ok := h.storefront.Catalog()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "catalog not loaded"})
		return
	}

	type productView struct {
		ID    string         `json:"id"`
		Name  string         `json:"name"`
		Price int64          `json:"price"`
		Sizes map[string]int `json:"sizes"`
		Image string         `json:"image"`
		Desc  string         `json:"desc"`
		Badge string         `json:"badge,omitempty"`
	}

	products := make([]productView, len(catalog.Products))
	for i, p := range catalog.Products {
		// Sizes carry the resolved stock, not the static catalog count.
		sizes := make(map[string]int, len(p.Sizes))
		for size := range p.Sizes {
			sizes[size] = h.storefront.ResolveStock(p.ID, size)
		}
		products[i] = productView{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Sizes: sizes,
			Image: p.Image,
			Desc:  p.Desc,
			Badge: p.Badge,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"config": map[string]interface{}{
			"site_title":              catalog.Config.SiteTitle,
			"site_description":        catalog.Config.SiteDescription,
			"logo_url":                catalog.Config.LogoURL,
			"free_shipping_threshold": catalog.Config.FreeShippingThreshold,
			"shipping_flat":           catalog.Config.ShippingFlat,
			"whatsapp_url":            service.WhatsAppLink(catalog.Config.WhatsAppNumber),
			"telegram_url":            service.TelegramLink(catalog.Config.TelegramUsername),
		},
		"products": products,
		"banners":  catalog.Banners,
	})
}

func (h *HTTPHandler) Cart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":   h.storefront.Items(),
		"count":   h.storefront.ItemCount(),
		"summary": h.storefront.Summary(r.Context()),
	})
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.storefront.AddToCart(r.Context(), req.ProductID, req.Size, req.Quantity); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInsufficientStock):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, service.ErrUnknownProduct):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidQuantity):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrCatalogNotLoaded):
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   h.storefront.ItemCount(),
	})
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	if err := h.storefront.RemoveFromCart(r.Context(), req.Index); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrIndexOutOfRange) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   h.storefront.ItemCount(),
	})
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	order, shareURL, err := h.storefront.Checkout(r.Context(), domain.CustomerInfo{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, service.ErrInvalidPhone),
			errors.Is(err, service.ErrEmptyCart):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrCheckoutInFlight):
			status = http.StatusConflict
		case errors.Is(err, service.ErrCatalogNotLoaded):
			status = http.StatusServiceUnavailable
		case errors.Is(err, sheets.ErrServerRejected):
			status = http.StatusBadGateway
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		h.logger.Warn("checkout failed", zap.Int("status", status), zap.Error(err))
		writeJSON(w, status, errorResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		Success:      true,
		OrderID:      order.ID,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		GrandTotal:   order.GrandTotal,
		WhatsAppURL:  shareURL,
	})
}

func (h *HTTPHandler) Banners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"count":   h.carousel.Len(),
		"current": h.carousel.Current(),
	})
}

func (h *HTTPHandler) SelectBanner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"current": h.carousel.Select(req.Index)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
