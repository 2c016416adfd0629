package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

const catalogJSON = `{
	"config": {
		"whatsapp_number": "628111222333",
		"telegram_username": "pawsstore",
		"free_shipping_threshold": 200000,
		"shipping_flat": 15000,
		"site_title": "PAWS",
		"site_description": "Toko PAWS",
		"logo_url": "https://example.com/logo.png"
	},
	"products": [
		{"id": "tshirt", "name": "PAWS Tee", "price": 50000,
		 "sizes": {"M": 2, "L": 5}, "image": "tee.jpg", "desc": "Kaos", "badge": "NEW"}
	],
	"banners": [
		{"img": "b1.jpg", "link": "https://example.com", "alt": "Promo"}
	]
}`

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	catalog, err := client.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if catalog.Config.WhatsAppNumber != "628111222333" {
		t.Errorf("unexpected whatsapp number %q", catalog.Config.WhatsAppNumber)
	}
	if catalog.Config.FreeShippingThreshold != 200000 || catalog.Config.ShippingFlat != 15000 {
		t.Errorf("unexpected shipping config %+v", catalog.Config)
	}
	if len(catalog.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(catalog.Products))
	}
	p := catalog.Products[0]
	if p.ID != "tshirt" || p.Price != 50000 || p.Sizes["L"] != 5 || p.Badge != "NEW" {
		t.Errorf("unexpected product %+v", p)
	}
	if len(catalog.Banners) != 1 || catalog.Banners[0].Alt != "Promo" {
		t.Errorf("unexpected banners %+v", catalog.Banners)
	}
}

func TestFetchCatalog_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	if _, err := client.FetchCatalog(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestFetchCatalog_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, time.Second, nil)
	if _, err := client.FetchCatalog(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func submitOrder() domain.Order {
	return domain.Order{
		ID: "PAWS-TEST1",
		Customer: domain.CustomerInfo{
			Name:    "Budi",
			Phone:   "628123456789",
			Address: "Jl. Mawar No. 1",
			Notes:   "siang saja",
		},
		Subtotal:     150000,
		ShippingCost: 15000,
		GrandTotal:   165000,
		Items: []domain.OrderItem{
			{ProductID: "tshirt", Name: "PAWS Tee", Size: "M", Quantity: 3, Price: 50000},
		},
		CreatedAt: time.Now(),
	}
}

func TestSubmitOrder_WireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	if err := client.SubmitOrder(context.Background(), submitOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["orderId"] != "PAWS-TEST1" {
		t.Errorf("unexpected orderId %v", got["orderId"])
	}
	if got["customerName"] != "Budi" || got["customerPhone"] != "628123456789" {
		t.Errorf("unexpected customer fields: %v", got)
	}
	if got["totalAmount"] != float64(150000) || got["shippingCost"] != float64(15000) || got["grandTotal"] != float64(165000) {
		t.Errorf("unexpected totals: %v", got)
	}
	items, ok := got["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected items: %v", got["items"])
	}
	item := items[0].(map[string]interface{})
	if item["id"] != "tshirt" || item["qty"] != float64(3) || item["price"] != float64(50000) {
		t.Errorf("unexpected item fields: %v", item)
	}
}

func TestSubmitOrder_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "sheet is full"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	err := client.SubmitOrder(context.Background(), submitOrder())
	if !errors.Is(err, ErrServerRejected) {
		t.Fatalf("expected ErrServerRejected, got %v", err)
	}
}

func TestSubmitOrder_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, nil)
	err := client.SubmitOrder(context.Background(), submitOrder())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrServerRejected) {
		t.Error("transport failure must not look like a server rejection")
	}
}

func TestSubmitOrder_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Minute, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := client.SubmitOrder(ctx, submitOrder()); err == nil {
		t.Fatal("expected timeout error")
	}
}
