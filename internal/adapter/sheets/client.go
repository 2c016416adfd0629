package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// ErrServerRejected means the web app answered but reported failure: the
// order was not recorded and must not be committed locally.
var ErrServerRejected = errors.New("server rejected order")

// Client talks to the Google Apps Script web app backing the storefront:
// a parameterless GET returns the whole catalog, a JSON POST records an
// order. The same URL serves both.
type Client struct {
	url    string
	httpc  *http.Client
	logger *zap.Logger
}

func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		httpc:  &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type catalogResponse struct {
	Config struct {
		WhatsAppNumber        string `json:"whatsapp_number"`
		TelegramUsername      string `json:"telegram_username"`
		FreeShippingThreshold int64  `json:"free_shipping_threshold"`
		ShippingFlat          int64  `json:"shipping_flat"`
		SiteTitle             string `json:"site_title"`
		SiteDescription       string `json:"site_description"`
		LogoURL               string `json:"logo_url"`
	} `json:"config"`
	Products []struct {
		ID    string         `json:"id"`
		Name  string         `json:"name"`
		Price int64          `json:"price"`
		Sizes map[string]int `json:"sizes"`
		Image string         `json:"image"`
		Desc  string         `json:"desc"`
		Badge string         `json:"badge"`
	} `json:"products"`
	Banners []struct {
		Img  string `json:"img"`
		Link string `json:"link"`
		Alt  string `json:"alt"`
	} `json:"banners"`
}

type orderPayload struct {
	OrderID         string             `json:"orderId"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	Notes           string             `json:"notes"`
	TotalAmount     int64              `json:"totalAmount"`
	ShippingCost    int64              `json:"shippingCost"`
	GrandTotal      int64              `json:"grandTotal"`
	Items           []orderPayloadItem `json:"items"`
}

type orderPayloadItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Size  string `json:"size"`
	Qty   int    `json:"qty"`
	Price int64  `json:"price"`
}

type orderResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode)
	}

	var body catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := &domain.Catalog{
		Config: domain.SiteConfig{
			WhatsAppNumber:        body.Config.WhatsAppNumber,
			TelegramUsername:      body.Config.TelegramUsername,
			FreeShippingThreshold: body.Config.FreeShippingThreshold,
			ShippingFlat:          body.Config.ShippingFlat,
			SiteTitle:             body.Config.SiteTitle,
			SiteDescription:       body.Config.SiteDescription,
			LogoURL:               body.Config.LogoURL,
		},
	}
	for _, p := range body.Products {
		sizes := p.Sizes
		if sizes == nil {
			sizes = map[string]int{}
		}
		catalog.Products = append(catalog.Products, domain.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Sizes: sizes,
			Image: p.Image,
			Desc:  p.Desc,
			Badge: p.Badge,
		})
	}
	for _, b := range body.Banners {
		catalog.Banners = append(catalog.Banners, domain.Banner{Img: b.Img, Link: b.Link, Alt: b.Alt})
	}

	c.logger.Debug("catalog fetched",
		zap.Int("products", len(catalog.Products)),
		zap.Int("banners", len(catalog.Banners)))
	return catalog, nil
}

func (c *Client) SubmitOrder(ctx context.Context, order domain.Order) error {
	payload := orderPayload{
		OrderID:         order.ID,
		CustomerName:    order.Customer.Name,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		Notes:           order.Customer.Notes,
		TotalAmount:     order.Subtotal,
		ShippingCost:    order.ShippingCost,
		GrandTotal:      order.GrandTotal,
		Items:           make([]orderPayloadItem, len(order.Items)),
	}
	for i, item := range order.Items {
		payload.Items[i] = orderPayloadItem{
			ID:    item.ProductID,
			Name:  item.Name,
			Size:  item.Size,
			Qty:   item.Quantity,
			Price: item.Price,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order request: unexpected status %d", resp.StatusCode)
	}

	var result orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode order response: %w", err)
	}
	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("%w: %s", ErrServerRejected, result.Error)
		}
		return ErrServerRejected
	}
	return nil
}
