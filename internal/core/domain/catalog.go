package domain

// SiteConfig carries the storefront settings served by the sheet web app.
// Money values are integer rupiah.
type SiteConfig struct {
	WhatsAppNumber        string
	TelegramUsername      string
	FreeShippingThreshold int64
	ShippingFlat          int64
	SiteTitle             string
	SiteDescription       string
	LogoURL               string
}

// Product is immutable once fetched for the session. Sizes maps a size
// label to the initial stock count advertised by the catalog.
type Product struct {
	ID    string
	Name  string
	Price int64
	Sizes map[string]int
	Image string
	Desc  string
	Badge string
}

type Banner struct {
	Img  string
	Link string
	Alt  string
}

// Catalog is the full boot-time payload: settings, products and banners.
type Catalog struct {
	Config   SiteConfig
	Products []Product
	Banners  []Banner
}

// Product looks up a product by ID.
func (c *Catalog) Product(id string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}
