package models

import (
	"regexp"
	"strings"
)

const (
	DefaultDeliveryTime      = "7 a 10 días"
	DefaultWholesaleDiscount = "10%"
)

// Product is a catalog entry. Orders copy name and price into their line
// items, so editing a product never changes existing orders.
type Product struct {
	ID                string  `bson:"id" json:"id"`
	Name              string  `bson:"name" json:"name"`
	Description       string  `bson:"description,omitempty" json:"description,omitempty"`
	Price             float64 `bson:"price" json:"price"`
	WholesalePrice    float64 `bson:"wholesalePrice,omitempty" json:"wholesalePrice,omitempty"`
	FabricType        string  `bson:"fabricType" json:"fabricType"`
	DeliveryTime      string  `bson:"deliveryTime" json:"deliveryTime"`
	WholesaleDiscount string  `bson:"wholesaleDiscount" json:"wholesaleDiscount"`
	Techniques        string  `bson:"techniques" json:"techniques"`
	ImageURL          string  `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CloudImageURL     string  `bson:"cloudImageUrl,omitempty" json:"cloudImageUrl,omitempty"`
	Inventory         int     `bson:"inventory" json:"inventory"`
}

// ApplyDefaults fills the fields the catalog form pre-populates.
func (p *Product) ApplyDefaults() {
	if p.DeliveryTime == "" {
		p.DeliveryTime = DefaultDeliveryTime
	}
	if p.WholesaleDiscount == "" {
		p.WholesaleDiscount = DefaultWholesaleDiscount
	}
}

// Image returns the reference to display, preferring the inline/uploaded image.
func (p Product) Image() string {
	if p.ImageURL != "" {
		return DirectImageURL(p.ImageURL)
	}
	return DirectImageURL(p.CloudImageURL)
}

var (
	drivePathID  = regexp.MustCompile(`/d/([^/]+)`)
	driveQueryID = regexp.MustCompile(`id=([^&]+)`)
)

// DirectImageURL turns a Google Drive share link into a link that can be
// embedded directly. Data URLs and any other link pass through untouched.
func DirectImageURL(url string) string {
	if url == "" || strings.HasPrefix(url, "data:image") {
		return url
	}
	if !strings.Contains(url, "drive.google.com") {
		return url
	}
	m := drivePathID.FindStringSubmatch(url)
	if m == nil {
		m = driveQueryID.FindStringSubmatch(url)
	}
	if m == nil {
		return url
	}
	return "https://docs.google.com/uc?export=view&id=" + m[1]
}
