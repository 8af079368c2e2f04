package catalog

import (
	"fmt"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"

	"github.com/shopspring/decimal"
)

const (
	maxBanners = 3

	// products priced above this get the discount subtitle
	discountThreshold = 100.0

	discountMessage    = "Special discount available"
	limitedTimeMessage = "Limited time offer"
)

var hundred = decimal.NewFromInt(100)

// Banners picks up to three featured products, falling back to the first
// three of the (already ordered) list when nothing is featured.
func Banners(products []model.Product) []model.Banner {
	selected := make([]model.Product, 0, maxBanners)
	for _, p := range products {
		if p.Featured {
			selected = append(selected, p)
			if len(selected) == maxBanners {
				break
			}
		}
	}
	if len(selected) == 0 {
		n := len(products)
		if n > maxBanners {
			n = maxBanners
		}
		selected = append(selected, products[:n]...)
	}

	banners := make([]model.Banner, 0, len(selected))
	for _, p := range selected {
		banners = append(banners, bannerFor(p))
	}
	return banners
}

func bannerFor(p model.Product) model.Banner {
	image := p.FirstImage()
	if image == "" {
		image = model.PlaceholderImage
	}
	return model.Banner{
		ProductID: p.ID,
		Image:     image,
		Title:     p.Name,
		Subtitle:  subtitle(p),
	}
}

func subtitle(p model.Product) string {
	if p.Price <= discountThreshold {
		return limitedTimeMessage
	}
	if pct, ok := percentOff(p); ok {
		return fmt.Sprintf("Save %s%% today", pct.StringFixed(0))
	}
	return discountMessage
}

// percentOff is (original - price) / original, in percent. It is only
// meaningful when the original price is known and above the current one.
func percentOff(p model.Product) (decimal.Decimal, bool) {
	if p.OriginalPrice == nil {
		return decimal.Zero, false
	}
	original := decimal.NewFromFloat(*p.OriginalPrice)
	price := decimal.NewFromFloat(p.Price)
	if !original.GreaterThan(price) {
		return decimal.Zero, false
	}
	return original.Sub(price).Div(original).Mul(hundred).Round(0), true
}
