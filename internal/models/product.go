package models

// Product mirrors a catalog product as served by the commerce backend.
// Price is the original base price; FinalPriceDiscount is the current
// selling price after any product-level discount.
type Product struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Image              string  `json:"image,omitempty"`
	Category           string  `json:"category,omitempty"`
	Price              float64 `json:"price"`
	FinalPriceDiscount float64 `json:"finalPriceDiscount"`
}

// EnrichedProduct is a Product with display-price fields attached by the
// pricing enrichment pass. Every enriched product carries DisplayPrice;
// marked price and coupon badge fields are present only when a discount is
// shown.
type EnrichedProduct struct {
	Product
	DisplayPrice       float64  `json:"displayPrice"`
	DisplayMarkedPrice *float64 `json:"displayMarkedPrice,omitempty"`
	HasDisplayDiscount bool     `json:"hasDisplayDiscount"`
	CouponCode         string   `json:"couponCode,omitempty"`
	CouponPercent      *float64 `json:"couponPercent,omitempty"`
}

// Offer is an ephemeral (coupon, product) pairing with the resolved
// discount amount, used only while picking the best offer during
// enrichment. Never persisted.
type Offer struct {
	Coupon   Coupon
	Discount float64
}
