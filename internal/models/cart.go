package models

import (
	"time"
)

// CartSession represents a shopping cart session
type CartSession struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    *int      `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem represents an item in the cart. FinalPriceDiscount is the sole
// authoritative unit price; an item without it prices at zero. There is
// deliberately no fallback to a raw product price at cart level.
type CartItem struct {
	ID                 int       `json:"id"`
	CartSessionID      int       `json:"cart_session_id"`
	ProductID          string    `json:"product_id"`
	Title              string    `json:"title"`
	Image              string    `json:"image,omitempty"`
	FinalPriceDiscount *float64  `json:"final_price_discount"`
	Quantity           int       `json:"quantity"`
	VariantTitle       *string   `json:"variant_title,omitempty"`
	VariantPriceDelta  *float64  `json:"variant_price_delta,omitempty"`
	ShippingOverride   *float64  `json:"shipping_override,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CartItemRequest represents the request to add an item to cart
type CartItemRequest struct {
	ProductID          string   `json:"product_id" binding:"required"`
	Title              string   `json:"title" binding:"required"`
	Image              string   `json:"image"`
	FinalPriceDiscount *float64 `json:"final_price_discount"`
	Quantity           int      `json:"quantity" binding:"required,min=1"`
	VariantTitle       *string  `json:"variant_title"`
	VariantPriceDelta  *float64 `json:"variant_price_delta"`
	ShippingOverride   *float64 `json:"shipping_override"`
}

// CartItemUpdateRequest represents the request to update cart item quantity
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartSummary holds the derived cart totals shown in the cart drawer and
// order summary. DisplayTotal = Subtotal - Discount + Shipping.
type CartSummary struct {
	Subtotal             float64 `json:"subtotal"`
	Discount             float64 `json:"discount"`
	Shipping             float64 `json:"shipping"`
	DisplayTotal         float64 `json:"display_total"`
	FreeShipping         bool    `json:"free_shipping"`
	FreeShippingProgress float64 `json:"free_shipping_progress"`
	AmountToFreeShipping float64 `json:"amount_to_free_shipping"`
}

// CartResponse represents the full cart with items, applied coupons and
// derived totals.
type CartResponse struct {
	Items          []CartItem      `json:"items"`
	TotalItems     int             `json:"total_items"`
	AppliedCoupons []AppliedCoupon `json:"applied_coupons"`
	Summary        CartSummary     `json:"summary"`
}

// CartCountResponse represents the cart item count
type CartCountResponse struct {
	Count int `json:"count"`
}
