package models

import (
	"strings"
	"time"
)

// Discount type constants
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeAmount     = "amount"
	// DiscountTypeFixed is an alias some backend responses still use for
	// amount-based coupons.
	DiscountTypeFixed = "fixed"
)

// Coupon applicability constants
const (
	AppliesToAll        = "all"
	AppliesToProducts   = "products"
	AppliesToCategories = "categories"
)

// CouponStatusActive is the only status the gateway ever acts on.
const CouponStatusActive = "active"

// Coupon mirrors a coupon document as served by the commerce backend.
// The backend owns the full lifecycle; the gateway only reads.
type Coupon struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Title          string     `json:"title"`
	DiscountType   string     `json:"discountType"`
	DiscountValue  float64    `json:"discountValue"`
	AppliesTo      string     `json:"appliesTo"`
	ProductIDs     []string   `json:"productIds,omitempty"`
	Categories     []string   `json:"categories,omitempty"`
	MinOrderAmount float64    `json:"minOrderAmount"`
	Status         string     `json:"status"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// IsAmount reports whether the coupon discounts by a fixed amount,
// accepting both spellings the backend has used over time.
func (c *Coupon) IsAmount() bool {
	return c.DiscountType == DiscountTypeAmount || c.DiscountType == DiscountTypeFixed
}

// CodeEquals compares coupon codes case-insensitively.
func CodeEquals(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// AppliedCoupon is a coupon that has been validated against the current
// cart, with the discount amount resolved by the backend. The applied list
// is ordered by application time and never holds duplicate codes
// (case-insensitive).
type AppliedCoupon struct {
	CouponID     string  `json:"couponId"`
	Code         string  `json:"code"`
	Title        string  `json:"title,omitempty"`
	DiscountType string  `json:"discountType"`
	Discount     float64 `json:"discount"`
}

// ApplyCouponRequest is the gateway's request body for explicit,
// user-entered coupon codes.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// AppliedCouponsResponse is returned by the coupon mutation endpoints.
type AppliedCouponsResponse struct {
	AppliedCoupons []AppliedCoupon `json:"applied_coupons"`
	TotalDiscount  float64         `json:"total_discount"`
	Message        string          `json:"message,omitempty"`
}
