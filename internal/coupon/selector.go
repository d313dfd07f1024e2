// Package coupon implements coupon selection and the auto-apply /
// revalidation orchestration around the backend validator.
package coupon

import (
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/money"
)

// FirstAvailable returns the first active coupon whose code is not already
// applied, or nil. Selection is by arrival order, not by savings: the
// auto-apply nudge deliberately stays simpler than the enrichment
// strategies' best-offer ranking.
func FirstAvailable(active []models.Coupon, applied []models.AppliedCoupon) *models.Coupon {
	for _, c := range active {
		if c.Status != models.CouponStatusActive {
			continue
		}
		if isApplied(applied, c.Code) {
			continue
		}
		return &c
	}
	return nil
}

func isApplied(applied []models.AppliedCoupon, code string) bool {
	for _, a := range applied {
		if models.CodeEquals(a.Code, code) {
			return true
		}
	}
	return false
}

// Dedupe drops later duplicates by case-insensitive code, preserving
// application order.
func Dedupe(list []models.AppliedCoupon) []models.AppliedCoupon {
	out := make([]models.AppliedCoupon, 0, len(list))
	for _, a := range list {
		if !isApplied(out, a.Code) {
			out = append(out, a)
		}
	}
	return out
}

// TotalDiscount sums the resolved discounts across applied coupons.
func TotalDiscount(applied []models.AppliedCoupon) float64 {
	var sum float64
	for _, a := range applied {
		sum += a.Discount
	}
	return money.Round2(sum)
}

// Codes lists the applied codes in application order.
func Codes(applied []models.AppliedCoupon) []string {
	codes := make([]string, 0, len(applied))
	for _, a := range applied {
		codes = append(codes, a.Code)
	}
	return codes
}
