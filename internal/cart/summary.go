// Package cart implements the pure cart summary math: line totals,
// subtotal, shipping resolution and the derived display total. No I/O.
package cart

import (
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/money"
)

// UnitPrice resolves the unit price of a cart item. FinalPriceDiscount is
// the only price field consulted; a nil value prices at zero. The variant
// price delta is display metadata and is already folded into
// FinalPriceDiscount by the backend.
func UnitPrice(item models.CartItem) float64 {
	if item.FinalPriceDiscount == nil {
		return 0
	}
	return *item.FinalPriceDiscount
}

// LineTotal computes the line total for a cart item. The unit price is
// rounded first, then the line product, matching the observed display
// behavior exactly.
func LineTotal(item models.CartItem) float64 {
	return money.Round2(money.Round2(UnitPrice(item)) * float64(item.Quantity))
}

// LineTotalString renders a line total with exactly two decimal places.
func LineTotalString(item models.CartItem) string {
	return money.Format2(LineTotal(item))
}

// Subtotal sums the line totals across all cart items.
func Subtotal(items []models.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return money.Round2(sum)
}

// TotalQuantity sums item quantities.
func TotalQuantity(items []models.CartItem) int {
	var n int
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// QualifiesForFreeShipping reports whether the cart subtotal meets the
// free-shipping threshold. A non-positive threshold disables the rule.
func QualifiesForFreeShipping(subtotal, threshold float64) bool {
	return threshold > 0 && subtotal >= threshold
}

// EffectiveShipping returns the shipping cost after the free-shipping rule:
// zero when the cart qualifies, otherwise the supplied tier cost verbatim.
func EffectiveShipping(qualifies bool, tierCost float64) float64 {
	if qualifies {
		return 0
	}
	return tierCost
}

// TierShipping resolves the tier shipping cost for a cart. Items ship
// together, so the highest per-item shipping override replaces the store's
// base cost when present.
func TierShipping(items []models.CartItem, baseCost float64) float64 {
	cost := baseCost
	overridden := false
	for _, item := range items {
		if item.ShippingOverride == nil {
			continue
		}
		if !overridden || *item.ShippingOverride > cost {
			cost = *item.ShippingOverride
			overridden = true
		}
	}
	return cost
}

// Summarize combines items, the resolved coupon discount and the store
// shipping settings into the totals shown in the cart drawer. Repeated
// calls with the same inputs produce bit-identical results.
func Summarize(items []models.CartItem, discount float64, settings models.StoreSettings) models.CartSummary {
	subtotal := Subtotal(items)
	afterDiscount := money.Round2(subtotal - discount)

	qualifies := QualifiesForFreeShipping(subtotal, settings.FreeShippingThreshold)
	shipping := EffectiveShipping(qualifies, TierShipping(items, settings.ShippingCost))

	summary := models.CartSummary{
		Subtotal:     subtotal,
		Discount:     money.Round2(discount),
		Shipping:     shipping,
		DisplayTotal: money.Round2(afterDiscount + shipping),
		FreeShipping: qualifies,
	}

	if settings.FreeShippingThreshold > 0 {
		progress := subtotal / settings.FreeShippingThreshold
		if progress > 1 {
			progress = 1
		}
		summary.FreeShippingProgress = progress
		if !qualifies {
			summary.AmountToFreeShipping = money.Round2(settings.FreeShippingThreshold - subtotal)
		}
	}

	return summary
}
