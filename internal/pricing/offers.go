package pricing

import (
	"time"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/money"
)

// Applicable reports whether a coupon can produce an offer for a product:
// the coupon must be active, inside its time window, and match the product
// by its applicability rules.
func Applicable(c models.Coupon, p models.Product, now time.Time) bool {
	if c.Status != models.CouponStatusActive {
		return false
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}

	switch c.AppliesTo {
	case models.AppliesToAll, "":
		return true
	case models.AppliesToProducts:
		for _, id := range c.ProductIDs {
			if id == p.ID {
				return true
			}
		}
	case models.AppliesToCategories:
		for _, cat := range c.Categories {
			if cat == p.Category {
				return true
			}
		}
	}
	return false
}

// DiscountAmount resolves the absolute discount a coupon yields at the
// given price. Fixed-amount coupons never discount below zero.
func DiscountAmount(c models.Coupon, price float64) float64 {
	if c.IsAmount() {
		if c.DiscountValue > price {
			return money.Round2(price)
		}
		return money.Round2(c.DiscountValue)
	}
	return money.Round2(price * c.DiscountValue / 100)
}

// PercentEquivalent expresses a coupon's discount as a percentage of the
// given price, so fixed-amount coupons can be ranked against percentage
// ones.
func PercentEquivalent(c models.Coupon, price float64) float64 {
	if !c.IsAmount() {
		return c.DiscountValue
	}
	if price <= 0 {
		return 0
	}
	return c.DiscountValue / price * 100
}

// OffersFor builds the set of offers a product is eligible for.
func OffersFor(coupons []models.Coupon, p models.Product, now time.Time) []models.Offer {
	var offers []models.Offer
	for _, c := range coupons {
		if !Applicable(c, p, now) {
			continue
		}
		offers = append(offers, models.Offer{
			Coupon:   c,
			Discount: DiscountAmount(c, p.FinalPriceDiscount),
		})
	}
	return offers
}

// BestOffer picks the single winning offer per the configured auto-apply
// strategy. Unknown strategies fall back to best savings. Ties keep the
// earlier offer.
func BestOffer(offers []models.Offer, strategy string, price float64) *models.Offer {
	if len(offers) == 0 {
		return nil
	}

	best := offers[0]
	for _, o := range offers[1:] {
		switch strategy {
		case models.StrategyFirstCreated:
			if o.Coupon.CreatedAt.Before(best.Coupon.CreatedAt) {
				best = o
			}
		case models.StrategyHighestPercentage:
			if PercentEquivalent(o.Coupon, price) > PercentEquivalent(best.Coupon, price) {
				best = o
			}
		default:
			if o.Discount > best.Discount {
				best = o
			}
		}
	}
	return &best
}
