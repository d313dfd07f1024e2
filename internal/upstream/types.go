package upstream

import (
	"storefront-gateway/internal/models"
)

// CartItemPayload is the cart line shape the backend expects in validation
// requests.
type CartItemPayload struct {
	ProductID          string   `json:"productId"`
	Title              string   `json:"title"`
	FinalPriceDiscount *float64 `json:"finalPriceDiscount"`
	Quantity           int      `json:"quantity"`
}

// ItemPayloads maps cart items to their validation-request shape.
func ItemPayloads(items []models.CartItem) []CartItemPayload {
	payloads := make([]CartItemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, CartItemPayload{
			ProductID:          item.ProductID,
			Title:              item.Title,
			FinalPriceDiscount: item.FinalPriceDiscount,
			Quantity:           item.Quantity,
		})
	}
	return payloads
}

// ValidateRequest is the single-coupon validation body.
type ValidateRequest struct {
	CouponCode   string            `json:"couponCode"`
	CartItems    []CartItemPayload `json:"cartItems"`
	CartTotal    float64           `json:"cartTotal"`
	CartSubtotal float64           `json:"cartSubtotal"`
	ShippingCost float64           `json:"shippingCost"`
}

// ValidateMultipleRequest adds the multi-coupon fields to the validation
// body.
type ValidateMultipleRequest struct {
	ValidateRequest
	CouponCodes           []string `json:"couponCodes"`
	ExcludeAppliedCoupons []string `json:"excludeAppliedCoupons"`
}

// ValidationResult is the gateway-side outcome of a validation call.
// Rejections and transport failures are results, not errors, so callers
// can choose to surface or suppress them per call site.
type ValidationResult struct {
	OK      bool
	Message string
	Applied []models.AppliedCoupon
}
