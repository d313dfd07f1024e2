package models

// Auto-apply strategy constants
const (
	StrategyBestSavings       = "best_savings"
	StrategyFirstCreated      = "first_created"
	StrategyHighestPercentage = "highest_percentage"
	StrategyCustomerChoice    = "customer_choice"
)

// StoreSettings holds the store-wide coupon and shipping configuration
// owned by the commerce backend.
type StoreSettings struct {
	AutoApply             bool    `json:"autoApply"`
	AutoApplyStrategy     string  `json:"autoApplyStrategy"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	ShippingCost          float64 `json:"shippingCost"`
}
