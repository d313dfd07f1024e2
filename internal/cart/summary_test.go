package cart

import (
	"testing"

	"storefront-gateway/internal/models"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestUnitPriceUsesFinalPriceDiscountOnly(t *testing.T) {
	item := models.CartItem{FinalPriceDiscount: floatPtr(19.99), Quantity: 2}
	if got := UnitPrice(item); got != 19.99 {
		t.Errorf("Expected unit price 19.99, got %v", got)
	}
}

func TestUnitPriceMissingPricesAtZero(t *testing.T) {
	// No fallback to any other price field: a missing
	// final_price_discount prices at zero and must not panic.
	item := models.CartItem{Quantity: 3}
	if got := UnitPrice(item); got != 0 {
		t.Errorf("Expected unit price 0 for missing final_price_discount, got %v", got)
	}
	if got := LineTotal(item); got != 0 {
		t.Errorf("Expected line total 0, got %v", got)
	}
}

func TestLineTotalDoubleRoundingOrder(t *testing.T) {
	// The unit price is rounded before multiplying, so 10.005 * 3 totals
	// 30.03 (10.01 * 3), not 30.02 (round(30.015)).
	item := models.CartItem{FinalPriceDiscount: floatPtr(10.005), Quantity: 3}
	if got := LineTotal(item); got != 30.03 {
		t.Errorf("Expected line total 30.03, got %v", got)
	}
}

func TestLineTotalStringHasTwoDecimals(t *testing.T) {
	cases := []struct {
		price float64
		qty   int
		want  string
	}{
		{19.99, 2, "39.98"},
		{10, 1, "10.00"},
		{0.1, 3, "0.30"},
	}
	for _, tc := range cases {
		item := models.CartItem{FinalPriceDiscount: floatPtr(tc.price), Quantity: tc.qty}
		if got := LineTotalString(item); got != tc.want {
			t.Errorf("LineTotalString(%v x %d) = %q, want %q", tc.price, tc.qty, got, tc.want)
		}
	}
}

func TestSubtotalSumsLineTotals(t *testing.T) {
	items := []models.CartItem{
		{FinalPriceDiscount: floatPtr(19.99), Quantity: 2},
		{FinalPriceDiscount: floatPtr(5.50), Quantity: 1},
		{Quantity: 4}, // prices at zero
	}
	if got := Subtotal(items); got != 45.48 {
		t.Errorf("Expected subtotal 45.48, got %v", got)
	}
}

func TestFreeShippingZeroesTierCost(t *testing.T) {
	// Qualification must zero shipping regardless of the tier value.
	if got := EffectiveShipping(true, 12.50); got != 0 {
		t.Errorf("Expected zero shipping when qualified, got %v", got)
	}
	if got := EffectiveShipping(false, 12.50); got != 12.50 {
		t.Errorf("Expected tier cost verbatim when not qualified, got %v", got)
	}
}

func TestQualifiesForFreeShipping(t *testing.T) {
	if !QualifiesForFreeShipping(100, 100) {
		t.Error("Subtotal at the threshold should qualify")
	}
	if QualifiesForFreeShipping(99.99, 100) {
		t.Error("Subtotal below the threshold should not qualify")
	}
	if QualifiesForFreeShipping(100, 0) {
		t.Error("A non-positive threshold disables the rule")
	}
}

func TestTierShippingUsesHighestOverride(t *testing.T) {
	items := []models.CartItem{
		{FinalPriceDiscount: floatPtr(10), Quantity: 1},
		{FinalPriceDiscount: floatPtr(10), Quantity: 1, ShippingOverride: floatPtr(7.50)},
		{FinalPriceDiscount: floatPtr(10), Quantity: 1, ShippingOverride: floatPtr(4)},
	}
	if got := TierShipping(items, 5); got != 7.50 {
		t.Errorf("Expected shipping override 7.50, got %v", got)
	}
	if got := TierShipping(items[:1], 5); got != 5 {
		t.Errorf("Expected base cost 5 without overrides, got %v", got)
	}
}

func TestSummarizeTotals(t *testing.T) {
	items := []models.CartItem{
		{FinalPriceDiscount: floatPtr(40), Quantity: 2},
	}
	settings := models.StoreSettings{
		FreeShippingThreshold: 100,
		ShippingCost:          9.99,
	}

	summary := Summarize(items, 10, settings)

	if summary.Subtotal != 80 {
		t.Errorf("Expected subtotal 80, got %v", summary.Subtotal)
	}
	if summary.Discount != 10 {
		t.Errorf("Expected discount 10, got %v", summary.Discount)
	}
	if summary.FreeShipping {
		t.Error("Cart below threshold should not qualify for free shipping")
	}
	if summary.Shipping != 9.99 {
		t.Errorf("Expected shipping 9.99, got %v", summary.Shipping)
	}
	if summary.DisplayTotal != 79.99 {
		t.Errorf("Expected display total 79.99, got %v", summary.DisplayTotal)
	}
	if summary.AmountToFreeShipping != 20 {
		t.Errorf("Expected 20 to free shipping, got %v", summary.AmountToFreeShipping)
	}
	if summary.FreeShippingProgress != 0.8 {
		t.Errorf("Expected progress 0.8, got %v", summary.FreeShippingProgress)
	}
}

func TestSummarizeFreeShippingAtThreshold(t *testing.T) {
	items := []models.CartItem{
		{FinalPriceDiscount: floatPtr(50), Quantity: 2},
	}
	settings := models.StoreSettings{
		FreeShippingThreshold: 100,
		ShippingCost:          9.99,
	}

	summary := Summarize(items, 0, settings)

	if !summary.FreeShipping {
		t.Error("Cart at threshold should qualify for free shipping")
	}
	if summary.Shipping != 0 {
		t.Errorf("Expected zero shipping, got %v", summary.Shipping)
	}
	if summary.DisplayTotal != 100 {
		t.Errorf("Expected display total 100, got %v", summary.DisplayTotal)
	}
	if summary.FreeShippingProgress != 1 {
		t.Errorf("Expected progress 1, got %v", summary.FreeShippingProgress)
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	// Repeated renders of the same cart must produce bit-identical
	// totals.
	items := []models.CartItem{
		{FinalPriceDiscount: floatPtr(19.99), Quantity: 3},
		{FinalPriceDiscount: floatPtr(0.07), Quantity: 11},
	}
	settings := models.StoreSettings{FreeShippingThreshold: 200, ShippingCost: 4.95}

	first := Summarize(items, 5.55, settings)
	for i := 0; i < 50; i++ {
		if again := Summarize(items, 5.55, settings); again != first {
			t.Fatalf("Summary drifted on iteration %d: %+v != %+v", i, again, first)
		}
	}
}
