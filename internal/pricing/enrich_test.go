package pricing

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"storefront-gateway/internal/models"
)

type stubSource struct {
	settings     *models.StoreSettings
	settingsErr  error
	coupons      []models.Coupon
	couponsErr   error
	settingsHits int
	couponHits   int
}

func (s *stubSource) StoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	s.settingsHits++
	return s.settings, s.settingsErr
}

func (s *stubSource) ActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	s.couponHits++
	return s.coupons, s.couponsErr
}

func autoApplySettings(strategy string) *models.StoreSettings {
	return &models.StoreSettings{AutoApply: true, AutoApplyStrategy: strategy}
}

func TestEnrichAppliesBestOffer(t *testing.T) {
	source := &stubSource{
		settings: autoApplySettings(models.StrategyBestSavings),
		coupons: []models.Coupon{
			activeCoupon("TEN", models.DiscountTypePercentage, 10),
			activeCoupon("F15", models.DiscountTypeAmount, 15),
		},
	}
	enricher := NewEnricher(source)

	products := []models.Product{
		{ID: "p1", Title: "Mug", Price: 100, FinalPriceDiscount: 100},
	}
	enriched := enricher.Enrich(context.Background(), products)

	if len(enriched) != 1 {
		t.Fatalf("Expected 1 enriched product, got %d", len(enriched))
	}
	ep := enriched[0]
	if ep.DisplayPrice != 85 {
		t.Errorf("Expected display price 85, got %v", ep.DisplayPrice)
	}
	if !ep.HasDisplayDiscount {
		t.Error("Expected a display discount")
	}
	if ep.CouponCode != "F15" {
		t.Errorf("Expected coupon F15, got %q", ep.CouponCode)
	}
	if ep.DisplayMarkedPrice == nil || *ep.DisplayMarkedPrice != 100 {
		t.Errorf("Expected marked price 100, got %v", ep.DisplayMarkedPrice)
	}
	if ep.CouponPercent != nil {
		t.Error("Fixed-amount coupons should not carry a percent badge")
	}
	if source.settingsHits != 1 || source.couponHits != 1 {
		t.Errorf("Expected a single settings and coupon fetch per batch, got %d/%d",
			source.settingsHits, source.couponHits)
	}
}

func TestEnrichPercentBadgeForPercentageCoupons(t *testing.T) {
	source := &stubSource{
		settings: autoApplySettings(models.StrategyBestSavings),
		coupons:  []models.Coupon{activeCoupon("TEN", models.DiscountTypePercentage, 10)},
	}
	enricher := NewEnricher(source)

	enriched := enricher.Enrich(context.Background(), []models.Product{
		{ID: "p1", Price: 50, FinalPriceDiscount: 50},
	})

	ep := enriched[0]
	if ep.DisplayPrice != 45 {
		t.Errorf("Expected display price 45, got %v", ep.DisplayPrice)
	}
	if ep.CouponPercent == nil || *ep.CouponPercent != 10 {
		t.Errorf("Expected 10 percent badge, got %v", ep.CouponPercent)
	}
}

func TestEnrichPassThroughOnSettingsFailure(t *testing.T) {
	source := &stubSource{settingsErr: errors.New("upstream down")}
	enricher := NewEnricher(source)

	enriched := enricher.Enrich(context.Background(), []models.Product{
		{ID: "p1", Price: 50, FinalPriceDiscount: 40},
	})

	ep := enriched[0]
	if ep.DisplayPrice != 40 {
		t.Errorf("Expected pass-through price 40, got %v", ep.DisplayPrice)
	}
	if ep.CouponCode != "" {
		t.Errorf("Pass-through must not name a coupon, got %q", ep.CouponCode)
	}
	if !ep.HasDisplayDiscount || ep.DisplayMarkedPrice == nil || *ep.DisplayMarkedPrice != 50 {
		t.Error("Product-level discount should still show its marked price")
	}
	if source.couponHits != 0 {
		t.Errorf("No coupon fetch expected after settings failure, got %d", source.couponHits)
	}
}

func TestEnrichPassThroughOnCouponFailure(t *testing.T) {
	source := &stubSource{
		settings:   autoApplySettings(models.StrategyBestSavings),
		couponsErr: errors.New("timeout"),
	}
	enricher := NewEnricher(source)

	enriched := enricher.Enrich(context.Background(), []models.Product{
		{ID: "p1", Price: 50, FinalPriceDiscount: 50},
	})

	if enriched[0].DisplayPrice != 50 || enriched[0].HasDisplayDiscount {
		t.Errorf("Expected clean pass-through, got %+v", enriched[0])
	}
}

func TestEnrichRespectsAutoApplyOff(t *testing.T) {
	source := &stubSource{
		settings: &models.StoreSettings{AutoApply: false},
		coupons:  []models.Coupon{activeCoupon("TEN", models.DiscountTypePercentage, 10)},
	}
	enricher := NewEnricher(source)

	enriched := enricher.Enrich(context.Background(), []models.Product{
		{ID: "p1", Price: 50, FinalPriceDiscount: 50},
	})

	if enriched[0].HasDisplayDiscount {
		t.Error("auto_apply off must not enrich prices")
	}
	if source.couponHits != 0 {
		t.Error("auto_apply off must skip the coupon fetch")
	}
}

func TestEnrichCustomerChoicePassesThrough(t *testing.T) {
	source := &stubSource{
		settings: autoApplySettings(models.StrategyCustomerChoice),
		coupons:  []models.Coupon{activeCoupon("TEN", models.DiscountTypePercentage, 10)},
	}
	enricher := NewEnricher(source)

	enriched := enricher.Enrich(context.Background(), []models.Product{
		{ID: "p1", Price: 50, FinalPriceDiscount: 50},
	})

	if enriched[0].HasDisplayDiscount {
		t.Error("customer_choice must not pre-apply any coupon")
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	source := &stubSource{
		settings: autoApplySettings(models.StrategyHighestPercentage),
		coupons: []models.Coupon{
			activeCoupon("TEN", models.DiscountTypePercentage, 10),
			activeCoupon("F15", models.DiscountTypeAmount, 15),
		},
	}
	enricher := NewEnricher(source)
	products := []models.Product{
		{ID: "p1", Price: 100, FinalPriceDiscount: 100},
		{ID: "p2", Price: 20, FinalPriceDiscount: 18},
	}

	first := enricher.Enrich(context.Background(), products)
	second := enricher.Enrich(context.Background(), products)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Enrichment drifted between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestEnrichEmptyBatch(t *testing.T) {
	source := &stubSource{settings: autoApplySettings(models.StrategyBestSavings)}
	enriched := NewEnricher(source).Enrich(context.Background(), nil)
	if len(enriched) != 0 {
		t.Errorf("Expected empty result, got %d", len(enriched))
	}
}
