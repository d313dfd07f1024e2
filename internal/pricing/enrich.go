// Package pricing implements the request-time price enrichment pass:
// given a product batch and the store's auto-apply settings, it computes a
// per-product best offer and attaches display-price fields.
package pricing

import (
	"context"
	"log"
	"time"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/money"
)

// Source supplies the store settings and active coupons the enrichment
// pass consults once per batch.
type Source interface {
	StoreSettings(ctx context.Context) (*models.StoreSettings, error)
	ActiveCoupons(ctx context.Context) ([]models.Coupon, error)
}

// Enricher attaches display prices to product batches.
type Enricher struct {
	source Source
	now    func() time.Time
}

// NewEnricher creates an Enricher backed by the given source.
func NewEnricher(source Source) *Enricher {
	return &Enricher{source: source, now: time.Now}
}

// Enrich computes display-price fields for every product in the batch.
// Settings and coupons are fetched once for the whole batch. Any retrieval
// failure degrades to pass-through pricing; Enrich never returns an error
// and never leaves a product without a display price. Given unchanged
// coupon data, repeated calls yield identical results.
func (e *Enricher) Enrich(ctx context.Context, products []models.Product) []models.EnrichedProduct {
	settings, err := e.source.StoreSettings(ctx)
	if err != nil || settings == nil {
		if err != nil {
			log.Printf("pricing: settings fetch failed, passing through: %v", err)
		}
		return passThrough(products)
	}

	if !settings.AutoApply || settings.AutoApplyStrategy == models.StrategyCustomerChoice {
		return passThrough(products)
	}

	coupons, err := e.source.ActiveCoupons(ctx)
	if err != nil {
		log.Printf("pricing: coupon fetch failed, passing through: %v", err)
		return passThrough(products)
	}

	now := e.now()
	enriched := make([]models.EnrichedProduct, 0, len(products))
	for _, p := range products {
		offers := OffersFor(coupons, p, now)
		best := BestOffer(offers, settings.AutoApplyStrategy, p.FinalPriceDiscount)
		if best == nil || best.Discount <= 0 {
			enriched = append(enriched, passThroughOne(p))
			continue
		}

		ep := models.EnrichedProduct{
			Product:            p,
			DisplayPrice:       money.Round2(p.FinalPriceDiscount - best.Discount),
			HasDisplayDiscount: true,
			CouponCode:         best.Coupon.Code,
		}
		marked := p.Price
		ep.DisplayMarkedPrice = &marked
		if !best.Coupon.IsAmount() {
			percent := best.Coupon.DiscountValue
			ep.CouponPercent = &percent
		}
		enriched = append(enriched, ep)
	}
	return enriched
}

func passThrough(products []models.Product) []models.EnrichedProduct {
	enriched := make([]models.EnrichedProduct, 0, len(products))
	for _, p := range products {
		enriched = append(enriched, passThroughOne(p))
	}
	return enriched
}

// passThroughOne keeps the product's own pricing: the marked price is only
// shown when a product-level discount already exists.
func passThroughOne(p models.Product) models.EnrichedProduct {
	ep := models.EnrichedProduct{
		Product:      p,
		DisplayPrice: p.FinalPriceDiscount,
	}
	if p.FinalPriceDiscount < p.Price {
		marked := p.Price
		ep.DisplayMarkedPrice = &marked
		ep.HasDisplayDiscount = true
	}
	return ep
}
