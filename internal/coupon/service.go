package coupon

import (
	"context"
	"fmt"
	"log"

	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/models"
	"storefront-gateway/internal/upstream"
)

// Backend is the slice of the commerce backend the orchestration needs.
type Backend interface {
	ActiveCoupons(ctx context.Context) ([]models.Coupon, error)
	Validate(ctx context.Context, req upstream.ValidateRequest) *upstream.ValidationResult
	ValidateMultiple(ctx context.Context, req upstream.ValidateMultipleRequest) *upstream.ValidationResult
}

// Store persists the ordered applied-coupon list per cart session.
type Store interface {
	Applied(cartSessionID int) ([]models.AppliedCoupon, error)
	SaveApplied(cartSessionID int, coupons []models.AppliedCoupon) error
}

// Service orchestrates fetch, selection, validation and persistence of
// applied coupons for a cart session.
type Service struct {
	backend Backend
	store   Store
}

// NewService creates a coupon Service.
func NewService(backend Backend, store Store) *Service {
	return &Service{backend: backend, store: store}
}

// AutoApply tries to apply one more eligible coupon to the cart. It
// returns true only when a coupon was validated and persisted. Every
// failure path returns false without surfacing an error: auto-apply is a
// background convenience and must never interrupt shopping.
func (s *Service) AutoApply(ctx context.Context, cartSessionID int, items []models.CartItem, settings models.StoreSettings) bool {
	if len(items) == 0 {
		return false
	}

	applied, err := s.store.Applied(cartSessionID)
	if err != nil {
		log.Printf("coupon: failed to load applied coupons: %v", err)
		return false
	}

	active, err := s.backend.ActiveCoupons(ctx)
	if err != nil {
		// Treated as "no coupons available".
		log.Printf("coupon: active coupon fetch failed: %v", err)
		return false
	}

	candidate := FirstAvailable(active, applied)
	if candidate == nil {
		return false
	}

	result := s.validate(ctx, candidate.Code, items, applied, settings)
	if !result.OK {
		log.Printf("coupon: auto-apply of %s rejected: %s", candidate.Code, result.Message)
		return false
	}

	merged := Dedupe(append(applied, result.Applied...))
	if err := s.store.SaveApplied(cartSessionID, merged); err != nil {
		log.Printf("coupon: failed to persist applied coupons: %v", err)
		return false
	}
	return true
}

// Revalidate re-runs auto-apply on top of the existing applied set. With
// nothing applied it delegates to AutoApply; otherwise it only attempts to
// add further eligible coupons, never re-checking or removing ones already
// applied.
func (s *Service) Revalidate(ctx context.Context, cartSessionID int, items []models.CartItem, settings models.StoreSettings) bool {
	applied, err := s.store.Applied(cartSessionID)
	if err != nil {
		log.Printf("coupon: failed to load applied coupons: %v", err)
		return false
	}
	if len(applied) == 0 {
		return s.AutoApply(ctx, cartSessionID, items, settings)
	}
	if len(items) == 0 {
		return false
	}

	active, err := s.backend.ActiveCoupons(ctx)
	if err != nil {
		log.Printf("coupon: active coupon fetch failed: %v", err)
		return false
	}

	candidate := FirstAvailable(active, applied)
	if candidate == nil {
		return false
	}

	result := s.validate(ctx, candidate.Code, items, applied, settings)
	if !result.OK {
		log.Printf("coupon: revalidation of %s rejected: %s", candidate.Code, result.Message)
		return false
	}

	merged := Dedupe(append(applied, result.Applied...))
	if err := s.store.SaveApplied(cartSessionID, merged); err != nil {
		log.Printf("coupon: failed to persist applied coupons: %v", err)
		return false
	}
	return true
}

// Apply validates a user-entered code and persists it on success. Unlike
// auto-apply, the outcome (including the backend's rejection message) is
// returned for the handler to surface inline.
func (s *Service) Apply(ctx context.Context, cartSessionID int, code string, items []models.CartItem, settings models.StoreSettings) (*upstream.ValidationResult, []models.AppliedCoupon, error) {
	applied, err := s.store.Applied(cartSessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load applied coupons: %w", err)
	}

	if isApplied(applied, code) {
		return &upstream.ValidationResult{Message: "Coupon is already applied"}, applied, nil
	}

	result := s.validate(ctx, code, items, applied, settings)
	if !result.OK {
		return result, applied, nil
	}

	merged := Dedupe(append(applied, result.Applied...))
	if err := s.store.SaveApplied(cartSessionID, merged); err != nil {
		return nil, nil, fmt.Errorf("failed to persist applied coupons: %w", err)
	}
	return result, merged, nil
}

// Remove drops a coupon from the applied list by code.
func (s *Service) Remove(cartSessionID int, code string) ([]models.AppliedCoupon, error) {
	applied, err := s.store.Applied(cartSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applied coupons: %w", err)
	}

	remaining := make([]models.AppliedCoupon, 0, len(applied))
	for _, a := range applied {
		if !models.CodeEquals(a.Code, code) {
			remaining = append(remaining, a)
		}
	}
	if len(remaining) == len(applied) {
		return applied, fmt.Errorf("coupon not applied")
	}

	if err := s.store.SaveApplied(cartSessionID, remaining); err != nil {
		return nil, fmt.Errorf("failed to persist applied coupons: %w", err)
	}
	return remaining, nil
}

// validate picks the single- or multi-coupon endpoint depending on whether
// anything is already applied, and submits the full cart context. The
// discount figures in the result come from the backend untouched.
func (s *Service) validate(ctx context.Context, code string, items []models.CartItem, applied []models.AppliedCoupon, settings models.StoreSettings) *upstream.ValidationResult {
	summary := cart.Summarize(items, TotalDiscount(applied), settings)

	base := upstream.ValidateRequest{
		CouponCode:   code,
		CartItems:    upstream.ItemPayloads(items),
		CartTotal:    summary.DisplayTotal,
		CartSubtotal: summary.Subtotal,
		ShippingCost: summary.Shipping,
	}

	if len(applied) == 0 {
		return s.backend.Validate(ctx, base)
	}
	return s.backend.ValidateMultiple(ctx, upstream.ValidateMultipleRequest{
		ValidateRequest:       base,
		CouponCodes:           []string{code},
		ExcludeAppliedCoupons: Codes(applied),
	})
}
