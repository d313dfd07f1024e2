package database

import (
	"encoding/json"
	"fmt"

	"storefront-gateway/internal/models"
)

// Applied loads the ordered applied-coupon list for a cart session,
// migrating legacy single-coupon payloads on read.
func (q *CartQueries) Applied(cartSessionID int) ([]models.AppliedCoupon, error) {
	var raw []byte
	err := q.db.QueryRow(
		`SELECT applied_coupons FROM cart_sessions WHERE id = $1`,
		cartSessionID,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied coupons: %w", err)
	}

	coupons, err := DecodeAppliedCoupons(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode applied coupons: %w", err)
	}
	return coupons, nil
}

// SaveApplied persists the applied-coupon list. Writes always use the
// array shape; duplicates are dropped at this boundary so no list with
// repeated codes ever reaches storage.
func (q *CartQueries) SaveApplied(cartSessionID int, coupons []models.AppliedCoupon) error {
	deduped := make([]models.AppliedCoupon, 0, len(coupons))
	for _, c := range coupons {
		dup := false
		for _, kept := range deduped {
			if models.CodeEquals(kept.Code, c.Code) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, c)
		}
	}

	raw, err := json.Marshal(deduped)
	if err != nil {
		return fmt.Errorf("failed to encode applied coupons: %w", err)
	}

	result, err := q.db.Exec(
		`UPDATE cart_sessions SET applied_coupons = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		raw, cartSessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to save applied coupons: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("cart session not found")
	}
	return nil
}

// DecodeAppliedCoupons parses a stored applied-coupon payload. Current
// state is a JSON array, but two legacy single-coupon shapes are still
// migrated on read: a bare coupon object, and the old wrapper holding the
// coupon under a "coupon" key.
func DecodeAppliedCoupons(raw []byte) ([]models.AppliedCoupon, error) {
	if len(raw) == 0 {
		return []models.AppliedCoupon{}, nil
	}

	var list []models.AppliedCoupon
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []models.AppliedCoupon{}
		}
		return list, nil
	}

	// Legacy wrapper: { "coupon": {...}, "discount": n }
	var wrapper struct {
		Coupon   *models.AppliedCoupon `json:"coupon"`
		Discount *float64              `json:"discount"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Coupon != nil && wrapper.Coupon.Code != "" {
		coupon := *wrapper.Coupon
		if wrapper.Discount != nil {
			coupon.Discount = *wrapper.Discount
		}
		return []models.AppliedCoupon{coupon}, nil
	}

	// Legacy single coupon object
	var single models.AppliedCoupon
	if err := json.Unmarshal(raw, &single); err == nil && single.Code != "" {
		return []models.AppliedCoupon{single}, nil
	}

	return nil, fmt.Errorf("unrecognized applied coupon payload")
}
