package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"storefront-gateway/internal/coupon"
	"storefront-gateway/internal/database"
	"storefront-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

// CouponHandler exposes the auto-apply orchestration and explicit coupon
// entry over the cart session.
type CouponHandler struct {
	cartQueries *database.CartQueries
	coupons     *coupon.Service
	settings    StoreSettingsSource
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *sql.DB, coupons *coupon.Service, settings StoreSettingsSource) *CouponHandler {
	return &CouponHandler{
		cartQueries: database.NewCartQueries(db),
		coupons:     coupons,
		settings:    settings,
	}
}

// AutoApply attempts to apply the first eligible coupon to the cart.
// Failure is not an error condition: the response just reports that
// nothing was applied, so the storefront never shows an error toast for a
// background nudge.
func (h *CouponHandler) AutoApply(c *gin.Context) {
	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	items, err := h.cartQueries.GetCartItems(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items", "details": err.Error()})
		return
	}

	settings := storeSettings(c.Request.Context(), h.settings)
	applied := h.coupons.AutoApply(c.Request.Context(), cartSession.ID, items, settings)

	h.respondWithApplied(c, cartSession.ID, applied)
}

// Revalidate re-runs auto-apply on top of the already-applied set.
func (h *CouponHandler) Revalidate(c *gin.Context) {
	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	items, err := h.cartQueries.GetCartItems(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items", "details": err.Error()})
		return
	}

	settings := storeSettings(c.Request.Context(), h.settings)
	applied := h.coupons.Revalidate(c.Request.Context(), cartSession.ID, items, settings)

	h.respondWithApplied(c, cartSession.ID, applied)
}

// Apply validates a user-entered coupon code. Unlike auto-apply, backend
// rejection messages are surfaced inline.
func (h *CouponHandler) Apply(c *gin.Context) {
	var req models.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	items, err := h.cartQueries.GetCartItems(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items", "details": err.Error()})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	settings := storeSettings(c.Request.Context(), h.settings)
	result, applied, err := h.coupons.Apply(c.Request.Context(), cartSession.ID, code, items, settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon", "details": err.Error()})
		return
	}
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
		return
	}

	c.JSON(http.StatusOK, models.AppliedCouponsResponse{
		AppliedCoupons: applied,
		TotalDiscount:  coupon.TotalDiscount(applied),
		Message:        "Coupon applied successfully",
	})
}

// Remove drops an applied coupon from the cart by code.
func (h *CouponHandler) Remove(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
		return
	}

	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	remaining, err := h.coupons.Remove(cartSession.ID, code)
	if err != nil {
		if err.Error() == "coupon not applied" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not applied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove coupon", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.AppliedCouponsResponse{
		AppliedCoupons: remaining,
		TotalDiscount:  coupon.TotalDiscount(remaining),
		Message:        "Coupon removed successfully",
	})
}

// respondWithApplied reports the auto-apply outcome plus the current
// applied list.
func (h *CouponHandler) respondWithApplied(c *gin.Context, cartSessionID int, appliedNow bool) {
	applied, err := h.cartQueries.Applied(cartSessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get applied coupons", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applied":         appliedNow,
		"applied_coupons": applied,
		"total_discount":  coupon.TotalDiscount(applied),
	})
}
