package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/coupon"
	"storefront-gateway/internal/database"
	"storefront-gateway/internal/middleware"
	"storefront-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

// CartHandler handles cart-related requests
type CartHandler struct {
	cartQueries *database.CartQueries
	settings    StoreSettingsSource
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *sql.DB, settings StoreSettingsSource) *CartHandler {
	return &CartHandler{
		cartQueries: database.NewCartQueries(db),
		settings:    settings,
	}
}

// GetCart returns the current cart contents with applied coupons and the
// derived summary.
func (h *CartHandler) GetCart(c *gin.Context) {
	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	items, err := h.cartQueries.GetCartItems(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items", "details": err.Error()})
		return
	}

	applied, err := h.cartQueries.Applied(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get applied coupons", "details": err.Error()})
		return
	}

	settings := storeSettings(c.Request.Context(), h.settings)
	response := models.CartResponse{
		Items:          items,
		TotalItems:     cart.TotalQuantity(items),
		AppliedCoupons: applied,
		Summary:        cart.Summarize(items, coupon.TotalDiscount(applied), settings),
	}

	c.JSON(http.StatusOK, response)
}

// AddToCart adds an item to the cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	if _, err := h.cartQueries.AddCartItem(cartSession.ID, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart successfully"})
}

// UpdateCartItem updates the quantity of a cart item
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	cartItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	var req models.CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	if !h.itemBelongsToSession(c, cartSession.ID, cartItemID) {
		return
	}

	if _, err := h.cartQueries.UpdateCartItemQuantity(cartItemID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated successfully"})
}

// RemoveFromCart removes an item from the cart
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cartItemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
		return
	}

	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	if !h.itemBelongsToSession(c, cartSession.ID, cartItemID) {
		return
	}

	if err := h.cartQueries.RemoveCartItem(cartItemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart successfully"})
}

// ClearCart removes all items from the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartSession, ok := currentCartSession(c, h.cartQueries)
	if !ok {
		return
	}

	if err := h.cartQueries.ClearCart(cartSession.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// GetCartCount returns the number of items in the cart
func (h *CartHandler) GetCartCount(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusOK, models.CartCountResponse{Count: 0})
		return
	}

	cartSession, err := h.cartQueries.GetCartSessionByID(sessionID)
	if err != nil {
		c.JSON(http.StatusOK, models.CartCountResponse{Count: 0})
		return
	}

	count, err := h.cartQueries.GetCartItemCount(cartSession.ID)
	if err != nil {
		c.JSON(http.StatusOK, models.CartCountResponse{Count: 0})
		return
	}

	c.JSON(http.StatusOK, models.CartCountResponse{Count: count})
}

// itemBelongsToSession verifies the cart item is part of this session
// before any mutation (security check). It writes the error response and
// returns false otherwise.
func (h *CartHandler) itemBelongsToSession(c *gin.Context, cartSessionID, cartItemID int) bool {
	items, err := h.cartQueries.GetCartItems(cartSessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart items", "details": err.Error()})
		return false
	}

	for _, item := range items {
		if item.ID == cartItemID {
			return true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	return false
}
