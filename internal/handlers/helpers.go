package handlers

import (
	"context"
	"log"
	"net/http"

	"storefront-gateway/internal/database"
	"storefront-gateway/internal/middleware"
	"storefront-gateway/internal/models"

	"github.com/gin-gonic/gin"
)

// currentCartSession resolves the cart session for the request, creating
// one on first use. It writes the error response itself and returns false
// when no session can be established.
func currentCartSession(c *gin.Context, cartQueries *database.CartQueries) (*models.CartSession, bool) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return nil, false
	}

	// Get user ID if authenticated
	var userID *int
	if userIDInterface, exists := c.Get("user_id"); exists {
		uid := userIDInterface.(int)
		userID = &uid
	}

	cartSession, err := cartQueries.GetOrCreateCartSession(sessionID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart session", "details": err.Error()})
		return nil, false
	}
	return cartSession, true
}

// StoreSettingsSource supplies the store settings handlers need for
// summary math.
type StoreSettingsSource interface {
	StoreSettings(ctx context.Context) (*models.StoreSettings, error)
}

// storeSettings fetches the store settings, degrading to zero-value
// settings (no free shipping, no base cost) when the backend is
// unreachable so cart rendering never fails on a settings hiccup.
func storeSettings(ctx context.Context, source StoreSettingsSource) models.StoreSettings {
	settings, err := source.StoreSettings(ctx)
	if err != nil || settings == nil {
		if err != nil {
			log.Printf("handlers: store settings fetch failed: %v", err)
		}
		return models.StoreSettings{}
	}
	return *settings
}
