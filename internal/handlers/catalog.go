package handlers

import (
	"context"
	"net/http"

	"storefront-gateway/internal/models"
	"storefront-gateway/internal/pricing"

	"github.com/gin-gonic/gin"
)

// ProductSource supplies the catalog batch served by the listing route.
type ProductSource interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// CatalogHandler serves the product listing with display prices attached.
type CatalogHandler struct {
	products ProductSource
	enricher *pricing.Enricher
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products ProductSource, enricher *pricing.Enricher) *CatalogHandler {
	return &CatalogHandler{products: products, enricher: enricher}
}

// GetProducts proxies the backend catalog through the price enrichment
// pass. Enrichment itself never fails; only an unreachable catalog is an
// error.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.products.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load products"})
		return
	}

	enriched := h.enricher.Enrich(c.Request.Context(), products)
	c.JSON(http.StatusOK, gin.H{"products": enriched})
}
