// Package upstream is the HTTP client for the commerce backend: the
// coupon, settings and catalog endpoints the gateway consumes. The backend
// is authoritative for coupon validation and discount amounts; the gateway
// never computes them locally.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"storefront-gateway/internal/cache"
	"storefront-gateway/internal/models"
)

const (
	activeCouponsPath    = "/api/coupon/active"
	validatePath         = "/api/coupon/validate"
	validateMultiplePath = "/api/coupon/validate-multiple"
	settingsPath         = "/api/store/settings"
	productsPath         = "/api/products"
)

// Client talks to the commerce backend. All calls honor the request
// context, so a client disconnect cancels in-flight fetches.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewClient creates a Client for the backend at baseURL. Reads of active
// coupons and store settings go through c with the given TTL.
func NewClient(baseURL string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ActiveCoupons fetches the backend's active coupon list. The error is
// informational; callers on the auto-apply path treat any failure as "no
// coupons available".
func (c *Client) ActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	key := c.cache.GenerateKey("coupons", "active")
	if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
		var coupons []models.Coupon
		if err := json.Unmarshal([]byte(cached), &coupons); err == nil {
			return coupons, nil
		}
	}

	var coupons []models.Coupon
	if err := c.getJSON(ctx, activeCouponsPath, &coupons); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(coupons); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.cacheTTL); err != nil {
			log.Printf("upstream: coupon cache write failed: %v", err)
		}
	}
	return coupons, nil
}

// StoreSettings fetches the store-wide coupon and shipping settings.
func (c *Client) StoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	key := c.cache.GenerateKey("settings", "store")
	if cached, err := c.cache.Get(ctx, key); err == nil && cached != "" {
		var settings models.StoreSettings
		if err := json.Unmarshal([]byte(cached), &settings); err == nil {
			return &settings, nil
		}
	}

	var settings models.StoreSettings
	if err := c.getJSON(ctx, settingsPath, &settings); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(settings); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.cacheTTL); err != nil {
			log.Printf("upstream: settings cache write failed: %v", err)
		}
	}
	return &settings, nil
}

// Products fetches the catalog batch served to the storefront listing.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, productsPath, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Validate submits a single candidate code with the cart context for
// server-side validation. The outcome is never an error: transport
// failures come back as a generic rejection, backend rejections carry the
// backend's message. Discount amounts are echoed from the response as-is.
func (c *Client) Validate(ctx context.Context, req ValidateRequest) *ValidationResult {
	env, err := c.postJSON(ctx, validatePath, req)
	if err != nil {
		log.Printf("upstream: coupon validation failed: %v", err)
		return &ValidationResult{Message: "Validation failed"}
	}
	if !env.Success {
		return &ValidationResult{Message: rejectionMessage(env)}
	}

	var data struct {
		Discount     float64 `json:"discount"`
		DiscountType string  `json:"discountType"`
		CouponCode   string  `json:"couponCode"`
		CouponID     string  `json:"couponId"`
		Title        string  `json:"title"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Printf("upstream: malformed validation response: %v", err)
		return &ValidationResult{Message: "Validation failed"}
	}

	return &ValidationResult{
		OK: true,
		Applied: []models.AppliedCoupon{{
			CouponID:     data.CouponID,
			Code:         data.CouponCode,
			Title:        data.Title,
			DiscountType: data.DiscountType,
			Discount:     data.Discount,
		}},
	}
}

// ValidateMultiple submits a candidate code alongside the already-applied
// set, letting the backend resolve the combined discount state.
func (c *Client) ValidateMultiple(ctx context.Context, req ValidateMultipleRequest) *ValidationResult {
	env, err := c.postJSON(ctx, validateMultiplePath, req)
	if err != nil {
		log.Printf("upstream: multi-coupon validation failed: %v", err)
		return &ValidationResult{Message: "Validation failed"}
	}
	if !env.Success {
		return &ValidationResult{Message: rejectionMessage(env)}
	}

	var data struct {
		AppliedCoupons []models.AppliedCoupon `json:"appliedCoupons"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		log.Printf("upstream: malformed multi-validation response: %v", err)
		return &ValidationResult{Message: "Validation failed"}
	}

	return &ValidationResult{OK: true, Applied: data.AppliedCoupons}
}

func rejectionMessage(env *envelope) string {
	if env.Message != "" {
		return env.Message
	}
	return "Validation failed"
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned %d for %s", resp.StatusCode, path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if !env.Success {
		return fmt.Errorf("backend rejected %s: %s", path, rejectionMessage(&env))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data from %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (*envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	// Non-OK statuses still carry the backend's rejection message in the
	// envelope, which the caller surfaces to the shopper.
	if resp.StatusCode != http.StatusOK && env.Message == "" {
		return nil, fmt.Errorf("backend returned %d for %s", resp.StatusCode, path)
	}
	return &env, nil
}
