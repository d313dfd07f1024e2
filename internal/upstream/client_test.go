package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-gateway/internal/cache"
	"storefront-gateway/internal/models"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 5*time.Second, cache.Disabled{}, 0)
	return client, server
}

func TestActiveCoupons(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/coupon/active" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "c1", "code": "SAVE10", "discountType": "percentage", "discountValue": 10, "status": "active"},
			},
		})
	}))
	defer server.Close()

	coupons, err := client.ActiveCoupons(context.Background())
	if err != nil {
		t.Fatalf("ActiveCoupons failed: %v", err)
	}
	if len(coupons) != 1 || coupons[0].Code != "SAVE10" {
		t.Errorf("Unexpected coupons: %+v", coupons)
	}
	if coupons[0].DiscountValue != 10 {
		t.Errorf("Expected discount value 10, got %v", coupons[0].DiscountValue)
	}
}

func TestActiveCouponsBackendFailure(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := client.ActiveCoupons(context.Background()); err == nil {
		t.Error("Expected an error on a 500 response")
	}
}

func TestStoreSettings(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"autoApply":             true,
				"autoApplyStrategy":     "best_savings",
				"freeShippingThreshold": 100,
				"shippingCost":          9.99,
			},
		})
	}))
	defer server.Close()

	settings, err := client.StoreSettings(context.Background())
	if err != nil {
		t.Fatalf("StoreSettings failed: %v", err)
	}
	if !settings.AutoApply || settings.AutoApplyStrategy != "best_savings" {
		t.Errorf("Unexpected settings: %+v", settings)
	}
	if settings.ShippingCost != 9.99 {
		t.Errorf("Expected shipping cost 9.99, got %v", settings.ShippingCost)
	}
}

func TestValidateAccepted(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/coupon/validate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body.CouponCode != "SAVE10" {
			t.Errorf("Expected SAVE10 submitted, got %q", body.CouponCode)
		}
		if body.CartSubtotal != 80 {
			t.Errorf("Expected cart subtotal 80, got %v", body.CartSubtotal)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"couponId":     "c1",
				"couponCode":   "SAVE10",
				"discountType": "percentage",
				"discount":     8,
			},
		})
	}))
	defer server.Close()

	result := client.Validate(context.Background(), ValidateRequest{
		CouponCode:   "SAVE10",
		CartTotal:    85,
		CartSubtotal: 80,
		ShippingCost: 5,
	})

	if !result.OK {
		t.Fatalf("Expected acceptance, got %+v", result)
	}
	if len(result.Applied) != 1 || result.Applied[0].Code != "SAVE10" || result.Applied[0].Discount != 8 {
		t.Errorf("Expected the backend discount echoed, got %+v", result.Applied)
	}
}

func TestValidateRejectionKeepsBackendMessage(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Minimum order amount of 50 not reached",
		})
	}))
	defer server.Close()

	result := client.Validate(context.Background(), ValidateRequest{CouponCode: "SAVE10"})
	if result.OK {
		t.Fatal("Expected rejection")
	}
	if result.Message != "Minimum order amount of 50 not reached" {
		t.Errorf("Expected the backend message verbatim, got %q", result.Message)
	}
}

func TestValidateTransportFailure(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	result := client.Validate(context.Background(), ValidateRequest{CouponCode: "SAVE10"})
	if result.OK {
		t.Fatal("Expected rejection on transport failure")
	}
	if result.Message != "Validation failed" {
		t.Errorf("Expected generic rejection, got %q", result.Message)
	}
}

func TestValidateMultiple(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/coupon/validate-multiple" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body ValidateMultipleRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(body.ExcludeAppliedCoupons) != 1 || body.ExcludeAppliedCoupons[0] != "FIRST" {
			t.Errorf("Expected FIRST excluded, got %v", body.ExcludeAppliedCoupons)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"appliedCoupons": []map[string]interface{}{
					{"couponId": "c2", "code": "SECOND", "discountType": "amount", "discount": 3},
				},
			},
		})
	}))
	defer server.Close()

	result := client.ValidateMultiple(context.Background(), ValidateMultipleRequest{
		ValidateRequest:       ValidateRequest{CouponCode: "SECOND"},
		CouponCodes:           []string{"SECOND"},
		ExcludeAppliedCoupons: []string{"FIRST"},
	})

	if !result.OK || len(result.Applied) != 1 || result.Applied[0].Code != "SECOND" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestProducts(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "p1", "title": "Mug", "price": 25, "finalPriceDiscount": 20},
			},
		})
	}))
	defer server.Close()

	products, err := client.Products(context.Background())
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(products) != 1 || products[0].FinalPriceDiscount != 20 {
		t.Errorf("Unexpected products: %+v", products)
	}
}

func TestContextCancellationAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	if _, err := client.ActiveCoupons(ctx); err == nil {
		t.Error("Expected an error after context cancellation")
	}
}

type countingCache struct {
	store map[string]string
	gets  int
	sets  int
}

func (c *countingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.sets++
	c.store[key] = value
	return nil
}

func (c *countingCache) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	return c.store[key], nil
}

func (c *countingCache) GenerateKey(operation, key string) string {
	return "gateway:" + operation + ":" + key
}

func TestActiveCouponsServedFromCache(t *testing.T) {
	hits := 0
	cc := &countingCache{store: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []models.Coupon{{ID: "c1", Code: "SAVE10", Status: "active"}},
		})
	}))
	defer server.Close()
	client := NewClient(server.URL, 5*time.Second, cc, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := client.ActiveCoupons(context.Background()); err != nil {
			t.Fatalf("ActiveCoupons failed on call %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("Expected a single upstream hit with a warm cache, got %d", hits)
	}
	if cc.sets != 1 {
		t.Errorf("Expected a single cache write, got %d", cc.sets)
	}
}
