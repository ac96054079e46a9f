package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/server/http/dto"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/server/http/handlers"
	testhelpers "github.com/IbrahimUniJos/Kasuwa-sub002/internal/test"
)

var _ handlers.MarketplaceFacade = (*testhelpers.MarketplaceFacadeStub)(nil)

func newEngine() http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(&testhelpers.MarketplaceFacadeStub{}, logger)
}

func TestSetupPublicRoutes(t *testing.T) {
	engine := newEngine()

	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	for _, target := range []string{"/api/auth/register", "/api/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, w.Code)
		}
		if w.Header().Get("Authorization") == "" {
			t.Fatalf("%s: expected authorization header", target)
		}
	}
}

func TestSetupProtectedRoutesRequireAuth(t *testing.T) {
	engine := newEngine()

	targets := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/stats"},
		{http.MethodGet, "/api/orders/1"},
		{http.MethodPatch, "/api/orders/1/status"},
		{http.MethodPost, "/api/orders/1/cancel"},
	}

	for _, tt := range targets {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status 401, got %d", tt.method, tt.target, w.Code)
		}
	}
}

func TestSetupServesOrdersWithToken(t *testing.T) {
	engine := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
}

func TestSetupCreatesOrderWithToken(t *testing.T) {
	engine := newEngine()

	body, _ := json.Marshal(dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 1}},
		ShippingAddress: "12 Market Rd",
		ShippingMethod:  "standard",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
}
