package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/payrelay/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		GatewayBaseURL:  baseURL,
		GatewayMode:     "sandbox",
		GatewayUser:     "api-user",
		GatewayPassword: "api-pass",
		GatewayAPIKey:   "api-key",
	}
}

func testPayload() InitializePayload {
	return InitializePayload{
		TotalAmount:    1000,
		Currency:       "XAF",
		TransactionID:  "PU1700000000000",
		ReturnURL:      "http://localhost:3000/payment/return",
		NotifyURL:      "http://localhost:3000/api/payment/notify",
		PaymentCountry: "CM",
	}
}

func TestInitializeSendsAuthenticatedRequest(t *testing.T) {
	var gotPath, gotAuth, gotAPIKey, gotMode string
	var gotBody InitializePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("x-api-key")
		gotMode = r.Header.Get("mode")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "SUCCESS",
			"message": "Transaction initiated",
			"data": map[string]any{
				"transaction_url": "https://pay.example.com/session/abc",
				"providers":       []map[string]string{{"shortcode": "mtn_momo"}},
			},
		})
	}))
	defer srv.Close()

	client := NewGatewayClient(testConfig(srv.URL))
	result, err := client.Initialize(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if gotPath != "/api/gateway/initialize" {
		t.Errorf("wrong path: %s", gotPath)
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("api-user:api-pass"))
	if gotAuth != wantAuth {
		t.Errorf("authorization header: want %q, got %q", wantAuth, gotAuth)
	}
	if gotAPIKey != "api-key" {
		t.Errorf("x-api-key header: got %q", gotAPIKey)
	}
	if gotMode != "sandbox" {
		t.Errorf("mode header: got %q", gotMode)
	}
	if gotBody.TotalAmount != 1000 || gotBody.TransactionID != "PU1700000000000" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}

	if result.Data.TransactionURL != "https://pay.example.com/session/abc" {
		t.Errorf("transaction_url not parsed: %q", result.Data.TransactionURL)
	}
	if len(result.Data.Providers) != 1 {
		t.Errorf("providers not parsed: %d entries", len(result.Data.Providers))
	}
}

func TestInitializeToleratesMissingOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "SUCCESS"})
	}))
	defer srv.Close()

	client := NewGatewayClient(testConfig(srv.URL))
	result, err := client.Initialize(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if result.Data.TransactionURL != "" {
		t.Errorf("transaction_url should be empty, got %q", result.Data.TransactionURL)
	}
	if len(result.Data.Providers) != 0 {
		t.Errorf("providers should be empty, got %d", len(result.Data.Providers))
	}
}

func TestInitializeSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "FAILED",
			"message": "invalid api credentials",
		})
	}))
	defer srv.Close()

	client := NewGatewayClient(testConfig(srv.URL))
	_, err := client.Initialize(context.Background(), testPayload())
	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}

	ge, ok := err.(*GatewayError)
	if !ok {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if ge.StatusCode != http.StatusUnauthorized {
		t.Errorf("status code: want 401, got %d", ge.StatusCode)
	}
	if ge.Message != "invalid api credentials" {
		t.Errorf("message: got %q", ge.Message)
	}
	if len(ge.Details) == 0 {
		t.Error("details should carry the upstream body")
	}
}

func TestInitializeFailureWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewGatewayClient(testConfig(srv.URL))
	_, err := client.Initialize(context.Background(), testPayload())

	ge, ok := err.(*GatewayError)
	if !ok {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if ge.Message != "payment initialization failed" {
		t.Errorf("want generic failure message, got %q", ge.Message)
	}
}

func TestInitializeUnreachableGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewGatewayClient(testConfig(srv.URL))
	_, err := client.Initialize(context.Background(), testPayload())

	ge, ok := err.(*GatewayError)
	if !ok {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if ge.StatusCode != 0 {
		t.Errorf("transport failure should carry status 0, got %d", ge.StatusCode)
	}
}
