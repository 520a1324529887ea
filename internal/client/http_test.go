package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method       string
	path         string
	escapedPath  string
	query        string
	body         string
	contentType  string
	cacheControl string
	pragma       string
	auth         string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.escapedPath = r.URL.EscapedPath()
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.cacheControl = r.Header.Get("Cache-Control")
	h.pragma = r.Header.Get("Pragma")
	h.auth = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given
// handler, using a fixed cache-buster for deterministic URLs.
func newTestClient(h http.Handler, token string) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, token)
	c.buster = func() string { return "fixed" }
	return c, srv
}

func TestOnboardingStatus(t *testing.T) {
	h := &testHandler{responseBody: `{"completedOnboarding": true, "hasCompletedAssessment": false}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	resp, err := c.OnboardingStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardingStatus: %v", err)
	}
	if !resp.CompletedOnboarding {
		t.Error("CompletedOnboarding = false, want true")
	}
	if resp.HasCompletedAssessment {
		t.Error("HasCompletedAssessment = true, want false")
	}

	if h.method != http.MethodGet {
		t.Errorf("method = %q, want GET", h.method)
	}
	if h.path != "/api/onboarding/status/user-1" {
		t.Errorf("path = %q", h.path)
	}
	if h.query != "t=fixed" {
		t.Errorf("query = %q, want t=fixed", h.query)
	}
	if h.cacheControl != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", h.cacheControl)
	}
	if h.pragma != "no-cache" {
		t.Errorf("Pragma = %q, want no-cache", h.pragma)
	}
}

func TestOnboardingStatusAssessmentFieldOptional(t *testing.T) {
	h := &testHandler{responseBody: `{"completedOnboarding": false}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	resp, err := c.OnboardingStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardingStatus: %v", err)
	}
	if resp.CompletedOnboarding || resp.HasCompletedAssessment {
		t.Errorf("got %+v, want both false", resp)
	}
}

func TestOnboardingStatusNotFound(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNotFound, responseBody: `{"error": "user not found"}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	_, err := c.OnboardingStatus(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if !apiErr.NotFound() {
		t.Errorf("NotFound() = false for status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "user not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestOnboardingStatusUserIDEscaped(t *testing.T) {
	h := &testHandler{responseBody: `{"completedOnboarding": false}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	if _, err := c.OnboardingStatus(context.Background(), "user/with spaces"); err != nil {
		t.Fatalf("OnboardingStatus: %v", err)
	}
	if strings.Contains(h.escapedPath, " ") {
		t.Errorf("path %q contains unescaped space", h.escapedPath)
	}
	if !strings.Contains(h.escapedPath, "%20") {
		t.Errorf("path %q missing escaped space", h.escapedPath)
	}
}

func TestCreatePayment(t *testing.T) {
	h := &testHandler{responseBody: `{
		"success": true,
		"paymentUrl": "https://pay.example/checkout/ORD123",
		"orderId": "ORD123",
		"amount": 150
	}`}
	c, srv := newTestClient(h, "tok-abc")
	defer srv.Close()

	resp, err := c.CreatePayment(context.Background(), &CreatePaymentRequest{
		SeasonID: "season-1",
		LeagueID: "league-9",
		Amount:   150,
		BillDesc: "Spring League - Mens Doubles",
		UserID:   "user-1",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if !resp.Success || resp.OrderID != "ORD123" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.PaymentURL != "https://pay.example/checkout/ORD123" {
		t.Errorf("PaymentURL = %q", resp.PaymentURL)
	}

	if h.method != http.MethodPost {
		t.Errorf("method = %q, want POST", h.method)
	}
	if h.path != "/api/payment/create" {
		t.Errorf("path = %q", h.path)
	}
	if h.contentType != "application/json" {
		t.Errorf("Content-Type = %q", h.contentType)
	}
	if h.auth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", h.auth)
	}
	for _, want := range []string{`"seasonId":"season-1"`, `"leagueId":"league-9"`, `"amount":150`, `"userId":"user-1"`} {
		if !strings.Contains(h.body, want) {
			t.Errorf("body %q missing %s", h.body, want)
		}
	}
}

func TestCreatePaymentBackendError(t *testing.T) {
	h := &testHandler{statusCode: http.StatusBadRequest, responseBody: `{"error": "season closed"}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	_, err := c.CreatePayment(context.Background(), &CreatePaymentRequest{UserID: "u"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "season closed" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestPaymentStatus(t *testing.T) {
	h := &testHandler{responseBody: `{
		"success": true,
		"payment": {
			"id": "pay-1",
			"orderId": "ORD123",
			"amount": 150,
			"status": "PENDING",
			"createdAt": "2026-03-01T10:00:00Z"
		}
	}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	resp, err := c.PaymentStatus(context.Background(), "ORD123", "user-1")
	if err != nil {
		t.Fatalf("PaymentStatus: %v", err)
	}
	if resp.Payment.Status != "PENDING" {
		t.Errorf("Status = %q", resp.Payment.Status)
	}
	if h.path != "/api/payment/status/ORD123" {
		t.Errorf("path = %q", h.path)
	}
	if h.query != "userId=user-1" {
		t.Errorf("query = %q", h.query)
	}
}

func TestUserPayments(t *testing.T) {
	h := &testHandler{responseBody: `{
		"success": true,
		"payments": [
			{"id": "pay-1", "orderId": "ORD1", "amount": 100, "status": "SUCCESS", "createdAt": "2026-01-01T00:00:00Z"},
			{"id": "pay-2", "orderId": "ORD2", "amount": 120, "status": "FAILED", "createdAt": "2026-02-01T00:00:00Z"}
		]
	}`}
	c, srv := newTestClient(h, "")
	defer srv.Close()

	resp, err := c.UserPayments(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("UserPayments: %v", err)
	}
	if len(resp.Payments) != 2 {
		t.Fatalf("len(Payments) = %d, want 2", len(resp.Payments))
	}
	if resp.Payments[1].Status != "FAILED" {
		t.Errorf("Payments[1].Status = %q", resp.Payments[1].Status)
	}
	if h.path != "/api/payment/user" || h.query != "userId=user-1" {
		t.Errorf("request = %q?%q", h.path, h.query)
	}
}

func TestNetworkError(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:0", "")
	_, err := c.OnboardingStatus(context.Background(), "user-1")
	if err == nil {
		t.Fatal("expected network error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("network failure surfaced as *APIError: %v", err)
	}
}
