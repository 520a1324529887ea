package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/deuceleague/appcore/internal/idgen"
)

// HTTPClient implements Backend using the league backend's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// buster supplies the value of the cache-defeating "t" query parameter
	// on status fetches. Overridable in tests for deterministic URLs.
	buster func() string
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "https://api.deuceleague.example"). When token is non-empty, an
// Authorization header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		buster:     idgen.CacheBuster,
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// BaseURL returns the backend base URL the client was constructed with.
// The payment package needs it to recognize checkout return redirects.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) OnboardingStatus(ctx context.Context, userID string) (*OnboardingStatusResponse, error) {
	// Cache-busting query parameter plus no-cache headers: intermediate
	// caches have served stale "incomplete" statuses right after a user
	// finished onboarding.
	path := "/api/onboarding/status/" + url.PathEscape(userID) + "?t=" + url.QueryEscape(c.buster())
	headers := map[string]string{
		"Cache-Control": "no-cache",
		"Pragma":        "no-cache",
	}

	var resp OnboardingStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	var resp CreatePaymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/payment/create", req, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PaymentStatus(ctx context.Context, orderID, userID string) (*PaymentStatusResponse, error) {
	path := "/api/payment/status/" + url.PathEscape(orderID) + "?userId=" + url.QueryEscape(userID)
	var resp PaymentStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UserPayments(ctx context.Context, userID string) (*UserPaymentsResponse, error) {
	path := "/api/payment/user?userId=" + url.QueryEscape(userID)
	var resp UserPaymentsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// APIError represents a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the backend answered 404, which for the
// onboarding status endpoint means "user not known to onboarding yet".
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// doJSON performs an HTTP request with optional JSON body and extra headers,
// then decodes the JSON response. If result is nil, the response body is
// discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, headers map[string]string, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
