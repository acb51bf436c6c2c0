package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/erp/pricing/internal/domain/pricing"
	"go.uber.org/zap"
)

// Constants for the authority HTTP API
const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response
)

// credentialContextKey is the context key type for per-request credentials
type credentialContextKey struct{}

// WithCredential returns a context carrying a per-request auth
// credential. The client treats it as an opaque string and attaches it
// as a bearer token, overriding the configured ambient token.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, token)
}

// CredentialFromContext extracts the per-request credential, if any
func CredentialFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialContextKey{}).(string)
	return token, ok && token != ""
}

// HTTPClient implements pricing.Authority against a remote pricing
// authority's HTTP API
type HTTPClient struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// HTTPClientOption is a functional option for configuring the client
type HTTPClientOption func(*HTTPClient)

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) HTTPClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests)
func WithHTTPClient(httpClient *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

// NewHTTPClient creates a new authority client with the given configuration
func NewHTTPClient(config *Config, opts ...HTTPClientOption) (*HTTPClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.timeoutSeconds()) * time.Second,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// GetPrice resolves the price one customer pays for one product
func (c *HTTPClient) GetPrice(ctx context.Context, customerID, productID string) (*pricing.Resolution, error) {
	path := fmt.Sprintf("/api/v1/customers/%s/products/%s/price",
		url.PathEscape(customerID), url.PathEscape(productID))

	var payload resolutionPayload
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	resolution := payload.toDomain()
	return &resolution, nil
}

// GetPrices resolves a whole product list for one customer in a single request
func (c *HTTPClient) GetPrices(ctx context.Context, customerID string, productIDs []string) (map[string]pricing.Resolution, error) {
	path := fmt.Sprintf("/api/v1/customers/%s/prices/bulk", url.PathEscape(customerID))

	var payload bulkPricesResponse
	if err := c.doJSON(ctx, http.MethodPost, path, bulkPricesRequest{ProductIDs: productIDs}, &payload); err != nil {
		return nil, err
	}

	results := make(map[string]pricing.Resolution, len(payload.Prices))
	for productID, p := range payload.Prices {
		results[productID] = p.toDomain()
	}
	return results, nil
}

// SaveCustomPrice persists an explicit manual price override
func (c *HTTPClient) SaveCustomPrice(ctx context.Context, override pricing.CustomPriceInput) error {
	if err := override.Validate(); err != nil {
		return err
	}

	path := fmt.Sprintf("/api/v1/customers/%s/products/%s/custom-price",
		url.PathEscape(override.CustomerID), url.PathEscape(override.ProductID))

	return c.doJSON(ctx, http.MethodPut, path, customPriceRequest{
		Price:  override.Price,
		Reason: override.Reason,
	}, nil)
}

// doJSON performs one authenticated round-trip, encoding the request
// body and decoding the response into out when non-nil
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.config.Token
	if ctxToken, ok := CredentialFromContext(ctx); ok {
		token = ctxToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Pricing authority request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("authority request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read authority response: %w", err)
	}

	c.logger.Debug("Pricing authority request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error.Message != "" {
			return fmt.Errorf("authority returned %d: %s (%s)",
				resp.StatusCode, errResp.Error.Message, errResp.Error.Code)
		}
		return fmt.Errorf("authority returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode authority response: %w", err)
		}
	}
	return nil
}

// Ensure HTTPClient implements Authority
var _ pricing.Authority = (*HTTPClient)(nil)
