// Package relayer is the REST client for the settlement relayer: order
// submission, fill readiness, status and secret delivery.
package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cross-swap/pkg/types"
)

const defaultTimeout = 15 * time.Second

// Client talks to a relayer instance over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a relayer client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SubmitResponse is the relayer's acknowledgement of an accepted order.
type SubmitResponse struct {
	OrderHash string            `json:"orderHash"`
	Status    types.OrderStatus `json:"status"`
}

// StatusResponse is the relayer's view of an order's lifecycle.
type StatusResponse struct {
	OrderHash string            `json:"orderHash"`
	Status    types.OrderStatus `json:"status"`
	Fills     []types.ReadyFill `json:"fills,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Submit sends a signed order to the relayer for resolver matching.
func (c *Client) Submit(ctx context.Context, req *types.SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/submit", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	return &resp, nil
}

// ReadyFills returns the fill indices whose escrows are locked on both
// chains and are safe to receive their secrets.
func (c *Client) ReadyFills(ctx context.Context, orderHash string) ([]types.ReadyFill, error) {
	var resp struct {
		Fills []types.ReadyFill `json:"fills"`
	}
	path := fmt.Sprintf("/v1/orders/%s/ready-fills", orderHash)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get ready fills: %w", err)
	}
	return resp.Fills, nil
}

// Status returns the relayer's current view of the order.
func (c *Client) Status(ctx context.Context, orderHash string) (*StatusResponse, error) {
	var resp StatusResponse
	path := fmt.Sprintf("/v1/orders/%s/status", orderHash)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &resp, nil
}

// SubmitSecret reveals the secret for one ready fill index.
func (c *Client) SubmitSecret(ctx context.Context, orderHash string, idx int, secret string) error {
	body := struct {
		Idx    int    `json:"idx"`
		Secret string `json:"secret"`
	}{Idx: idx, Secret: secret}

	path := fmt.Sprintf("/v1/orders/%s/secret", orderHash)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to submit secret: %w", err)
	}
	return nil
}

// do executes one request and decodes the JSON response into out. Non-2xx
// responses become errors carrying the relayer's message when it sent one.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// Try to surface the relayer's own message before falling back to
		// the raw body.
		var errorResp map[string]interface{}
		if jsonErr := json.Unmarshal(bodyBytes, &errorResp); jsonErr == nil {
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("relayer error (status %d): %s", httpResp.StatusCode, message)
			}
		}
		if len(bodyBytes) > 0 {
			return fmt.Errorf("relayer error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
		}
		return fmt.Errorf("relayer returned status code %d", httpResp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
