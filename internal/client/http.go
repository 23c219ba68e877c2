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

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// HTTPClient implements API against the vendorwatch HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) CreateVendor(ctx context.Context, req *CreateVendorRequest) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := c.doJSON(ctx, http.MethodPost, "/v1/vendors", req, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (c *HTTPClient) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := c.doJSON(ctx, http.MethodGet, "/v1/vendors/"+url.PathEscape(id), nil, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (c *HTTPClient) ListVendors(ctx context.Context) (*ListVendorsResponse, error) {
	var resp ListVendorsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/vendors", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateVendor(ctx context.Context, id string, req *UpdateVendorRequest) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/vendors/"+url.PathEscape(id), req, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (c *HTTPClient) DeleteVendor(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/vendors/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) ListSnapshots(ctx context.Context, vendorID string, limit, offset int) (*ListSnapshotsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	path := "/v1/vendors/" + url.PathEscape(vendorID) + "/snapshots"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListSnapshotsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListRiskEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	q := url.Values{}
	if req.VendorID != "" {
		q.Set("vendor_id", req.VendorID)
	}
	if len(req.Severity) > 0 {
		q.Set("severity", strings.Join(req.Severity, ","))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	path := "/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListEventsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetRiskEvent(ctx context.Context, id string) (*model.RiskEvent, error) {
	var event model.RiskEvent
	if err := c.doJSON(ctx, http.MethodGet, "/v1/events/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) StartCycle(ctx context.Context, req *StartCycleRequest) (*StartCycleResponse, error) {
	var resp StartCycleResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/cycles", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CycleRunning(ctx context.Context) (bool, error) {
	var resp struct {
		Running bool `json:"running"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/cycles/current", nil, &resp); err != nil {
		return false, err
	}
	return resp.Running, nil
}

func (c *HTTPClient) CancelCycle(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/cycles/current", nil, nil)
}

func (c *HTTPClient) GetAlertSettings(ctx context.Context) (*AlertSettings, error) {
	var resp AlertSettings
	if err := c.doJSON(ctx, http.MethodGet, "/v1/settings/alerts", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PutAlertSettings(ctx context.Context, settings *AlertSettings) error {
	return c.doJSON(ctx, http.MethodPut, "/v1/settings/alerts", settings, nil)
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/v1/health", nil, nil)
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into out (skipped when out is nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}
