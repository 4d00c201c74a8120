package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ashajkofci/bactocloud-downloader/internal/models"
)

// DefaultPageSize is the page size sent in data list filters.
const DefaultPageSize = 100

// Client is the BactoCloud API client. Every call is a single attempt with
// no client-side timeout; failures surface immediately to the caller.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an API client for the given base URL and key.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("API base URL is empty")
	}

	// Same HTTP wrapper as the rest of our tooling, with retries disabled:
	// the server treats every request as independent and errors are
	// reported to the user instead of retried.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

// doRequest performs an HTTP request with authentication headers.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*nethttp.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API: %w", err)
	}

	return resp, nil
}

// ListDevices fetches the user's physical devices, excluding virtual ones.
func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	query := url.Values{"no_virtual": {"true"}}

	resp, err := c.doRequest(ctx, "GET", "/api/v1/device", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, newAPIError(resp)
	}

	var devices []models.Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("failed to decode device list: %w", err)
	}

	return devices, nil
}

// ListMeasurements fetches all measurements for one device within the date
// range and bucket filter, following pages until a short page. An empty
// bucket list means no bucket restriction server-side. Zero results is not
// an error.
func (c *Client) ListMeasurements(ctx context.Context, deviceID string, rng models.DateRange, buckets []string) ([]models.Measurement, error) {
	filter := models.NewListFilter(deviceID, rng, buckets, DefaultPageSize)

	var all []models.Measurement
	for {
		resp, err := c.doRequest(ctx, "POST", "/api/v1/data/list", nil, filter)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != nethttp.StatusOK {
			apiErr := newAPIError(resp)
			resp.Body.Close()
			return nil, apiErr
		}

		var page models.MeasurementList
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode measurement list: %w", err)
		}

		all = append(all, page.Data...)

		if len(page.Data) < filter.PageSize {
			return all, nil
		}
		filter.Page++
	}
}

// FetchFile downloads an attachment's bytes by its opaque file ID. A non-200
// response wraps ErrFileUnavailable so callers can skip the attachment.
func (c *Client) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	path := fmt.Sprintf("/api/v1/data/file/%s", fileID)

	resp, err := c.doRequest(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("%w (status %d)", ErrFileUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}

	return data, nil
}
