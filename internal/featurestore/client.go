// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package featurestore is the HTTP client for the external property
// feature service (energy certificates, deprivation, crime, flood risk,
// broadband, planning history). The service owns the data; this client
// only fetches it, one property at a time or in batches.
package featurestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkeene/listing-engine/internal/httputil"
	"github.com/mkeene/listing-engine/pkg/types"
)

// Client calls the feature store over HTTP. Construct it explicitly and
// pass it to collaborators; the caller owns its lifetime.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	maxRetries int
}

// PropertyKey identifies one property in a batch request.
type PropertyKey struct {
	Reference string `json:"reference"`
	Postcode  string `json:"postcode"`
}

// New returns a Client for the feature store at cfg.BaseURL.
func New(cfg types.FeatureStoreConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// GetPropertyFeatures fetches the feature map for one property. A
// property unknown to the service yields an empty (all-nil) feature set,
// not an error. Transport failures and persistent server errors wrap
// types.ErrSourceUnavailable.
func (c *Client) GetPropertyFeatures(ctx context.Context, reference, postcode string) (types.PropertyFeatures, error) {
	endpoint := fmt.Sprintf("%s/v1/features?reference=%s&postcode=%s",
		c.baseURL, url.QueryEscape(reference), url.QueryEscape(postcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.PropertyFeatures{}, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return types.PropertyFeatures{}, fmt.Errorf("%w: feature store request: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.PropertyFeatures{}, nil
	case resp.StatusCode != http.StatusOK:
		return types.PropertyFeatures{}, fmt.Errorf("%w: feature store returned HTTP %d", types.ErrSourceUnavailable, resp.StatusCode)
	}

	var features types.PropertyFeatures
	if err := json.NewDecoder(resp.Body).Decode(&features); err != nil {
		return types.PropertyFeatures{}, fmt.Errorf("%w: parsing feature response: %v", types.ErrSourceUnavailable, err)
	}
	return features, nil
}

// batchRequest and batchResponse are the wire shapes for the batch
// endpoint. Results come back in request order.
type batchRequest struct {
	Properties []PropertyKey `json:"properties"`
}

type batchResponse struct {
	Features []types.PropertyFeatures `json:"features"`
}

// GetBatchFeatures fetches feature maps for several properties in one
// round trip. The result slice is index-aligned with keys.
func (c *Client) GetBatchFeatures(ctx context.Context, keys []PropertyKey) ([]types.PropertyFeatures, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(batchRequest{Properties: keys})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/features/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating batch request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: feature store batch request: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feature store returned HTTP %d", types.ErrSourceUnavailable, resp.StatusCode)
	}

	var parsed batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing batch response: %v", types.ErrSourceUnavailable, err)
	}
	if len(parsed.Features) != len(keys) {
		return nil, fmt.Errorf("%w: batch response has %d entries for %d keys",
			types.ErrSourceUnavailable, len(parsed.Features), len(keys))
	}
	return parsed.Features, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
