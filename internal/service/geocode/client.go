// Package geocode resolves free-text street addresses into coordinates via
// the Nominatim (OpenStreetMap) search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

var (
	// ErrNoMatch indicates the upstream returned zero results for the address.
	ErrNoMatch = errors.New("address not found")
	// ErrUnavailable indicates the upstream could not be reached or errored.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// Result is the normalized geocoding answer for a single address.
type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// nominatimResult mirrors the relevant parts of the OSM search payload.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client queries a Nominatim-compatible endpoint. Every call is a fresh
// upstream request: no caching, no retries, no rate limiting.
type Client struct {
	httpClient *http.Client
	baseURL    string
	qualifier  string
	userAgent  string
}

// NewClient builds a Client. qualifier is the fixed locality appended to
// every query (e.g. "La Plata, Argentina"); userAgent identifies this
// application to the upstream service, which requires one.
func NewClient(httpClient *http.Client, baseURL, qualifier, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		qualifier:  qualifier,
		userAgent:  userAgent,
	}
}

// Resolve looks up a street address and returns the first match.
func (c *Client) Resolve(ctx context.Context, address string) (*Result, error) {
	query := address
	if c.qualifier != "" {
		query = address + ", " + c.qualifier
	}
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse lat %q: %v", ErrUnavailable, first.Lat, err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: parse lon %q: %v", ErrUnavailable, first.Lon, err)
	}

	return &Result{Lat: lat, Lng: lng, FormattedAddress: first.DisplayName}, nil
}
