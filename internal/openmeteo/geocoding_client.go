package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Place is a single geocoding match
type Place struct {
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Label renders "Name, Admin1", or just "Name" when the place has no region
func (p Place) Label() string {
	if p.Admin1 == "" {
		return p.Name
	}
	return p.Name + ", " + p.Admin1
}

// OpenMeteoGeocodingClient implements GeocodingClient using the Open-Meteo geocoding API
type OpenMeteoGeocodingClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGeocodingClient creates a geocoding client throttled to rps requests per second.
// rps <= 0 disables throttling.
func NewGeocodingClient(baseURL string, httpClient *http.Client, rps float64) *OpenMeteoGeocodingClient {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &OpenMeteoGeocodingClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type geocodingResponse struct {
	Results []Place `json:"results"`
}

// Search asks for exactly one best match for name
func (g *OpenMeteoGeocodingClient) Search(ctx context.Context, name string) ([]Place, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", "1")
	params.Set("language", "en")

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var result geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Results) == 0 {
		return []Place{}, nil
	}
	return result.Results[:1], nil
}
