package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// OpenMeteoForecastClient implements ForecastClient using the Open-Meteo forecast API
type OpenMeteoForecastClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewForecastClient creates a forecast client. A nil httpClient gets a default with a 30s timeout.
func NewForecastClient(baseURL string, httpClient *http.Client) *OpenMeteoForecastClient {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OpenMeteoForecastClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

type forecastResponse struct {
	Current *models.CurrentConditions `json:"current"`
}

// GetCurrent retrieves current conditions with an auto-detected timezone
func (c *OpenMeteoForecastClient) GetCurrent(ctx context.Context, lat, lon float64) (*models.CurrentConditions, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", CurrentFields)
	params.Set("timezone", "auto")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast API returned status %d: %s", resp.StatusCode, string(body))
	}

	var forecastResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecastResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if forecastResp.Current == nil {
		return nil, fmt.Errorf("forecast response has no current block")
	}

	return forecastResp.Current, nil
}
