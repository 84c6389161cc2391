package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

const DefaultIPLocatorURL = "http://ip-api.com/json"

// IPLocator approximates the device position from its public IP address
type IPLocator struct {
	url        string
	httpClient *http.Client
}

// NewIPLocator creates an IP based locator
func NewIPLocator(url string, httpClient *http.Client) *IPLocator {
	if url == "" {
		url = DefaultIPLocatorURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &IPLocator{url: url, httpClient: httpClient}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition performs one lookup
func (l *IPLocator) CurrentPosition(ctx context.Context) (*models.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("ip lookup returned status %d: %w", resp.StatusCode, ErrPermissionDenied)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status == "fail" {
		return nil, fmt.Errorf("ip lookup failed (%s): %w", body.Message, ErrPermissionDenied)
	}

	loc := &models.Location{Latitude: body.Lat, Longitude: body.Lon, Label: body.City}
	if loc.Label == "" {
		loc.Label = coordinateLabel(body.Lat, body.Lon)
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}
