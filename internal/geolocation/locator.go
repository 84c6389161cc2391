// Package geolocation resolves the device position with a single attempt.
package geolocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

var (
	// ErrUnsupported means no position source is available on this device
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrPermissionDenied means a position source exists but refused to answer
	ErrPermissionDenied = errors.New("geolocation permission denied")
)

// Locator returns the current position. It never polls or watches.
type Locator interface {
	CurrentPosition(ctx context.Context) (*models.Location, error)
}

// Disabled is a Locator for devices without geolocation
type Disabled struct{}

func (Disabled) CurrentPosition(context.Context) (*models.Location, error) {
	return nil, ErrUnsupported
}

// StaticLocator answers with fixed coordinates, e.g. from command-line flags
type StaticLocator struct {
	Latitude  float64
	Longitude float64
}

func (s StaticLocator) CurrentPosition(context.Context) (*models.Location, error) {
	loc := &models.Location{Latitude: s.Latitude, Longitude: s.Longitude, Label: coordinateLabel(s.Latitude, s.Longitude)}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

// coordinateLabel names a position that has no place name
func coordinateLabel(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
